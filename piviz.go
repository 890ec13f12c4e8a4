package piviz

import "github.com/hajimehoshi/ebiten/v2"

// RGB is a single pixel of a simulation frame. Channels are in [0, 255].
type RGB struct {
	R, G, B uint8
}

// PixelBuffer is a row-major grid of RGB pixels, indexed as
// buffer[row][col]. Rows must all have the same length; ragged buffers
// are a contract violation by the producer and are not validated here.
type PixelBuffer [][]RGB

// Rows returns the number of rows (the image height).
func (b PixelBuffer) Rows() int {
	return len(b)
}

// Cols returns the number of columns (the image width).
// A zero-row buffer has zero columns.
func (b PixelBuffer) Cols() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

// SimulationResult is the immutable output of one simulation run.
// It is produced once per dispatched request and consumed exactly once
// by the renderer.
type SimulationResult struct {
	// Image is the rendered scatter plot. May be nil for stats-only runs.
	Image PixelBuffer

	PointsInside int
	TotalPoints  int
	PiEstimate   float64
	AbsError     float64
	StdError     float64
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// whitePixel is a 1x1 white image used for solid color fills in the UI.
// Created lazily so that logic-only tests never touch the graphics stack.
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(ColorWhite.toRGBA())
	}
	return whitePixel
}

// toRGBA converts a Color to a color.RGBA-compatible value (premultiplied).
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
