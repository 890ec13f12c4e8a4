package piviz

import "math"

// Plot palette, matching the reference visualization: red points inside
// the circle, blue outside, black outlines on a white background.
var (
	plotBackground = RGB{255, 255, 255}
	plotGrid       = RGB{225, 225, 225}
	plotFrame      = RGB{0, 0, 0}
	plotInside     = RGB{255, 0, 0}
	plotOutside    = RGB{0, 0, 255}
)

const (
	// plotMargin scales the visible world extent beyond the bounding
	// square so the outlines are not clipped at the image edge.
	plotMargin = 1.1

	// circleSegments is the number of line segments approximating the
	// circle outline.
	circleSegments = 100

	// pointAlpha is the opacity of scatter points, blended over
	// whatever is already at the pixel.
	pointAlpha = 0.6

	plotGridDivisions = 10
	plotLineWidth     = 2
	plotPointSize     = 2
)

// Plotter renders a Samples set into a square scatter-plot PixelBuffer:
// grid, circle outline, bounding square, and the sampled points colored
// by whether they landed inside the circle.
type Plotter struct {
	size   int
	radius float64
}

// NewPlotter creates a plotter producing size×size images for a circle
// of the given radius.
func NewPlotter(size int, radius float64) *Plotter {
	if size < 1 {
		size = 1
	}
	if radius <= 0 {
		radius = 1
	}
	return &Plotter{size: size, radius: radius}
}

// Size returns the side length in pixels of rendered plots.
func (p *Plotter) Size() int {
	return p.size
}

// Render draws the sample set into a freshly allocated buffer. The
// returned buffer is not retained by the plotter; callers own it.
func (p *Plotter) Render(set Samples) PixelBuffer {
	buf := make(PixelBuffer, p.size)
	for row := range buf {
		buf[row] = make([]RGB, p.size)
		for col := range buf[row] {
			buf[row][col] = plotBackground
		}
	}

	p.drawGrid(buf)

	// Bounding square at ±r.
	r := p.radius
	p.line(buf, -r, -r, -r, r, plotFrame)
	p.line(buf, -r, r, r, r, plotFrame)
	p.line(buf, r, r, r, -r, plotFrame)
	p.line(buf, r, -r, -r, -r, plotFrame)

	// Circle outline as a polyline.
	prevX, prevY := r, 0.0
	for i := 1; i <= circleSegments; i++ {
		theta := 2 * math.Pi * float64(i) / circleSegments
		x := r * math.Cos(theta)
		y := r * math.Sin(theta)
		p.line(buf, prevX, prevY, x, y, plotFrame)
		prevX, prevY = x, y
	}

	for i := range set.XS {
		c := plotOutside
		if set.Inside[i] {
			c = plotInside
		}
		px, py := p.toPixel(set.XS[i], set.YS[i])
		p.dot(buf, px, py, plotPointSize, c, pointAlpha)
	}

	return buf
}

// toPixel maps world coordinates (origin at the circle center, Y up) to
// pixel coordinates (origin top-left, Y down).
func (p *Plotter) toPixel(x, y float64) (int, int) {
	half := p.radius * plotMargin
	scale := float64(p.size-1) / (2 * half)
	px := int(math.Round((x + half) * scale))
	py := int(math.Round((half - y) * scale))
	return px, py
}

func (p *Plotter) drawGrid(buf PixelBuffer) {
	if p.size < plotGridDivisions {
		return
	}
	step := p.size / plotGridDivisions
	for g := step; g < p.size; g += step {
		for i := 0; i < p.size; i++ {
			buf[g][i] = plotGrid
			buf[i][g] = plotGrid
		}
	}
}

// line draws a world-space segment as a DDA polyline of square dots,
// plotLineWidth pixels thick.
func (p *Plotter) line(buf PixelBuffer, x0, y0, x1, y1 float64, c RGB) {
	px0, py0 := p.toPixel(x0, y0)
	px1, py1 := p.toPixel(x1, y1)
	dx := px1 - px0
	dy := py1 - py0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		p.dot(buf, px0, py0, plotLineWidth, c, 1)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := px0 + int(math.Round(float64(dx)*t))
		y := py0 + int(math.Round(float64(dy)*t))
		p.dot(buf, x, y, plotLineWidth, c, 1)
	}
}

// dot fills a size×size block anchored at (px, py), alpha-blended over
// the existing pixels. Out-of-bounds pixels are clipped.
func (p *Plotter) dot(buf PixelBuffer, px, py, size int, c RGB, alpha float64) {
	for y := py; y < py+size; y++ {
		if y < 0 || y >= len(buf) {
			continue
		}
		for x := px; x < px+size; x++ {
			if x < 0 || x >= len(buf[y]) {
				continue
			}
			buf[y][x] = blend(buf[y][x], c, alpha)
		}
	}
}

// blend mixes src over dst with the given opacity.
func blend(dst, src RGB, alpha float64) RGB {
	if alpha >= 1 {
		return src
	}
	mix := func(d, s uint8) uint8 {
		return uint8(float64(d)*(1-alpha) + float64(s)*alpha + 0.5)
	}
	return RGB{mix(dst.R, src.R), mix(dst.G, src.G), mix(dst.B, src.B)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
