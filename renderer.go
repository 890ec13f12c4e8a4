package piviz

import (
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// statDecimals is the number of decimal places used for the estimate,
// error, and ratio display fields.
const statDecimals = 4

// ExpandRGBA flattens a row-major RGB pixel buffer into the packed RGBA
// byte layout expected by ebiten.Image.WritePixels: one byte per
// channel, alpha fixed at 255, destination index advancing by 4 per
// source pixel, rows outer and columns inner. Returns the pixel data
// and the image dimensions (width = cols, height = rows).
//
// A zero-row buffer yields nil data and zero dimensions.
func ExpandRGBA(buf PixelBuffer) (pix []byte, w, h int) {
	h = buf.Rows()
	w = buf.Cols()
	if h == 0 || w == 0 {
		return nil, 0, 0
	}
	pix = make([]byte, 4*w*h)
	i := 0
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			p := buf[row][col]
			pix[i] = p.R
			pix[i+1] = p.G
			pix[i+2] = p.B
			pix[i+3] = 255
			i += 4
		}
	}
	return pix, w, h
}

// FrameRenderer owns the presentation surface for simulation frames.
// The surface is resized to exactly cols×rows on every blit whose
// dimensions differ from the previous frame. Not safe for concurrent
// use; call only from the event-loop thread.
type FrameRenderer struct {
	surface *ebiten.Image
	w, h    int
}

// NewFrameRenderer creates a renderer with no surface yet. The surface
// is allocated on the first non-empty Blit.
func NewFrameRenderer() *FrameRenderer {
	return &FrameRenderer{}
}

// Blit writes the pixel buffer to the surface, reallocating it if the
// buffer dimensions changed. An empty buffer disposes the surface (zero
// area) and writes nothing.
func (fr *FrameRenderer) Blit(buf PixelBuffer) {
	pix, w, h := ExpandRGBA(buf)
	if w == 0 || h == 0 {
		fr.dispose()
		return
	}
	if fr.surface == nil || w != fr.w || h != fr.h {
		fr.dispose()
		fr.surface = ebiten.NewImage(w, h)
		fr.w, fr.h = w, h
	}
	fr.surface.WritePixels(pix)
}

// Surface returns the current frame image, or nil if nothing has been
// blitted (or the last blit was empty).
func (fr *FrameRenderer) Surface() *ebiten.Image {
	return fr.surface
}

// Width returns the surface width in pixels.
func (fr *FrameRenderer) Width() int {
	return fr.w
}

// Height returns the surface height in pixels.
func (fr *FrameRenderer) Height() int {
	return fr.h
}

func (fr *FrameRenderer) dispose() {
	if fr.surface != nil {
		fr.surface.Deallocate()
		fr.surface = nil
	}
	fr.w, fr.h = 0, 0
}

// StatsText holds the formatted display strings for one result: counts
// as grouped integers, estimate/error/ratio with a fixed number of
// decimal places. Purely presentation; no computation happens here.
type StatsText struct {
	Samples  string `json:"samples"`
	Inside   string `json:"inside"`
	Total    string `json:"total"`
	Estimate string `json:"estimate"`
	AbsError string `json:"absError"`
	StdError string `json:"stdError"`
	Ratio    string `json:"ratio"`
}

// FormatStats renders a result's statistics into display strings.
func FormatStats(res *SimulationResult) StatsText {
	ratio := 0.0
	if res.TotalPoints > 0 {
		ratio = float64(res.PointsInside) / float64(res.TotalPoints)
	}
	return StatsText{
		Samples:  GroupInt(res.TotalPoints),
		Inside:   GroupInt(res.PointsInside),
		Total:    GroupInt(res.TotalPoints),
		Estimate: formatFixed(res.PiEstimate),
		AbsError: formatFixed(res.AbsError),
		StdError: formatFixed(res.StdError),
		Ratio:    formatFixed(ratio),
	}
}

func formatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', statDecimals, 64)
}

// GroupInt formats n with comma digit grouping, e.g. 1234567 → "1,234,567".
func GroupInt(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
