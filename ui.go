package piviz

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Slider is a horizontal logarithmic slider mapping track position to
// an integer sample count in [Min, Max]. The on-screen handle eases
// toward the active position; the reported value tracks the pointer
// immediately.
type Slider struct {
	Rect     Rect
	Min, Max int

	// OnChange fires whenever dragging moves the value to a different
	// integer. May fire many times per drag; downstream debouncing is
	// the RefreshController's job.
	OnChange func(n int)

	value    int
	t        float64 // active track position in [0, 1]
	handle   float64 // displayed handle position
	tween    *gween.Tween
	dragging bool
}

// handleEaseDuration is how long the handle takes to settle, seconds.
const handleEaseDuration = 0.12

// NewSlider creates a slider over [min, max] starting at initial.
func NewSlider(r Rect, min, max, initial int) *Slider {
	if min < 1 {
		min = 1
	}
	if max < min {
		max = min
	}
	s := &Slider{Rect: r, Min: min, Max: max}
	s.SetValue(initial)
	s.handle = s.t
	return s
}

// Value returns the current sample count.
func (s *Slider) Value() int {
	return s.value
}

// SetValue moves the slider to n, clamped to [Min, Max]. Does not fire
// OnChange.
func (s *Slider) SetValue(n int) {
	if n < s.Min {
		n = s.Min
	}
	if n > s.Max {
		n = s.Max
	}
	s.value = n
	s.t = s.posOf(n)
	s.tween = gween.New(float32(s.handle), float32(s.t), handleEaseDuration, ease.OutQuad)
}

// valueAt maps a track position in [0, 1] to a sample count on the log
// scale: v = Min · (Max/Min)^t.
func (s *Slider) valueAt(t float64) int {
	if s.Max == s.Min {
		return s.Min
	}
	v := float64(s.Min) * math.Pow(float64(s.Max)/float64(s.Min), clamp01(t))
	n := int(math.Round(v))
	if n < s.Min {
		n = s.Min
	}
	if n > s.Max {
		n = s.Max
	}
	return n
}

// posOf is the inverse of valueAt.
func (s *Slider) posOf(n int) float64 {
	if s.Max == s.Min || n <= s.Min {
		return 0
	}
	if n >= s.Max {
		return 1
	}
	return math.Log(float64(n)/float64(s.Min)) / math.Log(float64(s.Max)/float64(s.Min))
}

// Update processes mouse input and advances the handle tween.
// dt is in seconds.
func (s *Slider) Update(dt float64) {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	if pressed && !s.dragging && s.Rect.Contains(float64(mx), float64(my)) {
		s.dragging = true
	}
	if !pressed {
		s.dragging = false
	}

	if s.dragging {
		t := clamp01((float64(mx) - s.Rect.X) / s.Rect.Width)
		if n := s.valueAt(t); n != s.value {
			s.value = n
			s.t = t
			s.tween = gween.New(float32(s.handle), float32(t), handleEaseDuration, ease.OutQuad)
			if s.OnChange != nil {
				s.OnChange(n)
			}
		}
	}

	if s.tween != nil {
		v, done := s.tween.Update(float32(dt))
		s.handle = float64(v)
		if done {
			s.tween = nil
		}
	}
}

// Slider colors.
var (
	sliderTrackColor  = Color{0.28, 0.28, 0.34, 1}
	sliderFillColor   = Color{0.35, 0.62, 0.9, 1}
	sliderHandleColor = Color{0.92, 0.92, 0.95, 1}
)

// Draw renders the track, the filled portion, and the handle.
func (s *Slider) Draw(screen *ebiten.Image) {
	trackH := 4.0
	trackY := s.Rect.Y + (s.Rect.Height-trackH)/2
	fillRect(screen, Rect{s.Rect.X, trackY, s.Rect.Width, trackH}, sliderTrackColor)
	fillRect(screen, Rect{s.Rect.X, trackY, s.Rect.Width * s.handle, trackH}, sliderFillColor)

	handleW, handleH := 10.0, s.Rect.Height
	hx := s.Rect.X + s.Rect.Width*s.handle - handleW/2
	fillRect(screen, Rect{hx, s.Rect.Y, handleW, handleH}, sliderHandleColor)
}

// fillRect draws a solid-color rectangle by scaling the shared white
// pixel, the same way solid color sprites are drawn.
func fillRect(dst *ebiten.Image, r Rect, c Color) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(r.X, r.Y)
	op.ColorScale.Scale(
		float32(c.R*c.A),
		float32(c.G*c.A),
		float32(c.B*c.A),
		float32(c.A),
	)
	dst.DrawImage(ensureWhitePixel(), &op)
}

// Label is a positioned text display field drawn with the debug font.
type Label struct {
	X, Y float64
	text string
}

// NewLabel creates a label at (x, y) with initial text.
func NewLabel(x, y float64, text string) *Label {
	return &Label{X: x, Y: y, text: text}
}

// Set replaces the label text.
func (l *Label) Set(text string) {
	l.text = text
}

// Text returns the current label text.
func (l *Label) Text() string {
	return l.text
}

// Draw renders the label onto screen.
func (l *Label) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, l.text, int(l.X), int(l.Y))
}

// statsRowSpacing is the vertical distance between panel rows in pixels.
const statsRowSpacing = 18

// StatsPanel is the set of designated text display fields for one
// result. Each statistic has its own label; Apply mutates exactly these
// fields and nothing else.
type StatsPanel struct {
	Samples  *Label
	Inside   *Label
	Total    *Label
	Estimate *Label
	AbsError *Label
	StdError *Label
	Ratio    *Label
}

// NewStatsPanel lays out the panel as a column of rows anchored at (x, y).
func NewStatsPanel(x, y float64) *StatsPanel {
	row := func(i int) *Label {
		return NewLabel(x, y+float64(i)*statsRowSpacing, "")
	}
	return &StatsPanel{
		Samples:  row(0),
		Inside:   row(1),
		Total:    row(2),
		Estimate: row(3),
		AbsError: row(4),
		StdError: row(5),
		Ratio:    row(6),
	}
}

// Apply writes the formatted statistics into the display fields.
func (p *StatsPanel) Apply(st StatsText) {
	p.Samples.Set("Samples:    " + st.Samples)
	p.Inside.Set("Inside:     " + st.Inside)
	p.Total.Set("Total:      " + st.Total)
	p.Estimate.Set("Pi approx:  " + st.Estimate)
	p.AbsError.Set("Abs error:  " + st.AbsError)
	p.StdError.Set("Std error:  " + st.StdError)
	p.Ratio.Set("Ratio:      " + st.Ratio)
}

// Draw renders every field.
func (p *StatsPanel) Draw(screen *ebiten.Image) {
	for _, l := range p.labels() {
		l.Draw(screen)
	}
}

func (p *StatsPanel) labels() []*Label {
	return []*Label{p.Samples, p.Inside, p.Total, p.Estimate, p.AbsError, p.StdError, p.Ratio}
}

// fpsOverlay displays the current FPS and TPS, refreshed every ~0.5s.
type fpsOverlay struct {
	X, Y    float64
	elapsed float64
	text    string
}

func (f *fpsOverlay) update(dt float64) {
	f.elapsed += dt
	if f.text != "" && f.elapsed < 0.5 {
		return
	}
	f.elapsed = 0
	f.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}

func (f *fpsOverlay) draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, f.text, int(f.X), int(f.Y))
}
