package piviz

import (
	"math"
	"strings"
	"testing"
)

func TestSliderLogScale(t *testing.T) {
	s := NewSlider(Rect{0, 0, 600, 24}, 1, 10_000_000, 1000)

	if got := s.valueAt(0); got != 1 {
		t.Errorf("valueAt(0) = %d, want 1", got)
	}
	if got := s.valueAt(1); got != 10_000_000 {
		t.Errorf("valueAt(1) = %d, want 10000000", got)
	}
	// Log scale: the midpoint of [1, 10^7] is 10^3.5 ≈ 3162.
	if got := s.valueAt(0.5); got < 3100 || got > 3250 {
		t.Errorf("valueAt(0.5) = %d, want ≈3162", got)
	}
}

func TestSliderPosOfInvertsValueAt(t *testing.T) {
	s := NewSlider(Rect{0, 0, 600, 24}, 1, 10_000_000, 1)
	for _, pos := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1} {
		n := s.valueAt(pos)
		back := s.posOf(n)
		if math.Abs(back-pos) > 0.01 {
			t.Errorf("posOf(valueAt(%v)) = %v, drift too large", pos, back)
		}
	}
}

func TestSliderSetValueClamps(t *testing.T) {
	s := NewSlider(Rect{0, 0, 600, 24}, 10, 1000, 100)

	s.SetValue(5)
	if s.Value() != 10 {
		t.Errorf("value below min: %d, want 10", s.Value())
	}
	s.SetValue(99999)
	if s.Value() != 1000 {
		t.Errorf("value above max: %d, want 1000", s.Value())
	}
	s.SetValue(500)
	if s.Value() != 500 {
		t.Errorf("value = %d, want 500", s.Value())
	}
}

func TestNewSliderDegenerateRange(t *testing.T) {
	s := NewSlider(Rect{0, 0, 100, 24}, 0, -5, 3)
	if s.Min != 1 || s.Max != 1 {
		t.Errorf("degenerate range = [%d, %d], want [1, 1]", s.Min, s.Max)
	}
	if s.Value() != 1 {
		t.Errorf("value = %d, want 1", s.Value())
	}
	if got := s.valueAt(0.5); got != 1 {
		t.Errorf("valueAt on flat range = %d, want 1", got)
	}
}

func TestLabel(t *testing.T) {
	l := NewLabel(10, 20, "hello")
	if l.Text() != "hello" {
		t.Errorf("text = %q", l.Text())
	}
	l.Set("world")
	if l.Text() != "world" {
		t.Errorf("text after Set = %q", l.Text())
	}
}

func TestStatsPanelApply(t *testing.T) {
	p := NewStatsPanel(0, 0)
	p.Apply(StatsText{
		Samples:  "1,000",
		Inside:   "785",
		Total:    "1,000",
		Estimate: "3.1400",
		AbsError: "0.0016",
		StdError: "0.0520",
		Ratio:    "0.7850",
	})

	checks := []struct {
		label *Label
		want  string
	}{
		{p.Samples, "1,000"},
		{p.Inside, "785"},
		{p.Estimate, "3.1400"},
		{p.Ratio, "0.7850"},
	}
	for _, c := range checks {
		if !strings.Contains(c.label.Text(), c.want) {
			t.Errorf("label %q does not contain %q", c.label.Text(), c.want)
		}
	}

	// Rows are laid out top to bottom.
	if p.Samples.Y >= p.Ratio.Y {
		t.Error("panel rows not stacked downward")
	}
}
