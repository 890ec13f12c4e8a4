package piviz

import (
	"context"
	"math"
	"testing"
)

func TestNormQuantile(t *testing.T) {
	tests := []struct {
		p, want float64
	}{
		{0.5, 0},
		{0.975, 1.959964},
		{0.995, 2.575829},
		{0.841344746, 1.0},
	}
	for _, tt := range tests {
		if got := normQuantile(tt.p); math.Abs(got-tt.want) > 1e-5 {
			t.Errorf("normQuantile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	// Symmetry around the median.
	for _, p := range []float64{0.01, 0.2, 0.4} {
		if got := normQuantile(p) + normQuantile(1-p); math.Abs(got) > 1e-9 {
			t.Errorf("normQuantile(%v) not symmetric: sum = %v", p, got)
		}
	}

	if !math.IsInf(normQuantile(0), -1) || !math.IsInf(normQuantile(1), 1) {
		t.Error("quantile at the support edges should be infinite")
	}
}

func TestAnalyzeConvergence(t *testing.T) {
	sim := NewMonteCarloSimulation(SimConfig{Seed: 11})
	sizes := []int{100, 10_000, 1_000_000}

	res, err := AnalyzeConvergence(context.Background(), sim, sizes, 0.95)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(res.ZScore-1.959964) > 1e-5 {
		t.Errorf("z = %v, want ≈1.96 for 95%%", res.ZScore)
	}
	if len(res.Estimates) != len(sizes) {
		t.Fatalf("got %d estimates, want %d", len(res.Estimates), len(sizes))
	}

	// Intervals tighten as n grows.
	for i := 1; i < len(res.CIWidths); i++ {
		if res.CIWidths[i] >= res.CIWidths[i-1] {
			t.Errorf("ci width did not shrink: %v", res.CIWidths)
		}
	}

	// Bounds bracket the estimate symmetrically.
	for i := range sizes {
		margin := res.CIWidths[i] / 2
		if math.Abs(res.LowerBounds[i]-(res.Estimates[i]-margin)) > 1e-12 ||
			math.Abs(res.UpperBounds[i]-(res.Estimates[i]+margin)) > 1e-12 {
			t.Errorf("bounds inconsistent at n=%d", sizes[i])
		}
	}
}

func TestAnalyzeConvergenceErrors(t *testing.T) {
	sim := NewMonteCarloSimulation(SimConfig{})
	ctx := context.Background()

	if _, err := AnalyzeConvergence(ctx, sim, nil, 0.95); err == nil {
		t.Error("empty sizes should fail")
	}
	for _, conf := range []float64{0, 1, -0.5, 1.5} {
		if _, err := AnalyzeConvergence(ctx, sim, []int{100}, conf); err == nil {
			t.Errorf("confidence %v should fail", conf)
		}
	}
	if _, err := AnalyzeConvergence(ctx, sim, []int{0}, 0.95); err == nil {
		t.Error("non-positive sample size should fail")
	}
}
