package piviz

import (
	"context"
	"errors"
	"math"
	"testing"
)

func bootstrapped(t *testing.T, cfg SimConfig) *MonteCarloSimulation {
	t.Helper()
	sim := NewMonteCarloSimulation(cfg)
	if err := sim.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return sim
}

func TestRunBasicInvariants(t *testing.T) {
	sim := bootstrapped(t, SimConfig{Seed: 1, PlotSize: 64})

	const n = 1000
	res, err := sim.Run(context.Background(), n)
	if err != nil {
		t.Fatal(err)
	}

	if res.TotalPoints != n {
		t.Errorf("TotalPoints = %d, want %d", res.TotalPoints, n)
	}
	if res.PointsInside < 0 || res.PointsInside > n {
		t.Errorf("PointsInside = %d out of range [0, %d]", res.PointsInside, n)
	}

	wantEst := 4 * float64(res.PointsInside) / float64(n)
	if res.PiEstimate != wantEst {
		t.Errorf("PiEstimate = %v, want 4·inside/n = %v", res.PiEstimate, wantEst)
	}
	if got, want := res.AbsError, math.Abs(wantEst-math.Pi); got != want {
		t.Errorf("AbsError = %v, want %v", got, want)
	}
	if got, want := res.StdError, math.Sqrt(wantEst*(4-wantEst)/float64(n)); got != want {
		t.Errorf("StdError = %v, want %v", got, want)
	}

	if res.Image.Rows() != 64 || res.Image.Cols() != 64 {
		t.Errorf("image = %dx%d, want 64x64", res.Image.Cols(), res.Image.Rows())
	}
}

func TestRunDeterministicForSeed(t *testing.T) {
	a := bootstrapped(t, SimConfig{Seed: 7, Workers: 1, PlotSize: 32})
	b := bootstrapped(t, SimConfig{Seed: 7, Workers: 4, PlotSize: 32})

	resA, err := a.Run(context.Background(), 10_000)
	if err != nil {
		t.Fatal(err)
	}
	resB, err := b.Run(context.Background(), 10_000)
	if err != nil {
		t.Fatal(err)
	}

	// Same seed and n: identical inside counts regardless of worker
	// count is NOT guaranteed (workers own disjoint rng streams), but
	// the same configuration must reproduce exactly.
	resA2, err := a.Run(context.Background(), 10_000)
	if err != nil {
		t.Fatal(err)
	}
	if resA.PointsInside != resA2.PointsInside {
		t.Errorf("same config not reproducible: %d vs %d", resA.PointsInside, resA2.PointsInside)
	}

	// Both estimates should still be reasonable.
	for _, res := range []*SimulationResult{resA, resB} {
		if math.Abs(res.PiEstimate-math.Pi) > 0.2 {
			t.Errorf("estimate %v too far from π", res.PiEstimate)
		}
	}
}

func TestRunBeforeBootstrap(t *testing.T) {
	sim := NewMonteCarloSimulation(SimConfig{})
	_, err := sim.Run(context.Background(), 100)
	if !errors.Is(err, ErrNotBootstrapped) {
		t.Errorf("expected ErrNotBootstrapped, got %v", err)
	}
}

func TestRunRejectsNonPositiveCount(t *testing.T) {
	sim := bootstrapped(t, SimConfig{PlotSize: 16})
	for _, n := range []int{0, -1} {
		if _, err := sim.Run(context.Background(), n); err == nil {
			t.Errorf("Run(%d) should fail", n)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	sim := bootstrapped(t, SimConfig{PlotSize: 16})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sim.Run(ctx, 1000); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEstimatePiConverges(t *testing.T) {
	sim := NewMonteCarloSimulation(SimConfig{Seed: 3})
	est, err := sim.EstimatePi(context.Background(), 200_000)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(est-math.Pi) > 0.05 {
		t.Errorf("estimate %v too far from π for n=200000", est)
	}
}

func TestSampleRetentionCap(t *testing.T) {
	sim := bootstrapped(t, SimConfig{Workers: 1, PlotSize: 16})
	set, _, err := sim.sample(context.Background(), 100, 10)
	if err != nil {
		t.Fatal(err)
	}
	// Stride of 10 keeps global indices 0, 10, ..., 90.
	if len(set.XS) != 10 {
		t.Errorf("retained %d points, want 10", len(set.XS))
	}
	if len(set.XS) != len(set.YS) || len(set.XS) != len(set.Inside) {
		t.Error("parallel slices out of sync")
	}
}

func TestSamplePointsWithinSquare(t *testing.T) {
	sim := bootstrapped(t, SimConfig{Workers: 2, Radius: 2, PlotSize: 16})
	set, inside, err := sim.sample(context.Background(), 5000, 5000)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for i := range set.XS {
		x, y := set.XS[i], set.YS[i]
		if x < -2 || x > 2 || y < -2 || y > 2 {
			t.Fatalf("point (%v, %v) outside the sampling square", x, y)
		}
		wantIn := x*x+y*y <= 4
		if set.Inside[i] != wantIn {
			t.Fatalf("point (%v, %v) inside flag = %v, want %v", x, y, set.Inside[i], wantIn)
		}
		if set.Inside[i] {
			count++
		}
	}
	// All points retained, so the recorded flags must sum to the total.
	if count != inside {
		t.Errorf("inside flags sum to %d, count is %d", count, inside)
	}
}

func TestBootstrapIdempotent(t *testing.T) {
	sim := bootstrapped(t, SimConfig{PlotSize: 16})
	if err := sim.Bootstrap(context.Background()); err != nil {
		t.Errorf("second bootstrap: %v", err)
	}
}
