package piviz

import (
	"context"
	"fmt"
	"math"
)

// ConvergenceResult reports how the π estimate tightens as the sample
// size grows. Slices are parallel with SampleSizes.
type ConvergenceResult struct {
	SampleSizes []int
	Estimates   []float64
	CIWidths    []float64
	LowerBounds []float64
	UpperBounds []float64
	ZScore      float64
}

// AnalyzeConvergence runs one stats-only estimate per sample size and
// pairs it with the theoretical confidence interval for that size,
// using se = √(π·(4−π)/n) and the normal quantile for the requested
// confidence level (e.g. 0.95).
func AnalyzeConvergence(ctx context.Context, sim *MonteCarloSimulation, sizes []int, confidence float64) (*ConvergenceResult, error) {
	if len(sizes) == 0 {
		return nil, fmt.Errorf("analyze convergence: no sample sizes")
	}
	if confidence <= 0 || confidence >= 1 {
		return nil, fmt.Errorf("analyze convergence: confidence must be in (0, 1), got %v", confidence)
	}

	z := normQuantile(1 - (1-confidence)/2)

	res := &ConvergenceResult{
		SampleSizes: sizes,
		Estimates:   make([]float64, 0, len(sizes)),
		CIWidths:    make([]float64, 0, len(sizes)),
		LowerBounds: make([]float64, 0, len(sizes)),
		UpperBounds: make([]float64, 0, len(sizes)),
		ZScore:      z,
	}

	for _, n := range sizes {
		est, err := sim.EstimatePi(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("analyze convergence: n=%d: %w", n, err)
		}
		se := math.Sqrt(math.Pi * (4 - math.Pi) / float64(n))
		margin := z * se
		res.Estimates = append(res.Estimates, est)
		res.CIWidths = append(res.CIWidths, 2*margin)
		res.LowerBounds = append(res.LowerBounds, est-margin)
		res.UpperBounds = append(res.UpperBounds, est+margin)
	}
	return res, nil
}

// normQuantile is the inverse CDF of the standard normal distribution,
// computed with Acklam's rational approximation (relative error below
// 1.15e-9 over the full range).
func normQuantile(p float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	if p >= 1 {
		return math.Inf(1)
	}

	a := [6]float64{
		-3.969683028665376e+01, 2.209460984245205e+02,
		-2.759285104469687e+02, 1.383577518672690e+02,
		-3.066479806614716e+01, 2.506628277459239e+00,
	}
	b := [5]float64{
		-5.447609879822406e+01, 1.615858368580409e+02,
		-1.556989798598866e+02, 6.680131188771972e+01,
		-1.328068155288572e+01,
	}
	c := [6]float64{
		-7.784894002430293e-03, -3.223964580411365e-01,
		-2.400758277161838e+00, -2.549732539343734e+00,
		4.374664141464968e+00, 2.938163982698783e+00,
	}
	d := [4]float64{
		7.784695709041462e-03, 3.224671290700398e-01,
		2.445134137142996e+00, 3.754408661907416e+00,
	}

	const pLow = 0.02425
	const pHigh = 1 - pLow

	switch {
	case p < pLow:
		q := math.Sqrt(-2 * math.Log(p))
		return (((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	case p <= pHigh:
		q := p - 0.5
		r := q * q
		return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
			(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
	default:
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	}
}
