package piviz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"
)

// Simulator is the computation collaborator behind the refresh pipeline:
// a one-time Bootstrap followed by any number of Run calls. Implementations
// substitute their own sampling/statistics engine; the pipeline has no
// coupling to this package's Monte Carlo implementation.
type Simulator interface {
	// Bootstrap performs one-time environment setup. It must complete
	// (and return nil) before the first Run call.
	Bootstrap(ctx context.Context) error

	// Run executes one simulation with n sample points (n >= 1) and
	// returns the result. Called from a single worker goroutine at a
	// time once bootstrapped.
	Run(ctx context.Context, n int) (*SimulationResult, error)
}

// ErrNotBootstrapped is returned by Run when Bootstrap has not completed.
var ErrNotBootstrapped = errors.New("simulation not bootstrapped")

// SimConfig configures a MonteCarloSimulation. Zero values select defaults.
type SimConfig struct {
	// Seed is the base random seed. Runs are deterministic for a given
	// (Seed, n) pair regardless of worker count.
	Seed uint64

	// Radius of the circle. Points are sampled in [-Radius, Radius]².
	// Zero defaults to 1.
	Radius float64

	// Workers is the number of sampling goroutines. Zero defaults to
	// runtime.NumCPU().
	Workers int

	// PlotSize is the side length of the square plot in pixels.
	// Zero defaults to 600.
	PlotSize int

	// PlotRetain caps the number of sampled points retained for the
	// scatter plot. Sampling beyond the cap still counts toward the
	// estimate; only plotting is thinned. Zero defaults to 100000.
	PlotRetain int
}

const (
	defaultPlotSize   = 600
	defaultPlotRetain = 100_000

	// cancelCheckStride is how many points a worker samples between
	// context cancellation checks.
	cancelCheckStride = 1 << 16
)

// MonteCarloSimulation estimates π by sampling uniform random points in
// [-r, r]² and counting those inside the inscribed circle:
//
//	π ≈ 4 · inside / total
//
// It implements Simulator. Bootstrap must complete before Run.
type MonteCarloSimulation struct {
	cfg     SimConfig
	plotter *Plotter
	ready   bool
}

// NewMonteCarloSimulation creates a simulation with the given config.
// Zero-value fields are filled with defaults.
func NewMonteCarloSimulation(cfg SimConfig) *MonteCarloSimulation {
	if cfg.Radius == 0 {
		cfg.Radius = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.PlotSize <= 0 {
		cfg.PlotSize = defaultPlotSize
	}
	if cfg.PlotRetain <= 0 {
		cfg.PlotRetain = defaultPlotRetain
	}
	return &MonteCarloSimulation{cfg: cfg}
}

// Bootstrap validates the configuration and constructs the plotter.
// Idempotent; subsequent calls are no-ops.
func (s *MonteCarloSimulation) Bootstrap(ctx context.Context) error {
	if s.ready {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	if s.cfg.Radius < 0 {
		return fmt.Errorf("bootstrap: radius must be positive, got %v", s.cfg.Radius)
	}
	s.plotter = NewPlotter(s.cfg.PlotSize, s.cfg.Radius)
	s.ready = true
	return nil
}

// Run samples n points, renders the scatter plot, and returns the full
// result. The error metrics follow the usual estimator formulas:
// absError = |est − π| and stdError = √(est·(4−est)/n).
func (s *MonteCarloSimulation) Run(ctx context.Context, n int) (*SimulationResult, error) {
	if !s.ready {
		return nil, ErrNotBootstrapped
	}
	set, inside, err := s.sample(ctx, n, s.cfg.PlotRetain)
	if err != nil {
		return nil, err
	}
	est := 4 * float64(inside) / float64(n)
	return &SimulationResult{
		Image:        s.plotter.Render(set),
		PointsInside: inside,
		TotalPoints:  n,
		PiEstimate:   est,
		AbsError:     math.Abs(est - math.Pi),
		StdError:     math.Sqrt(est * (4 - est) / float64(n)),
	}, nil
}

// EstimatePi runs a stats-only simulation (no point retention, no plot)
// and returns the π estimate. Does not require Bootstrap.
func (s *MonteCarloSimulation) EstimatePi(ctx context.Context, n int) (float64, error) {
	_, inside, err := s.sample(ctx, n, 0)
	if err != nil {
		return 0, err
	}
	return 4 * float64(inside) / float64(n), nil
}

// Samples holds the points retained for plotting. Parallel slices:
// (XS[i], YS[i]) is a point, Inside[i] reports whether it landed inside
// the circle.
type Samples struct {
	XS, YS []float64
	Inside []bool
	Radius float64
}

// sample fans n points out across the configured workers. Each worker
// owns a disjoint index range and a rng seeded from (Seed, n, worker),
// so the result is deterministic and independent of scheduling. At most
// retain points are kept for plotting, thinned by a uniform stride.
func (s *MonteCarloSimulation) sample(ctx context.Context, n, retain int) (Samples, int, error) {
	if n < 1 {
		return Samples{}, 0, fmt.Errorf("sample count must be >= 1, got %d", n)
	}

	workers := s.cfg.Workers
	if workers > n {
		workers = n
	}

	// Keep every stride-th point (by global index) for the plot.
	stride := 0
	if retain > 0 {
		stride = (n + retain - 1) / retain
	}

	type chunk struct {
		inside int
		xs, ys []float64
		in     []bool
	}
	chunks := make([]chunk, workers)

	per := n / workers
	rem := n % workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		count := per
		if w == workers-1 {
			count += rem
		}
		offset := w * per

		wg.Add(1)
		go func(w, offset, count int) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(s.cfg.Seed^uint64(n), uint64(w)))
			r := s.cfg.Radius
			c := &chunks[w]
			for i := 0; i < count; i++ {
				if i%cancelCheckStride == 0 && ctx.Err() != nil {
					return
				}
				x := (rng.Float64()*2 - 1) * r
				y := (rng.Float64()*2 - 1) * r
				in := x*x+y*y <= r*r
				if in {
					c.inside++
				}
				if stride > 0 && (offset+i)%stride == 0 {
					c.xs = append(c.xs, x)
					c.ys = append(c.ys, y)
					c.in = append(c.in, in)
				}
			}
		}(w, offset, count)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Samples{}, 0, fmt.Errorf("sample: %w", err)
	}

	set := Samples{Radius: s.cfg.Radius}
	total := 0
	for i := range chunks {
		total += chunks[i].inside
		set.XS = append(set.XS, chunks[i].xs...)
		set.YS = append(set.YS, chunks[i].ys...)
		set.Inside = append(set.Inside, chunks[i].in...)
	}
	return set, total, nil
}
