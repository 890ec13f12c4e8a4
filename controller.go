package piviz

import (
	"context"
	"log"
	"time"
)

// DefaultDebounceDelay is the quiet period after the last input event
// before a computation is dispatched.
const DefaultDebounceDelay = 120 * time.Millisecond

// ControllerConfig configures a RefreshController.
type ControllerConfig struct {
	// DebounceDelay is the debounce window. Zero defaults to
	// DefaultDebounceDelay.
	DebounceDelay time.Duration

	// OnResult receives each completed SimulationResult, always on the
	// thread that calls Tick. Required.
	OnResult func(*SimulationResult)

	// OnError receives computation failures, on the thread that calls
	// Tick. Optional; the default logs and moves on.
	OnError func(error)
}

// timerState is the debounce timer: Idle or Scheduled.
type timerState uint8

const (
	timerIdle timerState = iota
	timerScheduled
)

// runOutcome carries one computation's result (or error) back to the
// event-loop thread.
type runOutcome struct {
	result *SimulationResult
	err    error
}

// RefreshController turns a rapid stream of input-change events into at
// most one in-flight request to a Simulator.
//
// Two rules govern dispatch:
//
//   - Debounce: each input event cancels and replaces the pending
//     timer (last write wins). The computation runs only after input
//     has been quiet for the debounce window.
//   - Single-flight: if the timer fires while a computation is still
//     in flight, the fire is dropped outright. The value is not queued
//     for a retroactive run; a further input event after completion is
//     required to trigger a fresh computation.
//
// The controller is single-threaded and cooperatively scheduled: every
// method must be called from the same event-loop thread (Ebitengine's
// Update, or a session loop goroutine). Only the simulator call itself
// runs on a worker goroutine; its outcome is handed back through a
// single-slot channel drained by Tick, so results always reach OnResult
// on the loop thread, in completion order.
type RefreshController struct {
	sim      Simulator
	delay    time.Duration
	onResult func(*SimulationResult)
	onError  func(error)

	timer     timerState
	remaining time.Duration
	pendingN  int

	busy bool
	done chan runOutcome
}

// NewRefreshController creates a controller dispatching to sim.
// cfg.OnResult must be set before the first result completes.
func NewRefreshController(sim Simulator, cfg ControllerConfig) *RefreshController {
	delay := cfg.DebounceDelay
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	onError := cfg.OnError
	if onError == nil {
		onError = func(err error) {
			log.Printf("piviz: computation failed: %v", err)
		}
	}
	return &RefreshController{
		sim:      sim,
		delay:    delay,
		onResult: cfg.OnResult,
		onError:  onError,
		// Buffered so the worker goroutine can always finish, even if
		// the host stops ticking.
		done: make(chan runOutcome, 1),
	}
}

// OnInputChanged records the latest requested sample count and
// (re)starts the debounce timer. Values below 1 are ignored. No upper
// bound is enforced here; that is the input surface's concern.
func (c *RefreshController) OnInputChanged(n int) {
	if n < 1 {
		return
	}
	c.pendingN = n
	c.timer = timerScheduled
	c.remaining = c.delay
}

// Tick advances the controller by dt of event-loop time: drains a
// finished computation, then fires the debounce timer if it has
// elapsed. Call once per host frame, from the event-loop thread.
func (c *RefreshController) Tick(dt time.Duration) {
	// Drain before firing so a completion and an expiry in the same
	// tick see busy == false and dispatch rather than drop.
	select {
	case out := <-c.done:
		c.busy = false
		if out.err != nil {
			c.onError(out.err)
		} else {
			c.onResult(out.result)
		}
	default:
	}

	if c.timer != timerScheduled {
		return
	}
	c.remaining -= dt
	if c.remaining > 0 {
		return
	}
	c.timer = timerIdle
	if c.busy {
		// Skip while busy: the pending value is dropped, not queued.
		return
	}
	c.runComputation(c.pendingN)
}

// Busy reports whether a computation is currently in flight.
func (c *RefreshController) Busy() bool {
	return c.busy
}

// Scheduled reports whether a debounce timer is pending.
func (c *RefreshController) Scheduled() bool {
	return c.timer == timerScheduled
}

// Idle reports whether the controller has neither a pending timer nor
// an in-flight computation (after draining). Useful for scripted runs.
func (c *RefreshController) Idle() bool {
	return c.timer == timerIdle && !c.busy
}

// runComputation dispatches one simulation run on a worker goroutine.
// An in-flight run is not cancelable; it always completes or fails.
func (c *RefreshController) runComputation(n int) {
	c.busy = true
	go func() {
		res, err := c.sim.Run(context.Background(), n)
		c.done <- runOutcome{result: res, err: err}
	}()
}
