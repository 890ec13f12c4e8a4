package piviz

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// AppConfig configures the interactive window. Zero values select
// defaults.
type AppConfig struct {
	Title         string
	Width, Height int // zero → 960×720

	// Sample count range of the slider. Zeros → [1, 10000000].
	MinSamples, MaxSamples int

	// InitialSamples is the slider's starting value and the first
	// computation triggered after bootstrap. Zero → 1000.
	InitialSamples int

	// DebounceDelay overrides the controller's debounce window.
	DebounceDelay time.Duration

	ShowFPS bool

	// ScreenshotDir is where labeled screenshots are written.
	// Zero → "screenshots".
	ScreenshotDir string
}

// appState tracks the bootstrap lifecycle.
type appState uint8

const (
	stateLoading appState = iota // waiting for Simulator.Bootstrap
	stateReady                   // accepting input
	stateFailed                  // bootstrap failed; terminal
)

const (
	defaultMaxSamples     = 10_000_000
	defaultInitialSamples = 1000
	uiMargin              = 20.0
	sliderHeight          = 24.0
)

var appClearColor = Color{0.09, 0.09, 0.12, 1}

// App is the interactive visualizer: an ebiten.Game wiring the slider
// through the RefreshController to the FrameRenderer and stats panel.
// No input is accepted, and no computation is attempted, before the
// simulator signals readiness; a bootstrap failure is terminal and
// user-visible.
type App struct {
	cfg AppConfig
	sim Simulator

	controller *RefreshController
	renderer   *FrameRenderer
	slider     *Slider
	panel      *StatsPanel
	sliderCap  *Label

	state    appState
	bootErr  error
	bootDone chan error

	fade       *gween.Tween
	frameAlpha float64

	fps    fpsOverlay
	script *ScriptRunner

	screenshotQueue []string
}

// NewApp builds the UI, starts the simulator bootstrap in the
// background, and returns an App ready for ebiten.RunGame (or App.Run).
func NewApp(sim Simulator, cfg AppConfig) *App {
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.MinSamples < 1 {
		cfg.MinSamples = 1
	}
	if cfg.MaxSamples <= 0 {
		cfg.MaxSamples = defaultMaxSamples
	}
	if cfg.InitialSamples <= 0 {
		cfg.InitialSamples = defaultInitialSamples
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}

	a := &App{
		cfg:      cfg,
		sim:      sim,
		renderer: NewFrameRenderer(),
		bootDone: make(chan error, 1),
	}

	// UI setup completes here, before any computation can finish, so
	// the result callback never races a missing render target.
	w, h := float64(cfg.Width), float64(cfg.Height)
	sliderRect := Rect{uiMargin, h - uiMargin - sliderHeight, w - 2*uiMargin, sliderHeight}
	a.slider = NewSlider(sliderRect, cfg.MinSamples, cfg.MaxSamples, cfg.InitialSamples)
	a.sliderCap = NewLabel(uiMargin, sliderRect.Y-statsRowSpacing, "")
	a.panel = NewStatsPanel(w-300, uiMargin)
	a.fps = fpsOverlay{X: uiMargin, Y: uiMargin}

	a.controller = NewRefreshController(sim, ControllerConfig{
		DebounceDelay: cfg.DebounceDelay,
		OnResult:      a.presentResult,
	})
	a.slider.OnChange = func(n int) {
		a.sliderCap.Set("Sample count: " + GroupInt(n))
		a.controller.OnInputChanged(n)
	}
	a.sliderCap.Set("Sample count: " + GroupInt(a.slider.Value()))

	go func() {
		a.bootDone <- sim.Bootstrap(context.Background())
	}()

	return a
}

// presentResult is the controller's result callback. Runs on the
// event-loop thread.
func (a *App) presentResult(res *SimulationResult) {
	a.renderer.Blit(res.Image)
	a.panel.Apply(FormatStats(res))
	a.fade = gween.New(0.35, 1, 0.25, ease.OutQuad)
}

// SetScript attaches a scripted input runner, stepped once per frame
// once the app is ready. See LoadScript.
func (a *App) SetScript(runner *ScriptRunner) {
	a.script = runner
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	switch a.state {
	case stateLoading:
		select {
		case err := <-a.bootDone:
			if err != nil {
				a.bootErr = err
				a.state = stateFailed
				return nil
			}
			a.state = stateReady
			// First frame: render the initial sample count.
			a.controller.OnInputChanged(a.slider.Value())
		default:
		}
		return nil

	case stateFailed:
		return nil
	}

	a.slider.Update(dt)
	if a.script != nil {
		a.script.step(a)
		if a.script.Done() && len(a.screenshotQueue) == 0 {
			return ebiten.Termination
		}
	}
	a.controller.Tick(time.Duration(dt * float64(time.Second)))

	if a.fade != nil {
		v, done := a.fade.Update(float32(dt))
		a.frameAlpha = float64(v)
		if done {
			a.fade = nil
		}
	}
	if a.cfg.ShowFPS {
		a.fps.update(dt)
	}
	return nil
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(appClearColor.toRGBA())

	switch a.state {
	case stateLoading:
		ebitenutil.DebugPrintAt(screen, "Bootstrapping simulation runtime...", int(uiMargin), int(uiMargin))
	case stateFailed:
		msg := fmt.Sprintf("Failed to load simulation runtime:\n%v", a.bootErr)
		ebitenutil.DebugPrintAt(screen, msg, int(uiMargin), int(uiMargin))
	case stateReady:
		if surface := a.renderer.Surface(); surface != nil {
			var op ebiten.DrawImageOptions
			op.GeoM.Translate(uiMargin, uiMargin)
			op.ColorScale.ScaleAlpha(float32(a.frameAlpha))
			screen.DrawImage(surface, &op)
		}
		a.panel.Draw(screen)
		a.sliderCap.Draw(screen)
		a.slider.Draw(screen)
		if a.cfg.ShowFPS {
			a.fps.draw(screen)
		}
	}

	a.flushScreenshots(screen)
}

// Layout implements ebiten.Game.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.Width, a.cfg.Height
}

// Run opens the window and runs the game loop until the window closes.
func (a *App) Run() error {
	ebiten.SetWindowSize(a.cfg.Width, a.cfg.Height)
	ebiten.SetWindowTitle(a.cfg.Title)
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("run app: %w", err)
	}
	return nil
}
