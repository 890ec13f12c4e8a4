package piviz

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// StreamConfig configures a FrameStream. Zero values select defaults.
type StreamConfig struct {
	// Addr is the listen address for Run. Zero → ":8080".
	Addr string

	// DebounceDelay overrides the per-session controller's debounce
	// window.
	DebounceDelay time.Duration

	// TickInterval is the session loop's controller tick period.
	// Zero → 16ms.
	TickInterval time.Duration

	// InitialSamples is computed and pushed as soon as a session
	// connects. Zero → 1000.
	InitialSamples int
}

// inputMessage is what the browser sends on slider changes.
type inputMessage struct {
	N int `json:"n"`
}

// statsMessage precedes each binary PNG frame on the socket.
type statsMessage struct {
	Type   string    `json:"type"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Stats  StatsText `json:"stats"`
}

// FrameStream serves the visualization to a browser: an embedded page
// with a range input and a canvas, connected over a WebSocket. Slider
// messages feed a per-session RefreshController, and each result is
// pushed back as a stats message followed by a PNG frame.
//
// Every session gets its own controller, ticked from a single loop
// goroutine, so the controller's single-threaded contract holds: the
// socket reader only forwards values through a channel and never
// touches the controller directly.
type FrameStream struct {
	sim      Simulator
	cfg      StreamConfig
	upgrader websocket.Upgrader
}

// NewFrameStream creates a stream over the given simulator. The
// simulator must be bootstrapped before sessions connect; Run does this
// for you.
func NewFrameStream(sim Simulator, cfg StreamConfig) *FrameStream {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 16 * time.Millisecond
	}
	if cfg.InitialSamples <= 0 {
		cfg.InitialSamples = defaultInitialSamples
	}
	return &FrameStream{sim: sim, cfg: cfg}
}

// Handler returns the HTTP handler: "/" serves the embedded page and
// "/ws" upgrades to the frame socket.
func (fs *FrameStream) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", fs.serveIndex)
	mux.HandleFunc("/ws", fs.serveWS)
	return mux
}

// Run bootstraps the simulator and serves until ctx is cancelled.
func (fs *FrameStream) Run(ctx context.Context) error {
	if err := fs.sim.Bootstrap(ctx); err != nil {
		return fmt.Errorf("frame stream: %w", err)
	}

	srv := &http.Server{Addr: fs.cfg.Addr, Handler: fs.Handler()}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errc:
		return fmt.Errorf("frame stream: %w", err)
	}
}

func (fs *FrameStream) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

func (fs *FrameStream) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := fs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("piviz: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	// Reader goroutine: forwards slider values, never touches the
	// controller. A full channel drops the oldest pending value; the
	// debounce makes intermediate values disposable anyway.
	inputs := make(chan int, 16)
	go func() {
		defer close(inputs)
		for {
			var msg inputMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.N < 1 {
				continue
			}
			select {
			case inputs <- msg.N:
			default:
				// Full: drop the oldest pending value. Intermediate
				// slider positions are disposable under debouncing.
				select {
				case <-inputs:
				default:
				}
				select {
				case inputs <- msg.N:
				default:
				}
			}
		}
	}()

	// Session loop: the controller's event-loop thread.
	ctrl := NewRefreshController(fs.sim, ControllerConfig{
		DebounceDelay: fs.cfg.DebounceDelay,
		OnResult: func(res *SimulationResult) {
			if err := fs.push(conn, res); err != nil {
				log.Printf("piviz: push frame: %v", err)
			}
		},
	})
	ctrl.OnInputChanged(fs.cfg.InitialSamples)

	ticker := time.NewTicker(fs.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case n, ok := <-inputs:
			if !ok {
				return
			}
			ctrl.OnInputChanged(n)
		case <-ticker.C:
			ctrl.Tick(fs.cfg.TickInterval)
		}
	}
}

// push sends a stats message followed by the PNG-encoded frame. Called
// only from the session loop, so socket writes are never concurrent.
func (fs *FrameStream) push(conn *websocket.Conn, res *SimulationResult) error {
	frame, w, h, err := EncodeFramePNG(res.Image)
	if err != nil {
		return err
	}
	msg := statsMessage{Type: "stats", Width: w, Height: h, Stats: FormatStats(res)}
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	if frame == nil {
		return nil
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// EncodeFramePNG encodes a pixel buffer as a PNG image. An empty buffer
// yields a nil slice and zero dimensions.
func EncodeFramePNG(buf PixelBuffer) (data []byte, w, h int, err error) {
	pix, w, h := ExpandRGBA(buf)
	if w == 0 || h == 0 {
		return nil, 0, 0, nil
	}
	img := &image.NRGBA{Pix: pix, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, 0, 0, fmt.Errorf("encode frame: %w", err)
	}
	return out.Bytes(), w, h, nil
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Monte Carlo π</title>
<style>
body { font-family: monospace; background: #17171f; color: #eee; margin: 2em; }
canvas { border: 1px solid #444; image-rendering: pixelated; }
#stats { margin-top: 1em; white-space: pre; }
input[type=range] { width: 600px; }
</style>
</head>
<body>
<h2>Monte Carlo π estimation</h2>
<canvas id="plot" width="600" height="600"></canvas>
<div>
  <input type="range" id="samples" min="0" max="1000" value="429">
  <span id="count"></span>
</div>
<div id="stats"></div>
<script>
const MIN = 1, MAX = 10000000;
const slider = document.getElementById("samples");
const canvas = document.getElementById("plot");
const ctx = canvas.getContext("2d");
const count = document.getElementById("count");
const stats = document.getElementById("stats");

function sliderValue() {
  const t = slider.value / 1000;
  return Math.max(MIN, Math.min(MAX, Math.round(MIN * Math.pow(MAX / MIN, t))));
}

const ws = new WebSocket("ws://" + location.host + "/ws");
ws.binaryType = "blob";

let pending = null;
ws.onmessage = async (ev) => {
  if (typeof ev.data === "string") {
    pending = JSON.parse(ev.data);
    return;
  }
  const bmp = await createImageBitmap(ev.data);
  if (pending) {
    canvas.width = pending.width;
    canvas.height = pending.height;
  }
  ctx.drawImage(bmp, 0, 0);
  if (pending) {
    const s = pending.stats;
    stats.textContent =
      "Samples:   " + s.samples + "\n" +
      "Inside:    " + s.inside + "\n" +
      "Pi approx: " + s.estimate + "\n" +
      "Abs error: " + s.absError + "\n" +
      "Std error: " + s.stdError + "\n" +
      "Ratio:     " + s.ratio;
    pending = null;
  }
};

slider.oninput = () => {
  const n = sliderValue();
  count.textContent = n.toLocaleString();
  if (ws.readyState === WebSocket.OPEN) {
    ws.send(JSON.stringify({ n: n }));
  }
};
count.textContent = sliderValue().toLocaleString();
</script>
</body>
</html>
`
