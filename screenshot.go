package piviz

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"time"
)

// Screenshot queues a labeled screenshot to be captured at the end of
// the current frame's Draw call. The resulting PNG is written to the
// configured screenshot directory with a timestamped filename. Safe to
// call from Update or Draw.
func (a *App) Screenshot(label string) {
	a.screenshotQueue = append(a.screenshotQueue, label)
}

// pixelSource is the part of *ebiten.Image the screenshot pipeline
// needs. Narrowed to an interface so the conversion is testable without
// a graphics context.
type pixelSource interface {
	Bounds() image.Rectangle
	ReadPixels(pixels []byte)
}

// flushScreenshots captures the rendered frame for every queued label
// and writes each as a PNG file. Called at the end of App.Draw.
func (a *App) flushScreenshots(screen pixelSource) {
	if len(a.screenshotQueue) == 0 {
		return
	}

	if err := os.MkdirAll(a.cfg.ScreenshotDir, 0o755); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[piviz] screenshot: mkdir %s: %v\n", a.cfg.ScreenshotDir, err)
		a.screenshotQueue = a.screenshotQueue[:0]
		return
	}

	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)

	// Convert premultiplied RGBA to straight-alpha NRGBA.
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, alpha := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if alpha > 0 && alpha < 255 {
			r = uint8(min(int(r)*255/int(alpha), 255))
			g = uint8(min(int(g)*255/int(alpha), 255))
			b = uint8(min(int(b)*255/int(alpha), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = alpha
	}

	stamp := time.Now().Format("20060102_150405")

	for _, label := range a.screenshotQueue {
		safe := sanitizeLabel(label)
		path := fmt.Sprintf("%s/%s_%s.png", a.cfg.ScreenshotDir, stamp, safe)
		if err := writePNG(path, img); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "[piviz] screenshot: %v\n", err)
		}
	}

	a.screenshotQueue = a.screenshotQueue[:0]
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
