package warviz

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Screenshot queues a labeled capture of the next drawn frame. The PNG is
// written to the scene's screenshot directory with a timestamped filename.
func (s *Scene) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// SetScreenshotDir sets where Screenshot writes. The default is
// "screenshots".
func (s *Scene) SetScreenshotDir(dir string) {
	s.screenshotDir = dir
}

// PendingScreenshots returns the number of captures waiting for a Draw.
func (s *Scene) PendingScreenshots() int {
	return len(s.screenshotQueue)
}

// flushScreenshots captures the rendered frame for every queued label.
// Called at the end of Scene.Draw. Failures are logged, never returned.
func (s *Scene) flushScreenshots(screen *ebiten.Image) {
	if len(s.screenshotQueue) == 0 {
		return
	}
	defer func() { s.screenshotQueue = s.screenshotQueue[:0] }()

	dir := s.screenshotDir
	if dir == "" {
		dir = "screenshots"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Warn("screenshot: mkdir", zap.String("dir", dir), zap.Error(err))
		return
	}

	bounds := screen.Bounds()
	pixels := make([]byte, 4*bounds.Dx()*bounds.Dy())
	screen.ReadPixels(pixels)
	img := unpremultiply(pixels, bounds.Dx(), bounds.Dy())

	stamp := time.Now().Format("20060102_150405")
	for _, label := range s.screenshotQueue {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			s.logger.Warn("screenshot", zap.Error(err))
			continue
		}
		s.logger.Info("screenshot", zap.String("path", path))
	}
}

// unpremultiply converts premultiplied RGBA pixels to straight-alpha NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
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
