package warviz

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Font is the interface for text measurement and layout.
type Font interface {
	MeasureString(text string) (width, height float64)
	LineHeight() float64
}

// TextBlock holds text content, formatting, and cached layout state.
type TextBlock struct {
	Content string
	Font    Font
	Color   Color

	// Cached layout (unexported)
	layoutDirty bool
	measuredW   float64
	measuredH   float64
}

// SetContent replaces the text and invalidates the cached measurement.
func (tb *TextBlock) SetContent(s string) {
	if tb.Content == s {
		return
	}
	tb.Content = s
	tb.layoutDirty = true
}

// Measure returns the laid-out width and height of the block.
func (tb *TextBlock) Measure() (w, h float64) {
	tb.layout()
	return tb.measuredW, tb.measuredH
}

// layout recomputes the measured dimensions if dirty.
func (tb *TextBlock) layout() {
	if !tb.layoutDirty {
		return
	}
	tb.layoutDirty = false

	if tb.Font == nil || tb.Content == "" {
		tb.measuredW = 0
		tb.measuredH = 0
		return
	}
	tb.measuredW, tb.measuredH = tb.Font.MeasureString(tb.Content)
}

// --- TTFFont ---

// TTFFont wraps Ebitengine's text/v2 for TrueType font rendering.
type TTFFont struct {
	face   *text.GoTextFace
	source *text.GoTextFaceSource
	size   float64
	lh     float64 // cached line height
}

// LoadTTFFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadTTFFont(ttfData []byte, size float64) (*TTFFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("warviz: failed to parse TTF data: %w", err)
	}
	return newTTFFont(source, size), nil
}

// DefaultFont returns the embedded Go Regular face at the given size.
func DefaultFont(size float64) (*TTFFont, error) {
	return LoadTTFFont(goregular.TTF, size)
}

func newTTFFont(source *text.GoTextFaceSource, size float64) *TTFFont {
	face := &text.GoTextFace{
		Source: source,
		Size:   size,
	}
	m := face.Metrics()
	return &TTFFont{
		face:   face,
		source: source,
		size:   size,
		lh:     m.HAscent + m.HDescent + m.HLineGap,
	}
}

// WithSize returns a face of the same family at another size. The parsed
// source is shared.
func (f *TTFFont) WithSize(size float64) *TTFFont {
	return newTTFFont(f.source, size)
}

// MeasureString returns the width and height of the rendered text.
func (f *TTFFont) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *TTFFont) LineHeight() float64 {
	return f.lh
}

// Face returns the underlying GoTextFace for direct Ebitengine text/v2 rendering.
func (f *TTFFont) Face() *text.GoTextFace {
	return f.face
}
