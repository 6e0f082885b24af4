package warviz

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"detail", "detail"},
		{"after hold", "after_hold"},
		{"  ", "unlabeled"},
		{"a/b\\c", "a_b_c"},
		{"v1.2-final", "v1.2-final"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeLabel(tt.in), "sanitizeLabel(%q)", tt.in)
	}
}

func TestUnpremultiply(t *testing.T) {
	img := unpremultiply([]byte{
		100, 50, 0, 200,
		10, 20, 30, 255,
		0, 0, 0, 0,
	}, 3, 1)

	assert.Equal(t, color.NRGBA{127, 63, 0, 200}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, img.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{0, 0, 0, 0}, img.NRGBAAt(2, 0))
}

func TestScreenshotQueue(t *testing.T) {
	s := newTestScene()
	s.Screenshot("one")
	s.Screenshot("two")
	assert.Equal(t, 2, s.PendingScreenshots())
}
