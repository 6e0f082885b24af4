package warviz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTooltipSetLines(t *testing.T) {
	tip := NewTooltip(fixedFont{}, 3, ColorWhite, Color{0, 0, 0, 1})
	tip.SetLines("Poland", "Total casualties: 6,000,000")

	assert.Equal(t, []string{"Poland", "Total casualties: 6,000,000", ""}, tip.Lines())
	// Widest line is 27 runes; two used lines of 16px; 6px padding.
	assert.Equal(t, Size{Width: 27*8 + 12, Height: 2*16 + 12}, tip.Size())
	assert.False(t, tip.Shown(), "tooltips start hidden")
	assert.False(t, tip.Node().Interactable)
}

func TestTooltipMoveToClamps(t *testing.T) {
	tip := NewTooltip(fixedFont{}, 3, ColorWhite, ColorWhite)
	tip.SetLines("abcdefghij") // 80+12 wide, 16+12 tall
	vp := Size{Width: 400, Height: 300}
	off := Vec2{X: 10, Y: -28}

	tests := []struct {
		name string
		x, y float64
		want Vec2
	}{
		{"free", 100, 100, Vec2{110, 72}},
		{"right edge", 390, 100, Vec2{400 - 92 - 10, 72}},
		{"bottom edge", 100, 299, Vec2{110, 300 - 28 - 10}},
		{"top edge", 100, 5, Vec2{110, 0}},
		{"left edge", -50, 100, Vec2{0, 72}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tip.MoveTo(tt.x, tt.y, off, vp)
			assert.Equal(t, tt.want, tip.Position())
		})
	}
}

func TestTooltipTinyViewport(t *testing.T) {
	tip := NewTooltip(fixedFont{}, 1, ColorWhite, ColorWhite)
	tip.SetLines("a very long line that does not fit")
	tip.MoveTo(5, 5, Vec2{}, Size{Width: 50, Height: 20})
	assert.Equal(t, Vec2{}, tip.Position(), "never negative")
}

func TestTooltipShowHideDispose(t *testing.T) {
	tip := NewTooltip(fixedFont{}, 3, ColorWhite, ColorWhite)
	tip.Show()
	assert.True(t, tip.Shown())
	tip.Hide()
	assert.False(t, tip.Shown())
	tip.Show()
	tip.Dispose()
	assert.False(t, tip.Shown())
}
