package warviz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptionSetTextCreatesGlyphUnits(t *testing.T) {
	c := NewCaption("title", fixedFont{}, ColorWhite)
	c.SetWidth(200)
	glyphs := c.SetText("Héllo")

	require.Len(t, glyphs, 5, "one unit per rune, not per byte")
	assert.Equal(t, 5, c.Node().NumChildren())
	assert.Equal(t, "é", glyphs[1].TextBlock.Content)

	// 5 runes * 8px = 40px, centered in 200px.
	for i, g := range glyphs {
		assert.Equal(t, 80+float64(i)*8, g.X, "glyph %d", i)
		assert.Equal(t, 0.0, g.Alpha)
	}
}

func TestCaptionAlign(t *testing.T) {
	c := NewCaption("title", fixedFont{}, ColorWhite)
	c.SetWidth(100)
	c.SetText("ab")

	c.SetAlign(TextAlignLeft)
	assert.Equal(t, 0.0, c.Glyphs()[0].X)
	c.SetAlign(TextAlignRight)
	assert.Equal(t, 84.0, c.Glyphs()[0].X)
}

func TestCaptionSetTextReplaces(t *testing.T) {
	c := NewCaption("title", fixedFont{}, ColorWhite)
	old := c.SetText("abc")
	oldFirst := old[0]
	c.SetText("xy")

	assert.True(t, oldFirst.IsDisposed())
	assert.Len(t, c.Glyphs(), 2)
	assert.Equal(t, 2, c.Node().NumChildren())
	assert.Equal(t, "xy", c.Text())
}

func TestCaptionClear(t *testing.T) {
	c := NewCaption("title", fixedFont{}, ColorWhite)
	c.SetText("abcd")
	assert.Equal(t, 4, c.Clear())
	assert.Zero(t, c.Clear())
	assert.Zero(t, c.Node().NumChildren())
	assert.Empty(t, c.Text())
}
