package warviz

// Caption is a text line painted as one node per glyph so that glyphs can be
// faded individually. The caption's container persists; its glyph units
// belong to whichever view last set the text.
type Caption struct {
	node   *Node
	font   Font
	color  Color
	width  float64
	align  TextAlign
	text   string
	glyphs []*Node
}

// NewCaption creates an empty caption. Its glyphs are centered within the
// width given to SetWidth unless SetAlign says otherwise.
func NewCaption(name string, font Font, color Color) *Caption {
	return &Caption{
		node:  NewContainer(name),
		font:  font,
		color: color,
		align: TextAlignCenter,
	}
}

// SetAlign sets how the line sits within the caption width.
func (c *Caption) SetAlign(a TextAlign) {
	c.align = a
	c.layout()
}

// Name returns the caption node's name.
func (c *Caption) Name() string {
	return c.node.Name
}

// Node returns the caption's container node.
func (c *Caption) Node() *Node {
	return c.node
}

// Text returns the text of the current glyph units.
func (c *Caption) Text() string {
	return c.text
}

// SetWidth sets the width the glyphs are centered in and re-centers existing
// glyphs.
func (c *Caption) SetWidth(w float64) {
	c.width = w
	c.layout()
}

// Glyphs returns the current glyph units in reading order. The returned
// slice MUST NOT be mutated.
func (c *Caption) Glyphs() []*Node {
	return c.glyphs
}

// SetText disposes existing glyph units and creates one transparent unit per
// rune of s.
func (c *Caption) SetText(s string) []*Node {
	c.Clear()
	c.text = s
	for i, r := range []rune(s) {
		g := NewText(c.node.Name+"-glyph", string(r), c.font)
		g.TextBlock.Color = c.color
		g.Alpha = 0
		g.UserData = i
		c.node.AddChild(g)
		c.glyphs = append(c.glyphs, g)
	}
	c.layout()
	return c.glyphs
}

// Clear disposes every glyph unit and returns how many there were. Slices
// previously returned by SetText or Glyphs keep their (disposed) units.
func (c *Caption) Clear() int {
	n := len(c.glyphs)
	c.node.DisposeChildren()
	c.glyphs = nil
	c.text = ""
	return n
}

// layout places each glyph at the advance of the text before it, with the
// whole line aligned in the caption width.
func (c *Caption) layout() {
	if len(c.glyphs) == 0 || c.font == nil {
		return
	}
	runes := []rune(c.text)
	total, _ := c.font.MeasureString(c.text)
	var offset float64
	switch c.align {
	case TextAlignCenter:
		offset = max((c.width-total)/2, 0)
	case TextAlignRight:
		offset = max(c.width-total, 0)
	}
	for i, g := range c.glyphs {
		adv, _ := c.font.MeasureString(string(runes[:i]))
		g.SetPosition(offset+adv, 0)
	}
}
