package warviz

const (
	tooltipPadding = 6.0
	tooltipMargin  = 10.0 // minimum gap to the right and bottom viewport edges
)

// Tooltip is a floating panel with a background and up to three text lines.
// It never takes part in hit testing.
type Tooltip struct {
	node  *Node
	bg    *Node
	lines []*Node
	font  Font
	w, h  float64
}

// NewTooltip creates a hidden tooltip with the given number of lines.
func NewTooltip(font Font, lineCount int, bg, fg Color) *Tooltip {
	t := &Tooltip{
		node: NewContainer("tooltip"),
		font: font,
	}
	t.node.RenderLayer = 1
	t.node.Visible = false

	t.bg = NewRect("tooltip-bg", 0, 0, bg)
	t.node.AddChild(t.bg)

	for range lineCount {
		line := NewText("tooltip-line", "", font)
		line.TextBlock.Color = fg
		t.node.AddChild(line)
		t.lines = append(t.lines, line)
	}
	return t
}

// Node returns the tooltip's root node.
func (t *Tooltip) Node() *Node {
	return t.node
}

// SetLines replaces the text of each line and resizes the background.
// Missing lines are blanked.
func (t *Tooltip) SetLines(text ...string) {
	var lh float64
	if t.font != nil {
		lh = t.font.LineHeight()
	}
	var w float64
	used := 0
	for i, line := range t.lines {
		s := ""
		if i < len(text) {
			s = text[i]
		}
		line.TextBlock.SetContent(s)
		if s != "" {
			used = i + 1
		}
		lw, _ := line.TextBlock.Measure()
		w = max(w, lw)
		line.SetPosition(tooltipPadding, tooltipPadding+float64(i)*lh)
	}
	t.w = w + 2*tooltipPadding
	t.h = float64(used)*lh + 2*tooltipPadding
	t.bg.SetScale(t.w, t.h)
}

// Lines returns the current text of each line.
func (t *Tooltip) Lines() []string {
	out := make([]string, len(t.lines))
	for i, l := range t.lines {
		out[i] = l.TextBlock.Content
	}
	return out
}

// Size returns the panel size.
func (t *Tooltip) Size() Size {
	return Size{Width: t.w, Height: t.h}
}

// MoveTo places the panel at the pointer plus offset, clamped so the whole
// panel stays within viewport.
func (t *Tooltip) MoveTo(x, y float64, offset Vec2, viewport Size) {
	t.node.SetPosition(clampTooltip(x+offset.X, t.w, viewport.Width), clampTooltip(y+offset.Y, t.h, viewport.Height))
}

func clampTooltip(pos, size, limit float64) float64 {
	pos = min(pos, limit-size-tooltipMargin)
	return max(pos, 0)
}

// Position returns the panel's top-left corner.
func (t *Tooltip) Position() Vec2 {
	return Vec2{X: t.node.X, Y: t.node.Y}
}

// Show makes the panel visible.
func (t *Tooltip) Show() {
	t.node.Visible = true
}

// Hide makes the panel invisible.
func (t *Tooltip) Hide() {
	t.node.Visible = false
}

// Shown reports whether the panel is visible.
func (t *Tooltip) Shown() bool {
	return t.node.Visible && !t.node.IsDisposed()
}

// Dispose removes the panel from the scene.
func (t *Tooltip) Dispose() {
	t.node.Dispose()
}
