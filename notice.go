package warviz

import (
	"time"

	"github.com/tanema/gween/ease"
)

// Notice is a transient one-line message used for non-fatal problems such
// as a detail dataset that failed to load.
type Notice struct {
	node     *Node
	animator *Animator
	hold     time.Duration
	fade     time.Duration
	pending  *AnimationHandle
}

// NewNotice creates a hidden notice line.
func NewNotice(font Font, color Color, animator *Animator, hold, fade time.Duration) *Notice {
	n := NewText("notice", "", font)
	n.TextBlock.Color = color
	n.RenderLayer = 2
	n.Visible = false
	return &Notice{node: n, animator: animator, hold: hold, fade: fade}
}

// Node returns the notice's text node.
func (n *Notice) Node() *Node {
	return n.node
}

// Text returns the current message.
func (n *Notice) Text() string {
	return n.node.TextBlock.Content
}

// Shown reports whether the message is on screen.
func (n *Notice) Shown() bool {
	return n.node.Visible
}

// Show displays msg, centered within width at y, for the hold duration and
// then fades it out. A new message replaces the current one.
func (n *Notice) Show(msg string, width, y float64) {
	if n.pending != nil {
		n.pending.Cancel()
	}
	tb := n.node.TextBlock
	tb.SetContent(msg)
	w, _ := tb.Measure()
	n.node.SetPosition(max((width-w)/2, 0), y)
	n.node.SetAlpha(1)
	n.node.Visible = true

	n.pending = n.animator.After("notice-hold", n.hold, func() {
		n.pending = n.animator.Play("notice-fade", 1, Stagger{Duration: n.fade, Ease: ease.Linear}, func(int) *TweenGroup {
			return TweenAlpha(n.node, 0, n.fade, ease.Linear)
		}, func() {
			n.node.Visible = false
			n.pending = nil
		})
	})
}
