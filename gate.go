package warviz

import (
	"time"

	"go.uber.org/zap"
)

// Binding is what a tracked node does in response to a gesture.
type Binding struct {
	// OnHover fills in the tooltip. It runs when the pointer enters the node
	// and again on a tap.
	OnHover func(ctx PointerContext, tip *Tooltip)

	// OnActivate runs on a hold: press and release over the node, longer
	// than the hold threshold.
	OnActivate func(ctx PointerContext)

	// OnHighlight and OnLeave set and clear hover styling.
	OnHighlight func(ctx PointerContext)
	OnLeave     func(ctx PointerContext)
}

// GateConfig configures an InteractionGate.
type GateConfig struct {
	HoldThreshold time.Duration
	TooltipOffset Vec2
}

type tracking struct {
	binding Binding
	down    bool
	downAt  time.Duration
}

// Gate classifies gestures on a set of tracked nodes. A release after a
// press longer than the hold threshold activates the node and stops the
// event before the outside-dismiss handler sees it. Taps and hovers only
// update the tooltip.
type Gate struct {
	scene     *Scene
	tooltip   *Tooltip
	cfg       GateConfig
	tracked   map[*Node]*tracking
	engaged   *Node
	dismiss   CallbackHandle
	suspended bool
	closed    bool
}

// NewGate creates a gate that shows tip for tracked nodes of scene and
// registers the scene-level outside-dismiss handler. Close releases it.
func NewGate(scene *Scene, tip *Tooltip, cfg GateConfig) *Gate {
	g := &Gate{
		scene:   scene,
		tooltip: tip,
		cfg:     cfg,
		tracked: make(map[*Node]*tracking),
	}
	g.dismiss = scene.OnPointerUp(g.dismissOutside)
	return g
}

// Track makes node interactable and routes its pointer events through the
// gate. Tracking a node twice replaces its binding.
func (g *Gate) Track(node *Node, b Binding) {
	if g.closed {
		return
	}
	tr := &tracking{binding: b}
	g.tracked[node] = tr
	node.Interactable = true

	node.OnPointerEnter = func(ctx PointerContext) {
		if g.suspended {
			return
		}
		g.engage(node, tr, ctx)
	}
	node.OnPointerMove = func(ctx PointerContext) {
		if g.suspended || g.engaged != node {
			return
		}
		g.follow(ctx)
	}
	node.OnPointerLeave = func(ctx PointerContext) {
		tr.down = false
		if g.engaged == node {
			g.disengage(ctx)
		}
	}
	node.OnPointerDown = func(ctx PointerContext) {
		if g.suspended {
			return
		}
		tr.down = true
		tr.downAt = ctx.Time
		if g.engaged != node {
			g.engage(node, tr, ctx)
		}
	}
	node.OnPointerUp = func(ctx PointerContext) {
		held := ctx.Time - tr.downAt
		wasDown := tr.down
		tr.down = false
		if g.suspended {
			return
		}
		if wasDown && held > g.cfg.HoldThreshold && tr.binding.OnActivate != nil {
			ctx.StopPropagation()
			g.scene.logger.Debug("gate: hold",
				zap.String("node", node.Name),
				zap.Duration("held", held),
				zap.Duration("threshold", g.cfg.HoldThreshold))
			tr.binding.OnActivate(ctx)
			return
		}
		g.engage(node, tr, ctx)
	}
}

// Untrack stops routing node's events through the gate.
func (g *Gate) Untrack(node *Node) {
	if _, ok := g.tracked[node]; !ok {
		return
	}
	delete(g.tracked, node)
	node.OnPointerEnter = nil
	node.OnPointerMove = nil
	node.OnPointerLeave = nil
	node.OnPointerDown = nil
	node.OnPointerUp = nil
	if g.engaged == node {
		g.engaged = nil
		g.tooltip.Hide()
	}
}

// Tracked reports whether node is in the live tracked set.
func (g *Gate) Tracked(node *Node) bool {
	_, ok := g.tracked[node]
	return ok
}

// Bindings returns the number of tracked nodes.
func (g *Gate) Bindings() int {
	return len(g.tracked)
}

// Clear untracks every node.
func (g *Gate) Clear() {
	for n := range g.tracked {
		g.Untrack(n)
	}
}

// Suspend ignores gestures until Resume, hiding the tooltip. Activations are
// never delivered while suspended.
func (g *Gate) Suspend() {
	g.suspended = true
	if g.engaged != nil {
		g.disengage(PointerContext{Node: g.engaged, Time: g.scene.clock})
	}
}

// Resume re-enables gestures.
func (g *Gate) Resume() {
	g.suspended = false
}

// Suspended reports whether the gate is ignoring gestures.
func (g *Gate) Suspended() bool {
	return g.suspended
}

// Close untracks everything and removes the dismiss handler. A closed gate
// ignores Track.
func (g *Gate) Close() {
	if g.closed {
		return
	}
	g.Clear()
	g.dismiss.Remove()
	g.closed = true
}

func (g *Gate) engage(node *Node, tr *tracking, ctx PointerContext) {
	if g.engaged != nil && g.engaged != node {
		if prev, ok := g.tracked[g.engaged]; ok && prev.binding.OnLeave != nil {
			prev.binding.OnLeave(ctx)
		}
	}
	g.engaged = node
	if tr.binding.OnHover != nil {
		tr.binding.OnHover(ctx, g.tooltip)
	}
	if tr.binding.OnHighlight != nil {
		tr.binding.OnHighlight(ctx)
	}
	g.tooltip.Show()
	g.follow(ctx)
}

func (g *Gate) follow(ctx PointerContext) {
	g.tooltip.MoveTo(ctx.GlobalX, ctx.GlobalY, g.cfg.TooltipOffset, g.scene.Viewport())
}

func (g *Gate) disengage(ctx PointerContext) {
	node := g.engaged
	g.engaged = nil
	g.tooltip.Hide()
	if tr, ok := g.tracked[node]; ok && tr.binding.OnLeave != nil {
		tr.binding.OnLeave(ctx)
	}
}

// dismissOutside hides the tooltip when a release lands outside the tracked
// set. It consults the live set at event time, so nodes tracked after the
// handler was registered count as inside.
func (g *Gate) dismissOutside(ctx PointerContext) {
	if ctx.Node != nil {
		if _, ok := g.tracked[ctx.Node]; ok {
			return
		}
	}
	if g.engaged != nil {
		g.disengage(ctx)
		return
	}
	g.tooltip.Hide()
}
