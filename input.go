package warviz

import (
	"github.com/hajimehoshi/ebiten/v2"
)

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// --- Built-in HitShape types ---

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// --- Per-pointer state ---

type pointerState struct {
	down      bool
	lastX     float64
	lastY     float64
	hitNode   *Node
	hoverNode *Node // last node the pointer was hovering over (for enter/leave)
	button    MouseButton
}

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type handlerRegistry struct {
	lists  [numEventTypes][]pointerHandler
	nextID uint32
}

func (r *handlerRegistry) add(event EventType, fn func(PointerContext)) CallbackHandle {
	r.nextID++
	r.lists[event] = append(r.lists[event], pointerHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r, event: event}
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires. Removing twice is
// a no-op.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.lists[h.event]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pointerHandler{}
			h.reg.lists[h.event] = s[:len(s)-1]
			return
		}
	}
}

// --- Scene-level event registration ---

// OnPointerDown registers a scene-level callback for pointer down events.
func (s *Scene) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	return s.handlers.add(EventPointerDown, fn)
}

// OnPointerUp registers a scene-level callback for pointer up events. It runs
// after the hit node's own OnPointerUp unless that callback stopped
// propagation.
func (s *Scene) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	return s.handlers.add(EventPointerUp, fn)
}

// OnPointerMove registers a scene-level callback for pointer move events.
func (s *Scene) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	return s.handlers.add(EventPointerMove, fn)
}

// OnPointerEnter registers a scene-level callback for pointer enter events.
func (s *Scene) OnPointerEnter(fn func(PointerContext)) CallbackHandle {
	return s.handlers.add(EventPointerEnter, fn)
}

// OnPointerLeave registers a scene-level callback for pointer leave events.
func (s *Scene) OnPointerLeave(fn func(PointerContext)) CallbackHandle {
	return s.handlers.add(EventPointerLeave, fn)
}

// OnClick registers a scene-level callback for click events.
func (s *Scene) OnClick(fn func(PointerContext)) CallbackHandle {
	return s.handlers.add(EventClick, fn)
}

// HandlerCount returns the number of registered scene-level callbacks.
func (s *Scene) HandlerCount() int {
	n := 0
	for _, l := range s.handlers.lists {
		n += len(l)
	}
	return n
}

// --- Hit testing ---

// nodeContainsLocal tests whether (lx, ly) falls inside a node's hit region.
// Uses HitShape if set; otherwise derives AABB from node dimensions.
// Containers with no HitShape are not hit-testable.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	w, h := nodeDimensions(n)
	if w == 0 && h == 0 {
		return false
	}
	return lx >= 0 && lx <= w && ly >= 0 && ly <= h
}

// collectInteractable walks the tree in painter order (DFS, ZIndex-sorted),
// appending interactable nodes to buf. Skips Visible=false or
// Interactable=false subtrees.
func (s *Scene) collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible || !n.Interactable {
		return buf
	}

	if n.HitShape != nil || n.Type != NodeTypeContainer {
		buf = append(buf, n)
	}

	if len(n.children) == 0 {
		return buf
	}

	children := n.children
	if !n.childrenSorted {
		s.rebuildSortedChildren(n)
	}
	if n.sortedChildren != nil {
		children = n.sortedChildren
	}
	for _, child := range children {
		buf = s.collectInteractable(child, buf)
	}
	return buf
}

// hitTest finds the topmost interactable node at (worldX, worldY).
// Returns nil if nothing is hit.
func (s *Scene) hitTest(worldX, worldY float64) *Node {
	s.hitBuf = s.collectInteractable(s.root, s.hitBuf[:0])

	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		// A collapsed node (zero scale) has no area.
		m := n.worldTransform
		if det := m[0]*m[3] - m[2]*m[1]; det > -1e-12 && det < 1e-12 {
			continue
		}
		lx, ly := n.WorldToLocal(worldX, worldY)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

// --- Input processing ---

// processInput handles one injected event if any are queued, otherwise the
// live mouse and touch devices.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		return
	}
	if !s.liveInput {
		return
	}
	s.processMousePointer()
	s.processTouchPointers()
}

// processMousePointer handles mouse input (pointer 0).
func (s *Scene) processMousePointer() {
	mx, my := ebiten.CursorPosition()

	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)

	if left || right || middle {
		pressed = true
		switch {
		case left:
			button = MouseButtonLeft
		case right:
			button = MouseButtonRight
		default:
			button = MouseButtonMiddle
		}
	}

	s.processPointer(0, float64(mx), float64(my), pressed, button)
}

// processTouchPointers handles touch input (pointers 1-9).
func (s *Scene) processTouchPointers() {
	touchIDs := ebiten.AppendTouchIDs(s.prevTouchIDs[:0])
	s.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		s.processPointer(slot, float64(tx), float64(ty), true, MouseButtonLeft)
	}

	// Release any touch slots that are no longer active. A lifted finger
	// also leaves whatever it was hovering.
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && !activeSlots[i] {
			ps := &s.pointers[i]
			if ps.down {
				s.processPointer(i, ps.lastX, ps.lastY, false, MouseButtonLeft)
			}
			if ps.hoverNode != nil {
				s.fire(EventPointerLeave, ps.hoverNode, i, ps.lastX, ps.lastY, MouseButtonLeft)
				ps.hoverNode = nil
			}
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (s *Scene) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer runs the pointer state machine for a single pointer.
func (s *Scene) processPointer(pointerID int, wx, wy float64, pressed bool, button MouseButton) {
	ps := &s.pointers[pointerID]

	// Nodes torn down since the last event are forgotten without a leave.
	if ps.hoverNode != nil && ps.hoverNode.disposed {
		ps.hoverNode = nil
	}
	if ps.hitNode != nil && ps.hitNode.disposed {
		ps.hitNode = nil
	}

	target := s.hitTest(wx, wy)

	if target != ps.hoverNode {
		if ps.hoverNode != nil {
			s.fire(EventPointerLeave, ps.hoverNode, pointerID, wx, wy, button)
		}
		if target != nil {
			s.fire(EventPointerEnter, target, pointerID, wx, wy, button)
		}
		ps.hoverNode = target
	}

	moved := wx != ps.lastX || wy != ps.lastY

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.lastX = wx
		ps.lastY = wy
		ps.hitNode = target
		s.fire(EventPointerDown, target, pointerID, wx, wy, ps.button)
	case !pressed && ps.down:
		if ps.hitNode != nil && ps.hitNode == target {
			s.fire(EventClick, target, pointerID, wx, wy, ps.button)
		}
		s.fire(EventPointerUp, target, pointerID, wx, wy, ps.button)

		ps.down = false
		ps.hitNode = nil
		ps.lastX = wx
		ps.lastY = wy
	case moved:
		// Move fires for hover and held pointers alike.
		s.fire(EventPointerMove, target, pointerID, wx, wy, ps.button)
		ps.lastX = wx
		ps.lastY = wy
	}
}

// --- Event dispatch ---

// fire dispatches one event: the node's own callback first, then the
// scene-level handlers unless the node stopped propagation.
func (s *Scene) fire(event EventType, node *Node, pointerID int, wx, wy float64, button MouseButton) {
	var stopped bool
	ctx := PointerContext{
		Node:      node,
		GlobalX:   wx,
		GlobalY:   wy,
		Button:    button,
		PointerID: pointerID,
		Time:      s.clock,
		stopped:   &stopped,
	}
	if node != nil {
		ctx.LocalX, ctx.LocalY = node.WorldToLocal(wx, wy)
		ctx.UserData = node.UserData
		if fn := nodeCallback(node, event); fn != nil {
			fn(ctx)
		}
	}
	if stopped {
		return
	}
	// Handlers may register or remove handlers while running; iterate over a
	// snapshot of the list as it was at dispatch time.
	list := s.handlers.lists[event]
	if len(list) == 0 {
		return
	}
	snapshot := make([]pointerHandler, len(list))
	copy(snapshot, list)
	for _, h := range snapshot {
		h.fn(ctx)
		if stopped {
			return
		}
	}
}

func nodeCallback(n *Node, event EventType) func(PointerContext) {
	switch event {
	case EventPointerDown:
		return n.OnPointerDown
	case EventPointerUp:
		return n.OnPointerUp
	case EventPointerMove:
		return n.OnPointerMove
	case EventClick:
		return n.OnClick
	case EventPointerEnter:
		return n.OnPointerEnter
	case EventPointerLeave:
		return n.OnPointerLeave
	}
	return nil
}
