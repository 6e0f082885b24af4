package warviz

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// HitShape is used for custom hit testing regions.
type HitShape interface {
	Contains(x, y float64) bool
}

// PointerContext carries pointer event data. Contexts for one dispatch share
// a propagation flag, so a node callback may stop scene-level handlers from
// seeing the event.
type PointerContext struct {
	Node      *Node
	UserData  any
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	PointerID int

	// Time is the scene clock when the event was dispatched.
	Time time.Duration

	stopped *bool
}

// StopPropagation prevents scene-level handlers from receiving this event.
// Node callbacks always run before scene-level handlers.
func (c PointerContext) StopPropagation() {
	if c.stopped != nil {
		*c.stopped = true
	}
}

// Stopped reports whether StopPropagation was called for this dispatch.
func (c PointerContext) Stopped() bool {
	return c.stopped != nil && *c.stopped
}

// --- ID counter ---

// nodeIDCounter is a plain counter; the scene is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the fundamental scene graph element. A single flat struct is used for
// all node types to avoid interface dispatch on the hot path.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	PivotX   float64
	PivotY   float64

	// Computed, updated during traversal
	worldTransform [6]float64
	worldAlpha     float64
	transformDirty bool

	// Visibility & interaction
	Alpha        float64
	Visible      bool
	Renderable   bool
	Interactable bool

	// Ordering
	ZIndex      int
	RenderLayer uint8

	// Metadata
	UserData any

	// Tint for rects, meshes and text
	Color Color

	// Mesh fields (NodeTypeMesh)
	Vertices         []ebiten.Vertex
	Indices          []uint16
	transformedVerts []ebiten.Vertex // preallocated transform buffer
	meshAABB         Rect            // cached local-space AABB
	meshAABBDirty    bool            // recompute AABB when true

	// Text fields (NodeTypeText)
	TextBlock *TextBlock

	// Hit testing
	HitShape HitShape

	// Per-node callbacks (nil by default; zero cost when unused)
	OnPointerDown  func(PointerContext)
	OnPointerUp    func(PointerContext)
	OnPointerMove  func(PointerContext)
	OnClick        func(PointerContext)
	OnPointerEnter func(PointerContext)
	OnPointerLeave func(PointerContext)

	// Internal
	disposed       bool
	childrenSorted bool
	sortedChildren []*Node // reused buffer for ZIndex-sorted traversal order
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = Color{1, 1, 1, 1}
	n.Visible = true
	n.Renderable = true
	n.transformDirty = true
	n.childrenSorted = true
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewRect creates a solid rectangle. The rect is a unit square scaled by
// ScaleX/ScaleY, so width and height can be tweened like any scale.
func NewRect(name string, width, height float64, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypeRect}
	nodeDefaults(n)
	n.ScaleX = width
	n.ScaleY = height
	n.Color = c
	return n
}

// NewMesh creates a mesh node that uses DrawTriangles for rendering.
func NewMesh(name string, vertices []ebiten.Vertex, indices []uint16) *Node {
	n := &Node{
		Name:          name,
		Type:          NodeTypeMesh,
		Vertices:      vertices,
		Indices:       indices,
		meshAABBDirty: true,
	}
	nodeDefaults(n)
	return n
}

// NewText creates a text node with the given content and font.
func NewText(name string, content string, font Font) *Node {
	n := &Node{
		Name: name,
		Type: NodeTypeText,
		TextBlock: &TextBlock{
			Content:     content,
			Font:        font,
			Color:       Color{1, 1, 1, 1},
			layoutDirty: true,
		},
	}
	nodeDefaults(n)
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("warviz: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("warviz: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("warviz: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// DisposeChildren disposes every child of this node.
func (n *Node) DisposeChildren() {
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = n.children[:0]
	n.sortedChildren = nil
	n.childrenSorted = true
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// CountDescendants returns the number of nodes below n.
func (n *Node) CountDescendants() int {
	count := 0
	for _, child := range n.children {
		count += 1 + child.CountDescendants()
	}
	return count
}

// SetZIndex sets the node's ZIndex and marks the parent's children as unsorted.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.sortedChildren = nil
	n.Parent = nil
	n.HitShape = nil
	n.transformedVerts = nil
	n.TextBlock = nil
	n.UserData = nil
	n.OnPointerDown = nil
	n.OnPointerUp = nil
	n.OnPointerMove = nil
	n.OnClick = nil
	n.OnPointerEnter = nil
	n.OnPointerLeave = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// nodeDimensions returns the node's local-space extent used for hit testing.
func nodeDimensions(n *Node) (w, h float64) {
	switch n.Type {
	case NodeTypeRect:
		return 1, 1
	case NodeTypeMesh:
		n.recomputeMeshAABB()
		return n.meshAABB.Width, n.meshAABB.Height
	case NodeTypeText:
		if n.TextBlock != nil {
			n.TextBlock.layout()
			return n.TextBlock.measuredW, n.TextBlock.measuredH
		}
		return 0, 0
	default:
		return 0, 0
	}
}
