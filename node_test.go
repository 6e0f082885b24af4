package warviz

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestNewContainerDefaults(t *testing.T) {
	n := NewContainer("test")
	assertNodeDefaults(t, n, "test", NodeTypeContainer)
}

func TestNewRectUsesScaleAsSize(t *testing.T) {
	c := Color{R: 0.5, G: 0.2, B: 0.1, A: 1}
	n := NewRect("bar", 40, 120, c)
	if n.Type != NodeTypeRect {
		t.Errorf("Type = %d, want NodeTypeRect", n.Type)
	}
	if n.ScaleX != 40 || n.ScaleY != 120 {
		t.Errorf("Scale = (%v, %v), want (40, 120)", n.ScaleX, n.ScaleY)
	}
	if n.Color != c {
		t.Errorf("Color = %v, want %v", n.Color, c)
	}
}

func TestNewMeshDefaults(t *testing.T) {
	verts := []ebiten.Vertex{{DstX: 0, DstY: 0}}
	inds := []uint16{0}
	n := NewMesh("mesh", verts, inds)
	assertNodeDefaults(t, n, "mesh", NodeTypeMesh)
	if len(n.Vertices) != 1 || len(n.Indices) != 1 {
		t.Errorf("Vertices/Indices not set")
	}
}

func TestNewTextDefaults(t *testing.T) {
	n := NewText("text", "hello", nil)
	assertNodeDefaults(t, n, "text", NodeTypeText)
	if n.TextBlock.Content != "hello" {
		t.Errorf("Content = %q, want %q", n.TextBlock.Content, "hello")
	}
}

func assertNodeDefaults(t *testing.T, n *Node, name string, typ NodeType) {
	t.Helper()
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != name {
		t.Errorf("Name = %q, want %q", n.Name, name)
	}
	if n.Type != typ {
		t.Errorf("Type = %d, want %d", n.Type, typ)
	}
	if n.Alpha != 1 {
		t.Errorf("Alpha = %v, want 1", n.Alpha)
	}
	if !n.Visible || !n.Renderable {
		t.Error("Visible and Renderable should default to true")
	}
	if n.Interactable {
		t.Error("Interactable should default to false")
	}
}

func TestAddChildReparent(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	child := NewContainer("child")

	a.AddChild(child)
	b.AddChild(child)

	if a.NumChildren() != 0 {
		t.Errorf("a.NumChildren() = %d, want 0", a.NumChildren())
	}
	if child.Parent != b {
		t.Error("child.Parent should be b")
	}
}

func TestAddChildCyclePanic(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on cycle")
		}
	}()
	child.AddChild(parent)
}

func TestAddChildNilPanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on nil child")
		}
	}()
	NewContainer("p").AddChild(nil)
}

func TestDispose(t *testing.T) {
	root := NewContainer("root")
	parent := NewContainer("parent")
	child := NewContainer("child")
	grandchild := NewContainer("grandchild")
	root.AddChild(parent)
	parent.AddChild(child)
	child.AddChild(grandchild)
	child.OnPointerUp = func(PointerContext) {}

	parent.Dispose()

	for _, n := range []*Node{parent, child, grandchild} {
		if !n.IsDisposed() {
			t.Errorf("%s should be disposed", n.Name)
		}
		if n.ID != 0 {
			t.Errorf("%s ID = %d, want 0", n.Name, n.ID)
		}
	}
	if child.OnPointerUp != nil {
		t.Error("dispose should drop callbacks")
	}
	if root.NumChildren() != 0 {
		t.Error("root should have 0 children after dispose")
	}
}

func TestDisposeIdempotent(t *testing.T) {
	n := NewContainer("n")
	n.Dispose()
	n.Dispose()
	if !n.IsDisposed() {
		t.Error("should still be disposed")
	}
}

func TestDisposeChildren(t *testing.T) {
	parent := NewContainer("parent")
	kids := []*Node{NewContainer("a"), NewContainer("b"), NewContainer("c")}
	for _, k := range kids {
		parent.AddChild(k)
	}
	kids[1].AddChild(NewContainer("nested"))

	if got := parent.CountDescendants(); got != 4 {
		t.Fatalf("CountDescendants() = %d, want 4", got)
	}

	parent.DisposeChildren()

	if parent.IsDisposed() {
		t.Error("parent itself should survive")
	}
	if got := parent.CountDescendants(); got != 0 {
		t.Errorf("CountDescendants() = %d, want 0", got)
	}
	for _, k := range kids {
		if !k.IsDisposed() {
			t.Errorf("%s should be disposed", k.Name)
		}
	}
}

func TestDirtyPropagationOnAddChild(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	grandchild := NewContainer("grandchild")
	child.AddChild(grandchild)

	child.transformDirty = false
	grandchild.transformDirty = false

	parent.AddChild(child)

	if !child.transformDirty {
		t.Error("child should be dirty after AddChild")
	}
	if !grandchild.transformDirty {
		t.Error("grandchild should be dirty after AddChild")
	}
}

func TestSetZIndexMarksParentUnsorted(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)
	parent.childrenSorted = true

	child.SetZIndex(5)
	if parent.childrenSorted {
		t.Error("parent should be unsorted after SetZIndex")
	}
}
