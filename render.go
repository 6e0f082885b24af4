package warviz

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandRect CommandType = iota // DrawImage of the white pixel
	CommandMesh                    // DrawTriangles
	CommandText                    // text/v2 Draw
)

// RenderCommand is a single draw instruction emitted during scene traversal.
type RenderCommand struct {
	Type        CommandType
	Transform   [6]float64
	Color       Color
	RenderLayer uint8
	treeOrder   int // assigned during traversal for stable sort

	// Mesh-only fields (slice headers, not copies of vertex data).
	meshVerts []ebiten.Vertex
	meshInds  []uint16

	text *TextBlock
}

// traverse walks the node tree depth-first, updating transforms and emitting
// render commands for visible, renderable leaf nodes.
func (s *Scene) traverse(n *Node, parentTransform [6]float64, parentAlpha float64, parentRecomputed bool, treeOrder *int) {
	if !n.Visible {
		return
	}

	recompute := n.transformDirty || parentRecomputed
	if recompute {
		local := computeLocalTransform(n)
		n.worldTransform = multiplyAffine(parentTransform, local)
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}

	if n.Renderable && n.worldAlpha > 0 {
		tint := Color{n.Color.R, n.Color.G, n.Color.B, n.Color.A * n.worldAlpha}
		switch n.Type {
		case NodeTypeRect:
			*treeOrder++
			s.commands = append(s.commands, RenderCommand{
				Type:        CommandRect,
				Transform:   n.worldTransform,
				Color:       tint,
				RenderLayer: n.RenderLayer,
				treeOrder:   *treeOrder,
			})
		case NodeTypeMesh:
			if len(n.Vertices) == 0 || len(n.Indices) == 0 {
				break
			}
			dst := ensureTransformedVerts(n)
			transformVertices(n.Vertices, dst, n.worldTransform, tint)
			*treeOrder++
			s.commands = append(s.commands, RenderCommand{
				Type:        CommandMesh,
				Transform:   n.worldTransform,
				RenderLayer: n.RenderLayer,
				treeOrder:   *treeOrder,
				meshVerts:   dst,
				meshInds:    n.Indices,
			})
		case NodeTypeText:
			if n.TextBlock == nil || n.TextBlock.Content == "" {
				break
			}
			if _, ok := n.TextBlock.Font.(*TTFFont); !ok {
				break
			}
			*treeOrder++
			s.commands = append(s.commands, RenderCommand{
				Type:        CommandText,
				Transform:   n.worldTransform,
				Color:       tint,
				RenderLayer: n.RenderLayer,
				treeOrder:   *treeOrder,
				text:        n.TextBlock,
			})
		}
	}

	if len(n.children) == 0 {
		return
	}
	children := n.children
	if !n.childrenSorted {
		s.rebuildSortedChildren(n)
	}
	if n.sortedChildren != nil {
		children = n.sortedChildren
	}
	for _, child := range children {
		s.traverse(child, n.worldTransform, n.worldAlpha, recompute, treeOrder)
	}
}

// rebuildSortedChildren rebuilds the ZIndex-sorted traversal order for a node.
// Stable insertion sort; children lists here are short and nearly sorted.
func (s *Scene) rebuildSortedChildren(n *Node) {
	nc := len(n.children)
	if cap(n.sortedChildren) < nc {
		n.sortedChildren = make([]*Node, nc)
	}
	n.sortedChildren = n.sortedChildren[:nc]
	copy(n.sortedChildren, n.children)
	for i := 1; i < nc; i++ {
		key := n.sortedChildren[i]
		j := i - 1
		for j >= 0 && n.sortedChildren[j].ZIndex > key.ZIndex {
			n.sortedChildren[j+1] = n.sortedChildren[j]
			j--
		}
		n.sortedChildren[j+1] = key
	}
	n.childrenSorted = true
}

// --- Merge sort ---

// commandLessOrEqual returns true if a should sort before or at the same position as b.
// Using <= for treeOrder ensures stability.
func commandLessOrEqual(a, b RenderCommand) bool {
	if a.RenderLayer != b.RenderLayer {
		return a.RenderLayer < b.RenderLayer
	}
	return a.treeOrder <= b.treeOrder
}

// mergeSort sorts s.commands in-place using s.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (s *Scene) mergeSort() {
	n := len(s.commands)
	if n <= 1 {
		return
	}
	if cap(s.sortBuf) < n {
		s.sortBuf = make([]RenderCommand, n)
	}
	s.sortBuf = s.sortBuf[:n]

	a := s.commands
	b := s.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(s.commands, s.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []RenderCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}

// --- Submission ---

// submitCommands draws the sorted command list onto target.
func (s *Scene) submitCommands(target *ebiten.Image) {
	var op ebiten.DrawImageOptions
	var triOp ebiten.DrawTrianglesOptions

	for i := range s.commands {
		cmd := &s.commands[i]
		switch cmd.Type {
		case CommandRect:
			op.GeoM = commandGeoM(cmd)
			op.ColorScale.Reset()
			applyColorScale(&op.ColorScale, cmd.Color)
			target.DrawImage(WhitePixel, &op)
		case CommandMesh:
			target.DrawTriangles(cmd.meshVerts, cmd.meshInds, WhitePixel, &triOp)
		case CommandText:
			tb := cmd.text
			f := tb.Font.(*TTFFont)
			tOp := &text.DrawOptions{}
			tOp.GeoM = commandGeoM(cmd)
			applyColorScale(&tOp.ColorScale, Color{
				R: tb.Color.R * cmd.Color.R,
				G: tb.Color.G * cmd.Color.G,
				B: tb.Color.B * cmd.Color.B,
				A: tb.Color.A * cmd.Color.A,
			})
			tOp.LineSpacing = f.LineHeight()
			text.Draw(target, tb.Content, f.Face(), tOp)
		}
	}
}

// applyColorScale writes a straight-alpha Color into a premultiplied ColorScale.
func applyColorScale(cs *ebiten.ColorScale, c Color) {
	a := float32(c.A)
	cs.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
}

// commandGeoM converts a command's [6]float64 transform into an ebiten.GeoM.
func commandGeoM(cmd *RenderCommand) ebiten.GeoM {
	var m ebiten.GeoM
	m.SetElement(0, 0, cmd.Transform[0])
	m.SetElement(1, 0, cmd.Transform[1])
	m.SetElement(0, 1, cmd.Transform[2])
	m.SetElement(1, 1, cmd.Transform[3])
	m.SetElement(0, 2, cmd.Transform[4])
	m.SetElement(1, 2, cmd.Transform[5])
	return m
}

// --- Color conversion ---

// toRGBA converts to a premultiplied 8-bit color for image.Fill.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
