package warviz

import "github.com/hajimehoshi/ebiten/v2"

// transformVertices applies a world transform and color tint to src vertices,
// writing the result into dst. dst must be at least len(src) in length.
func transformVertices(src, dst []ebiten.Vertex, transform [6]float64, tint Color) {
	a, b, c, d, tx, ty := transform[0], transform[1], transform[2], transform[3], transform[4], transform[5]
	cr := float32(tint.R)
	cg := float32(tint.G)
	cb := float32(tint.B)
	ca := float32(tint.A)

	for i := range src {
		s := &src[i]
		ox := float64(s.DstX)
		oy := float64(s.DstY)
		dst[i] = ebiten.Vertex{
			DstX:   float32(a*ox + c*oy + tx),
			DstY:   float32(b*ox + d*oy + ty),
			SrcX:   s.SrcX,
			SrcY:   s.SrcY,
			ColorR: s.ColorR * cr * ca,
			ColorG: s.ColorG * cg * ca,
			ColorB: s.ColorB * cb * ca,
			ColorA: s.ColorA * ca,
		}
	}
}

// computeMeshAABB scans DstX/DstY of the given vertices and returns
// the axis-aligned bounding box in local space.
func computeMeshAABB(verts []ebiten.Vertex) Rect {
	if len(verts) == 0 {
		return Rect{}
	}
	minX := float64(verts[0].DstX)
	minY := float64(verts[0].DstY)
	maxX := minX
	maxY := minY
	for i := 1; i < len(verts); i++ {
		x := float64(verts[i].DstX)
		y := float64(verts[i].DstY)
		minX = min(minX, x)
		maxX = max(maxX, x)
		minY = min(minY, y)
		maxY = max(maxY, y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ensureTransformedVerts grows the node's transformedVerts buffer to fit
// len(n.Vertices), using a high-water-mark strategy (never shrinks).
func ensureTransformedVerts(n *Node) []ebiten.Vertex {
	need := len(n.Vertices)
	if cap(n.transformedVerts) < need {
		n.transformedVerts = make([]ebiten.Vertex, need)
	}
	n.transformedVerts = n.transformedVerts[:need]
	return n.transformedVerts
}

// invalidateMeshAABB marks the mesh's cached AABB as needing recomputation.
func (n *Node) invalidateMeshAABB() {
	n.meshAABBDirty = true
}

// recomputeMeshAABB recomputes the cached local-space AABB if dirty.
func (n *Node) recomputeMeshAABB() {
	if !n.meshAABBDirty {
		return
	}
	n.meshAABB = computeMeshAABB(n.Vertices)
	n.meshAABBDirty = false
}

// NewPolygon creates an untextured mesh node from a polygon outline. The
// outline is triangulated as a fan from the first point, so it must be
// star-shaped around that point (true for pie wedges, whose first point is
// the hub).
func NewPolygon(name string, points []Vec2) *Node {
	verts, inds := buildPolygonFan(points)
	return NewMesh(name, verts, inds)
}

// SetPolygonPoints replaces a polygon mesh's outline, reusing its backing
// arrays when they are large enough.
func SetPolygonPoints(n *Node, points []Vec2) {
	verts, inds := buildPolygonFan(points)

	if cap(n.Vertices) >= len(verts) {
		n.Vertices = n.Vertices[:len(verts)]
		copy(n.Vertices, verts)
	} else {
		n.Vertices = verts
	}
	if cap(n.Indices) >= len(inds) {
		n.Indices = n.Indices[:len(inds)]
		copy(n.Indices, inds)
	} else {
		n.Indices = inds
	}

	n.invalidateMeshAABB()
}

// buildPolygonFan triangulates points as a fan. Fewer than 3 points yield an
// empty mesh.
func buildPolygonFan(points []Vec2) ([]ebiten.Vertex, []uint16) {
	n := len(points)
	if n < 3 {
		return nil, nil
	}

	verts := make([]ebiten.Vertex, n)
	inds := make([]uint16, (n-2)*3)

	for i, p := range points {
		v := &verts[i]
		v.DstX = float32(p.X)
		v.DstY = float32(p.Y)
		v.SrcX = 0.5
		v.SrcY = 0.5
		v.ColorR = 1
		v.ColorG = 1
		v.ColorB = 1
		v.ColorA = 1
	}
	for i := 0; i < n-2; i++ {
		inds[i*3] = 0
		inds[i*3+1] = uint16(i + 1)
		inds[i*3+2] = uint16(i + 2)
	}
	return verts, inds
}
