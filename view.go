package warviz

// View is one of the two mutually exclusive charts. A view builds its nodes
// in Mount; the Orchestrator decides when its shapes fade and when it is torn
// down.
type View interface {
	Name() string

	// Mount builds the view on a freshly reset surface.
	Mount(s *Surface) error

	// Captions returns the title and subtitle painted while the view is up.
	Captions() (title, subtitle string)

	// FadeIn animates the mounted shapes from their baseline to their final
	// geometry. done fires once.
	FadeIn(a *Animator, done func()) *AnimationHandle

	// FadeOut animates the shapes back to their baseline. The shapes stay
	// attached until Teardown.
	FadeOut(a *Animator, done func()) *AnimationHandle

	// Teardown releases everything Mount created. It must be safe to call
	// more than once.
	Teardown()
}

// Residue counts what a surface still holds. A torn-down surface has a zero
// Residue.
type Residue struct {
	Nodes    int
	Tooltips int
	Glyphs   int
	Bindings int
	Handlers int
}

// Zero reports whether nothing is left.
func (r Residue) Zero() bool {
	return r == Residue{}
}

// Surface owns everything one view activation puts into the scene: a
// container node, at most one tooltip, the caption glyph units and the gate
// with its bindings and scene-level handler.
type Surface struct {
	scene    *Scene
	title    *Caption
	subtitle *Caption
	font     Font
	style    SurfaceStyle

	root    *Node
	tooltip *Tooltip
	gate    *Gate
}

// SurfaceStyle holds the colors of surface-owned chrome.
type SurfaceStyle struct {
	TooltipBackground Color
	TooltipText       Color
}

// NewSurface creates an empty surface. title and subtitle are the persistent
// caption targets; the surface owns only their glyph units.
func NewSurface(scene *Scene, title, subtitle *Caption, font Font, style SurfaceStyle) *Surface {
	return &Surface{
		scene:    scene,
		title:    title,
		subtitle: subtitle,
		font:     font,
		style:    style,
	}
}

// Reset tears down whatever the surface holds and creates a fresh container,
// tooltip and gate. It is safe on a dirty surface, so repeated mounts never
// accumulate nodes.
func (s *Surface) Reset(name string, cfg GateConfig) *Node {
	s.Teardown()

	s.root = NewContainer(name)
	s.root.Interactable = true
	s.scene.Root().AddChild(s.root)

	s.tooltip = NewTooltip(s.font, 3, s.style.TooltipBackground, s.style.TooltipText)
	s.scene.Root().AddChild(s.tooltip.Node())

	s.gate = NewGate(s.scene, s.tooltip, cfg)
	return s.root
}

// Teardown disposes the container and tooltip, clears caption glyphs, and
// closes the gate.
func (s *Surface) Teardown() {
	if s.gate != nil {
		s.gate.Close()
		s.gate = nil
	}
	if s.tooltip != nil {
		s.tooltip.Dispose()
		s.tooltip = nil
	}
	if s.root != nil {
		s.root.Dispose()
		s.root = nil
	}
	s.title.Clear()
	s.subtitle.Clear()
}

// Residue reports what the surface still holds.
func (s *Surface) Residue() Residue {
	var r Residue
	if s.root != nil && !s.root.IsDisposed() {
		r.Nodes = 1 + s.root.CountDescendants()
	}
	if s.tooltip != nil && !s.tooltip.Node().IsDisposed() {
		r.Tooltips = 1
	}
	r.Glyphs = len(s.title.Glyphs()) + len(s.subtitle.Glyphs())
	if s.gate != nil {
		r.Bindings = s.gate.Bindings()
		if !s.gate.closed {
			r.Handlers++
		}
	}
	return r
}


// Root returns the activation container, or nil before Reset.
func (s *Surface) Root() *Node { return s.root }

// Gate returns the activation's interaction gate.
func (s *Surface) Gate() *Gate { return s.gate }

// Tooltip returns the activation's tooltip.
func (s *Surface) Tooltip() *Tooltip { return s.tooltip }

// Scene returns the scene the surface mounts into.
func (s *Surface) Scene() *Scene { return s.scene }

// Font returns the body font.
func (s *Surface) Font() Font { return s.font }

// Title returns the title caption.
func (s *Surface) Title() *Caption { return s.title }

// Subtitle returns the subtitle caption.
func (s *Surface) Subtitle() *Caption { return s.subtitle }

// Layout is the screen split shared by both views: captions at the top and
// the chart area below.
type Layout struct {
	Viewport Size
	Header   float64
}

// Chart returns the chart area below the header.
func (l Layout) Chart() Rect {
	return Rect{X: 0, Y: l.Header, Width: l.Viewport.Width, Height: max(l.Viewport.Height-l.Header, 0)}
}
