package warviz

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/tanema/gween/ease"
)

const (
	// pieFill is the share of the chart area's short side the pie spans.
	pieFill = 0.8
	// pieSegments is the arc resolution of a full circle.
	pieSegments = 96
	// hoverGrowth is the radius multiplier of a hovered slice.
	hoverGrowth = 1.1
	// hoverLighten is how far a hovered slice moves toward white.
	hoverLighten = 0.25
)

// Overview captions.
const (
	OverviewTitle    = "WW2 Casualties"
	OverviewSubtitle = "Can you guess a country by the color?"
	overviewHint     = "Want to see more? Press HARD!"
)

// ViewConfig holds the layout and timing shared by both views.
type ViewConfig struct {
	// Header is the height reserved above the chart for the captions.
	Header float64

	HoldThreshold time.Duration
	TooltipOffset Vec2

	// In and Out time the shape fades.
	In  Stagger
	Out Stagger

	// HoverDuration is the length of the hover grow and shrink.
	HoverDuration time.Duration

	// ZeroSegmentsHoverable keeps zero-value bar segments tracked.
	ZeroSegmentsHoverable bool
}

// ColorKey is the palette key of a record: its formatted total.
func ColorKey(r CasualtyRecord) string {
	return humanize.Ftoa(r.TotalCasualties)
}

// slice is one wedge of the pie. wedge is the live geometry written by the
// animations; final is the laid-out geometry.
type slice struct {
	record CasualtyRecord
	wedge  Wedge
	final  Wedge
	node   *Node
	color  Color
	hover  *AnimationHandle
}

func (s *slice) Node() *Node { return s.node }

func (s *slice) Morph() Morph {
	return Morph{
		Fields:   []*float64{&s.wedge.EndAngle, &s.node.Alpha},
		Baseline: []float64{s.wedge.StartAngle, 0},
		Final:    []float64{s.final.EndAngle, 1},
		Apply:    s.rebuild,
	}
}

func (s *slice) rebuild() {
	if s.node.IsDisposed() {
		return
	}
	SetPolygonPoints(s.node, s.wedge.Points(pieSegments))
}

// OverviewView is the pie chart of every country. Holding a slice activates
// that country.
type OverviewView struct {
	data       Dataset
	palette    *Palette
	cfg        ViewConfig
	onActivate func(country string)

	surface *Surface
	slices  []*slice
	center  Vec2
	radius  float64
}

// NewOverviewView creates an unmounted overview. onActivate receives the
// country of a held slice.
func NewOverviewView(data Dataset, palette *Palette, cfg ViewConfig, onActivate func(country string)) *OverviewView {
	return &OverviewView{
		data:       data,
		palette:    palette,
		cfg:        cfg,
		onActivate: onActivate,
	}
}

// Name implements View.
func (v *OverviewView) Name() string { return "overview" }

// Captions implements View.
func (v *OverviewView) Captions() (string, string) {
	return OverviewTitle, OverviewSubtitle
}

// Center returns the pie center in screen space.
func (v *OverviewView) Center() Vec2 { return v.center }

// Radius returns the laid-out pie radius.
func (v *OverviewView) Radius() float64 { return v.radius }

// SlicePoint returns a screen point inside the slice for country, or false
// if there is no such slice or it has no area.
func (v *OverviewView) SlicePoint(country string) (Vec2, bool) {
	for _, s := range v.slices {
		if s.record.Country != country || s.final.Span() <= 0 {
			continue
		}
		c := s.final.Centroid()
		return Vec2{X: v.center.X + c.X, Y: v.center.Y + c.Y}, true
	}
	return Vec2{}, false
}

// Mount implements View. Slices start at their baseline, collapsed and
// transparent, until FadeIn.
func (v *OverviewView) Mount(s *Surface) error {
	vp := s.Scene().Viewport()
	chart := Layout{Viewport: vp, Header: v.cfg.Header}.Chart()
	v.center = Vec2{X: chart.X + chart.Width/2, Y: chart.Y + chart.Height/2}
	v.radius = pieFill * min(chart.Width, chart.Height) / 2

	wedges, err := PieLayout(v.data.Totals(), v.radius)
	if err != nil {
		return fmt.Errorf("warviz: overview: %w", err)
	}

	root := s.Reset("overview", GateConfig{
		HoldThreshold: v.cfg.HoldThreshold,
		TooltipOffset: v.cfg.TooltipOffset,
	})
	pie := NewContainer("pie")
	pie.Interactable = true
	pie.SetPosition(v.center.X, v.center.Y)
	root.AddChild(pie)

	v.surface = s
	v.slices = make([]*slice, len(wedges))
	for i, w := range wedges {
		rec := v.data.Records[i]
		sl := &slice{
			record: rec,
			wedge:  w,
			final:  w,
			color:  v.palette.Color(ColorKey(rec)),
		}
		sl.wedge.EndAngle = w.StartAngle
		sl.node = NewPolygon("slice-"+rec.Country, nil)
		sl.node.Color = sl.color
		sl.node.Alpha = 0
		sl.node.UserData = rec
		sl.node.HitShape = HitWedge{Wedge: &sl.wedge}
		pie.AddChild(sl.node)
		v.slices[i] = sl
		v.track(s.Gate(), sl)
	}
	return nil
}

func (v *OverviewView) track(g *Gate, sl *slice) {
	g.Track(sl.node, Binding{
		OnHover: func(_ PointerContext, tip *Tooltip) {
			tip.SetLines(
				sl.record.Country,
				"Total casualties: "+humanize.Comma(int64(sl.record.TotalCasualties)),
				overviewHint,
			)
		},
		OnHighlight: func(PointerContext) {
			v.highlight(sl, true)
		},
		OnLeave: func(PointerContext) {
			v.highlight(sl, false)
		},
		OnActivate: func(PointerContext) {
			if v.onActivate != nil {
				v.onActivate(sl.record.Country)
			}
		},
	})
}

// highlight grows and brightens a slice, or shrinks and restores it.
func (v *OverviewView) highlight(sl *slice, on bool) {
	if sl.hover != nil {
		sl.hover.Cancel()
	}
	r := sl.final.OuterRadius
	sl.node.Color = sl.color
	if on {
		r *= hoverGrowth
		sl.node.Color = sl.color.Lighten(hoverLighten)
	}
	d := v.cfg.HoverDuration
	sl.hover = v.surface.Scene().Animator().Play("hover:"+sl.record.Country, 1, Stagger{Duration: d}, func(int) *TweenGroup {
		g := NewTweenGroup(sl.node, []*float64{&sl.wedge.OuterRadius}, []float64{r}, d, ease.Linear)
		g.OnStep = sl.rebuild
		return g
	}, nil)
}

// FadeIn implements View: the slices sweep open one after another.
func (v *OverviewView) FadeIn(a *Animator, done func()) *AnimationHandle {
	return a.FadeInShapes("pie-in", v.shapes(), v.cfg.In, done)
}

// FadeOut implements View: every slice drops its highlight and collapses
// onto its start angle.
func (v *OverviewView) FadeOut(a *Animator, done func()) *AnimationHandle {
	for _, sl := range v.slices {
		if sl.hover != nil {
			sl.hover.Cancel()
		}
		sl.wedge.OuterRadius = sl.final.OuterRadius
		sl.node.Color = sl.color
		sl.rebuild()
	}
	return a.FadeOutShapes("pie-out", v.shapes(), v.cfg.Out, done)
}

func (v *OverviewView) shapes() []Shape {
	out := make([]Shape, len(v.slices))
	for i, sl := range v.slices {
		out[i] = sl
	}
	return out
}

// Teardown implements View.
func (v *OverviewView) Teardown() {
	for _, sl := range v.slices {
		if sl.hover != nil {
			sl.hover.Cancel()
		}
	}
	v.slices = nil
	if v.surface != nil {
		v.surface.Teardown()
		v.surface = nil
	}
}
