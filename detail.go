package warviz

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

const (
	// detailMargin is the gap between the viewport and the chart container.
	detailMargin = 10.0
	// barFill is the share of the container the bars occupy.
	barFill = 0.8
	// civilianLighten shades the civilian layer of a bar.
	civilianLighten = 0.4
	labelGap        = 4.0

	axisTicks      = 10
	axisTickLength = 6.0
)

var axisColor = Color{0.3, 0.3, 0.3, 1}

// Detail captions and labels.
const (
	DetailTitlePrefix = "WW2 Casualties - "
	DetailSubtitle    = "Can you guess an event?"
	BackLabel         = "Back to Pie Chart"
	backHint          = "Press HARD to go back"
)

// LayerName returns the display name of a stack layer.
func LayerName(layer int) string {
	if layer == 1 {
		return "Civilian"
	}
	return "Military"
}

// segment is one rect of the bar chart. top and height are the laid-out
// geometry; baseline is the y the bar grows from.
type segment struct {
	label    string
	layer    int
	value    float64
	total    float64
	node     *Node
	color    Color
	top      float64
	height   float64
	baseline float64
}

func (s *segment) Node() *Node { return s.node }

func (s *segment) Morph() Morph {
	return Morph{
		Fields:   []*float64{&s.node.Y, &s.node.ScaleY},
		Baseline: []float64{s.baseline, 0},
		Final:    []float64{s.top, s.height},
	}
}

// fader is a node that only fades, such as a bar label.
type fader struct {
	node *Node
}

func (f fader) Node() *Node { return f.node }

func (f fader) Morph() Morph {
	return Morph{
		Fields:   []*float64{&f.node.Alpha},
		Baseline: []float64{0},
		Final:    []float64{1},
	}
}

// DetailView is the bar chart of one country: one stacked bar per event when
// an event list exists, otherwise one bar each for military and civilian
// totals. Holding the back label returns to the overview.
type DetailView struct {
	record CasualtyRecord
	events []EventRecord
	color  Color
	cfg    ViewConfig
	onBack func()

	surface  *Surface
	segments []*segment
	faders   []Shape
	back     *Node
	ticks    []*Node
	chart    Rect
}

// NewDetailView creates an unmounted detail view for record. events may be
// empty. color is the record's overview color.
func NewDetailView(record CasualtyRecord, events []EventRecord, color Color, cfg ViewConfig, onBack func()) *DetailView {
	return &DetailView{
		record: record,
		events: events,
		color:  color,
		cfg:    cfg,
		onBack: onBack,
	}
}

// Name implements View.
func (v *DetailView) Name() string { return "detail" }

// Country returns the country the view shows.
func (v *DetailView) Country() string { return v.record.Country }

// Captions implements View.
func (v *DetailView) Captions() (string, string) {
	return DetailTitlePrefix + v.record.Country, DetailSubtitle
}

// Stacked reports whether the view shows per-event stacked bars.
func (v *DetailView) Stacked() bool {
	return len(v.events) > 0
}

// BackPoint returns a screen point on the back label.
func (v *DetailView) BackPoint() (Vec2, bool) {
	if v.back == nil || v.back.IsDisposed() {
		return Vec2{}, false
	}
	w, h := v.back.TextBlock.Measure()
	return Vec2{X: v.back.X + w/2, Y: v.back.Y + h/2}, true
}

// SegmentRects returns the laid-out screen rect of every segment, in bar
// order, bottom layer first.
func (v *DetailView) SegmentRects() []Rect {
	out := make([]Rect, len(v.segments))
	for i, s := range v.segments {
		out[i] = Rect{X: s.node.X, Y: s.top, Width: s.node.ScaleX, Height: s.height}
	}
	return out
}

// Mount implements View. Bars start flat on the baseline until FadeIn.
func (v *DetailView) Mount(s *Surface) error {
	font := s.Font()
	if font == nil {
		return fmt.Errorf("warviz: detail %s: no font", v.record.Country)
	}
	vp := s.Scene().Viewport()
	area := Layout{Viewport: vp, Header: v.cfg.Header}.Chart()

	container := Rect{
		X:      area.X + detailMargin,
		Y:      area.Y + detailMargin,
		Width:  max(area.Width-2*detailMargin, 0),
		Height: max(area.Height-2*detailMargin, 0),
	}
	lh := font.LineHeight()
	v.chart = Rect{
		Width:  container.Width * barFill,
		Height: max(container.Height*barFill-lh-labelGap, 0),
	}
	v.chart.X = container.X + (container.Width-v.chart.Width)/2
	v.chart.Y = container.Y + (container.Height*barFill-v.chart.Height)/2 + lh

	var bars []Bar
	var labels []string
	var layers [][]float64
	if v.Stacked() {
		rows := make([][2]float64, len(v.events))
		for i, e := range v.events {
			rows[i] = [2]float64{e.MilitaryCasualties, e.CivilianCasualties}
			layers = append(layers, rows[i][:])
			labels = append(labels, e.Event)
		}
		bars = StackLayout(rows, Size{Width: v.chart.Width, Height: v.chart.Height}, StackOptions{})
	} else {
		values := []float64{v.record.MilitaryCasualties, v.record.CivilianCasualties}
		layers = [][]float64{values[:1], values[1:]}
		bars = BarLayout(values, Size{Width: v.chart.Width, Height: v.chart.Height}, 0)
		// Each aggregate bar is a single layer named after its category.
		bars[1].Segments[0].Layer = 1
		labels = []string{LayerName(0), LayerName(1)}
	}

	root := s.Reset("detail", GateConfig{
		HoldThreshold: v.cfg.HoldThreshold,
		TooltipOffset: v.cfg.TooltipOffset,
	})
	v.surface = s
	v.segments = v.segments[:0]
	v.faders = v.faders[:0]
	v.ticks = v.ticks[:0]

	baseline := v.chart.Y + v.chart.Height
	v.addAxis(root, font, ValueScale(layers, v.chart.Height))
	for i, b := range bars {
		for _, sg := range b.Segments {
			c := v.color
			if sg.Layer == 1 {
				c = c.Lighten(civilianLighten)
			}
			seg := &segment{
				label:    labels[i],
				layer:    sg.Layer,
				value:    sg.Value,
				total:    b.Total,
				color:    c,
				top:      v.chart.Y + sg.Y,
				height:   sg.Height,
				baseline: baseline,
			}
			seg.node = NewRect(fmt.Sprintf("bar-%d-%s", i, LayerName(sg.Layer)), sg.Width, 0, c)
			seg.node.SetPosition(v.chart.X+sg.X, baseline)
			root.AddChild(seg.node)
			v.segments = append(v.segments, seg)
			if !sg.Zero || v.cfg.ZeroSegmentsHoverable {
				v.trackSegment(s.Gate(), seg)
			}
		}

		label := NewText("label-"+labels[i], labels[i], font)
		w, _ := label.TextBlock.Measure()
		label.SetPosition(v.chart.X+b.X+(b.Width-w)/2, baseline+labelGap)
		label.Alpha = 0
		root.AddChild(label)
		v.faders = append(v.faders, fader{node: label})
	}

	v.back = NewText("back", BackLabel, font)
	v.back.SetPosition(container.X, container.Y)
	v.back.Alpha = 0
	root.AddChild(v.back)
	v.faders = append(v.faders, fader{node: v.back})
	s.Gate().Track(v.back, Binding{
		OnHover: func(_ PointerContext, tip *Tooltip) {
			tip.SetLines(BackLabel, backHint)
		},
		OnActivate: func(PointerContext) {
			if v.onBack != nil {
				v.onBack()
			}
		},
	})
	return nil
}

// addAxis draws the value axis along the left edge of the chart: a line, and
// a mark and label for each round value that fits. The axis fades as one
// unit. A zero scale leaves only the line.
func (v *DetailView) addAxis(root *Node, font Font, scale float64) {
	axis := NewContainer("y-axis")
	axis.Alpha = 0
	root.AddChild(axis)
	v.faders = append(v.faders, fader{node: axis})

	line := NewRect("y-axis-line", 1, v.chart.Height, axisColor)
	line.SetPosition(v.chart.X-1, v.chart.Y)
	axis.AddChild(line)
	if scale <= 0 {
		return
	}

	baseline := v.chart.Y + v.chart.Height
	lh := font.LineHeight()
	for _, t := range Ticks(0, v.chart.Height/scale, axisTicks) {
		y := baseline - t*scale
		mark := NewRect("y-tick", axisTickLength, 1, axisColor)
		mark.SetPosition(v.chart.X-1-axisTickLength, y)
		axis.AddChild(mark)

		text := humanize.Commaf(t)
		label := NewText("y-tick-"+text, text, font)
		label.TextBlock.Color = axisColor
		w, _ := label.TextBlock.Measure()
		label.SetPosition(v.chart.X-1-axisTickLength-labelGap-w, y-lh/2)
		axis.AddChild(label)
		v.ticks = append(v.ticks, label)
	}
}

// TickLabels returns the value axis labels from the baseline up.
func (v *DetailView) TickLabels() []string {
	out := make([]string, len(v.ticks))
	for i, t := range v.ticks {
		out[i] = t.TextBlock.Content
	}
	return out
}

func (v *DetailView) trackSegment(g *Gate, seg *segment) {
	g.Track(seg.node, Binding{
		OnHover: func(_ PointerContext, tip *Tooltip) {
			tip.SetLines(
				seg.label,
				LayerName(seg.layer)+" casualties: "+humanize.Comma(int64(seg.value)),
				"Total: "+humanize.Comma(int64(seg.total)),
			)
		},
		OnHighlight: func(PointerContext) {
			seg.node.Color = seg.color.Lighten(hoverLighten)
		},
		OnLeave: func(PointerContext) {
			seg.node.Color = seg.color
		},
	})
}

// FadeIn implements View: bars grow from the baseline, labels fade in.
func (v *DetailView) FadeIn(a *Animator, done func()) *AnimationHandle {
	return a.FadeInShapes("bars-in", v.shapes(), v.cfg.In, done)
}

// FadeOut implements View: bars shrink onto the baseline, labels fade out.
func (v *DetailView) FadeOut(a *Animator, done func()) *AnimationHandle {
	for _, s := range v.segments {
		s.node.Color = s.color
	}
	return a.FadeOutShapes("bars-out", v.shapes(), v.cfg.Out, done)
}

func (v *DetailView) shapes() []Shape {
	out := make([]Shape, 0, len(v.segments)+len(v.faders))
	for _, s := range v.segments {
		out = append(out, s)
	}
	return append(out, v.faders...)
}

// Teardown implements View.
func (v *DetailView) Teardown() {
	v.segments = nil
	v.faders = nil
	v.ticks = nil
	v.back = nil
	if v.surface != nil {
		v.surface.Teardown()
		v.surface = nil
	}
}
