package warviz

import (
	"errors"
	"math"
)

// ErrNoData is returned when a layout has no records to partition.
var ErrNoData = errors.New("warviz: no data")

// MinSegmentHeight is the smallest rendered height of a stacked segment, in
// pixels. Zero-valued segments keep this height so they stay hoverable.
const MinSegmentHeight = 1.0

// --- Pie ---

// Wedge is an angular pie-slice descriptor. Angles are in radians, measured
// clockwise from 12 o'clock, matching screen coordinates with Y down.
type Wedge struct {
	Index       int
	StartAngle  float64
	EndAngle    float64
	InnerRadius float64
	OuterRadius float64
}

// Span returns the angular extent of the wedge.
func (w Wedge) Span() float64 {
	return w.EndAngle - w.StartAngle
}

// Points returns the wedge outline as a polygon: the hub followed by points
// along the outer arc. segments is the number of arc segments a full circle
// would get; the wedge gets its proportional share, at least 2. A zero-span
// wedge has no outline.
func (w Wedge) Points(segments int) []Vec2 {
	span := w.Span()
	if span <= 0 || w.OuterRadius <= 0 {
		return nil
	}
	steps := max(int(math.Ceil(span/(2*math.Pi)*float64(segments))), 2)
	pts := make([]Vec2, 0, steps+2)
	pts = append(pts, Vec2{})
	for i := 0; i <= steps; i++ {
		a := w.StartAngle + span*float64(i)/float64(steps)
		pts = append(pts, arcPoint(a, w.OuterRadius))
	}
	return pts
}

// Centroid returns the point halfway along the wedge's bisector.
func (w Wedge) Centroid() Vec2 {
	return arcPoint((w.StartAngle+w.EndAngle)/2, (w.InnerRadius+w.OuterRadius)/2)
}

func arcPoint(angle, r float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{X: r * sin, Y: -r * cos}
}

// PieLayout partitions [0, 2π) among values in input order, proportionally
// to each value. Negative and NaN values count as zero. When every value is
// zero the first record takes the full circle and the rest get zero span.
// An empty input returns ErrNoData.
func PieLayout(values []float64, radius float64) ([]Wedge, error) {
	if len(values) == 0 {
		return nil, ErrNoData
	}

	var total float64
	for _, v := range values {
		total += nonNegative(v)
	}

	wedges := make([]Wedge, len(values))
	if total == 0 {
		for i := range wedges {
			end := 2 * math.Pi
			start := end
			if i == 0 {
				start = 0
			}
			wedges[i] = Wedge{Index: i, StartAngle: start, EndAngle: end, OuterRadius: radius}
		}
		return wedges, nil
	}

	var acc float64
	for i, v := range values {
		start := acc / total * 2 * math.Pi
		acc += nonNegative(v)
		end := acc / total * 2 * math.Pi
		if i == len(values)-1 {
			end = 2 * math.Pi
		}
		wedges[i] = Wedge{Index: i, StartAngle: start, EndAngle: end, OuterRadius: radius}
	}
	return wedges, nil
}

// HitWedge hit-tests a live wedge in the local space of a node placed at the
// pie center. It reads the wedge through a pointer so that hover growth and
// sweep animations are reflected.
type HitWedge struct {
	Wedge *Wedge
}

// Contains reports whether (x, y) lies inside the wedge.
func (h HitWedge) Contains(x, y float64) bool {
	w := h.Wedge
	if w == nil || w.Span() <= 0 {
		return false
	}
	r := math.Hypot(x, y)
	if r > w.OuterRadius || r < w.InnerRadius {
		return false
	}
	if w.Span() >= 2*math.Pi {
		return true
	}
	a := math.Atan2(x, -y)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a >= w.StartAngle && a < w.EndAngle
}

// --- Bars ---

// Segment is one layer of a bar. Y is the top edge, with Y growing downward
// and the baseline at the bottom of the layout area.
type Segment struct {
	Layer  int
	Value  float64
	X      float64
	Y      float64
	Width  float64
	Height float64

	// Zero marks a segment whose value is zero; its Height is the clamped
	// minimum rather than a scaled value.
	Zero bool
}

// Bar is one band of a bar or stacked-bar layout. Segments are ordered
// bottom to top.
type Bar struct {
	Index    int
	X        float64
	Width    float64
	Total    float64
	Segments []Segment
}

// Top returns the y of the bar's topmost edge.
func (b Bar) Top() float64 {
	if len(b.Segments) == 0 {
		return 0
	}
	return b.Segments[len(b.Segments)-1].Y
}

// StackOptions adjusts StackLayout.
type StackOptions struct {
	// Padding is the band padding as a fraction of the step, applied inside
	// and outside the bands. Zero means 0.1.
	Padding float64

	// CivilianBelow stacks layer 1 beneath layer 0.
	CivilianBelow bool
}

// StackLayout lays out one stacked bar per row inside dims. Row layer 0 is
// military and layer 1 civilian; military sits beneath unless
// opts.CivilianBelow is set. Heights share one linear scale fitted to the
// tallest stacked total. Segments whose scaled height would be zero or
// negative are clamped to MinSegmentHeight.
func StackLayout(rows [][2]float64, dims Size, opts StackOptions) []Bar {
	layers := make([][]float64, len(rows))
	for i, r := range rows {
		if opts.CivilianBelow {
			layers[i] = []float64{r[1], r[0]}
		} else {
			layers[i] = []float64{r[0], r[1]}
		}
	}
	bars := layoutBars(layers, dims, opts.Padding)
	if opts.CivilianBelow {
		for i := range bars {
			bars[i].Segments[0].Layer = 1
			bars[i].Segments[1].Layer = 0
		}
	}
	return bars
}

// BarLayout lays out one single-segment bar per value inside dims.
func BarLayout(values []float64, dims Size, padding float64) []Bar {
	layers := make([][]float64, len(values))
	for i, v := range values {
		layers[i] = []float64{v}
	}
	return layoutBars(layers, dims, padding)
}

// BandScale is a d3-style band scale: n bands across width with equal inner
// and outer padding, centered.
func BandScale(n int, width, padding float64) (x func(i int) float64, bandwidth float64) {
	if n <= 0 {
		return func(int) float64 { return 0 }, 0
	}
	step := width / max(1, float64(n)-padding+2*padding)
	offset := (width - step*(float64(n)-padding)) / 2
	return func(i int) float64 { return offset + float64(i)*step }, step * (1 - padding)
}

func layoutBars(layers [][]float64, dims Size, padding float64) []Bar {
	if len(layers) == 0 {
		return nil
	}
	if padding <= 0 {
		padding = 0.1
	}

	scale := ValueScale(layers, dims.Height)
	xOf, bw := BandScale(len(layers), dims.Width, padding)
	bars := make([]Bar, len(layers))
	for i, row := range layers {
		b := Bar{Index: i, X: xOf(i), Width: bw, Segments: make([]Segment, len(row))}
		y := dims.Height
		for j, v := range row {
			v = nonNegative(v)
			b.Total += v
			h := v * scale
			zero := false
			if h <= 0 {
				h = MinSegmentHeight
				zero = true
			}
			y -= h
			b.Segments[j] = Segment{
				Layer:  j,
				Value:  v,
				X:      b.X,
				Y:      y,
				Width:  bw,
				Height: h,
				Zero:   zero,
			}
		}
		bars[i] = b
	}
	return bars
}

// ValueScale returns the pixels per unit that fit every stack of layers in
// height, counting MinSegmentHeight for each zero or negative layer. It is
// zero when no layer has a positive value.
func ValueScale(layers [][]float64, height float64) float64 {
	scale := math.Inf(1)
	for _, row := range layers {
		var sum float64
		zeros := 0
		for _, v := range row {
			if v > 0 {
				sum += v
			} else {
				zeros++
			}
		}
		if sum <= 0 {
			continue
		}
		scale = min(scale, max(height-float64(zeros)*MinSegmentHeight, 0)/sum)
	}
	if math.IsInf(scale, 1) {
		return 0
	}
	return scale
}

// Ticks returns about count round values covering [start, stop], spaced by
// 1, 2 or 5 times a power of ten, as d3's ticks does.
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || !(stop > start) {
		if count > 0 && start == stop {
			return []float64{start}
		}
		return nil
	}
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	factor := 1.0
	switch e := step / math.Pow(10, power); {
	case e >= math.Sqrt(50):
		factor = 10
	case e >= math.Sqrt(10):
		factor = 5
	case e >= math.Sqrt(2):
		factor = 2
	}
	unit := factor * math.Pow(10, power)
	first, last := math.Ceil(start/unit), math.Floor(stop/unit)
	at := func(i float64) float64 { return i * unit }
	if power < 0 {
		// Divide by an integer so that fractional ticks stay exact.
		inv := math.Pow(10, -power) / factor
		first, last = math.Ceil(start*inv), math.Floor(stop*inv)
		at = func(i float64) float64 { return i / inv }
	}
	if last < first {
		return nil
	}
	out := make([]float64, 0, int(last-first)+1)
	for i := first; i <= last; i++ {
		out = append(out, at(i))
	}
	return out
}

func nonNegative(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}
