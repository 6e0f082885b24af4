package warviz

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// maxTweenFields is the number of float64 fields one TweenGroup can drive.
const maxTweenFields = 4

// TweenGroup animates up to 4 float64 fields on a Node simultaneously.
// Create one with NewTweenGroup or TweenAlpha and call Update(dt) each frame,
// or hand it to an Animator. The group writes values into the fields and
// marks the node dirty. If the target node is disposed, the group stops
// immediately.
type TweenGroup struct {
	tweens   [maxTweenFields]*gween.Tween
	count    int
	fields   [maxTweenFields]*float64
	ends     [maxTweenFields]float64
	target   *Node
	duration time.Duration
	elapsed  time.Duration

	// OnStep runs after every write, e.g. to rebuild a mesh from the
	// tweened fields.
	OnStep func()

	Done bool
}

// NewTweenGroup animates each *fields[i] from its current value to to[i].
// Panics if more than 4 fields are given or the slices differ in length.
func NewTweenGroup(target *Node, fields []*float64, to []float64, duration time.Duration, fn ease.TweenFunc) *TweenGroup {
	if len(fields) != len(to) || len(fields) > maxTweenFields {
		panic("warviz: NewTweenGroup needs matching fields and targets, at most 4")
	}
	if fn == nil {
		fn = ease.Linear
	}
	g := &TweenGroup{count: len(fields), target: target, duration: duration}
	secs := float32(duration.Seconds())
	for i, f := range fields {
		g.tweens[i] = gween.New(float32(*f), float32(to[i]), secs, fn)
		g.fields[i] = f
		g.ends[i] = to[i]
	}
	return g
}

// Update advances all tweens by dt, writes values to the target fields,
// and marks the node dirty.
func (g *TweenGroup) Update(dt time.Duration) {
	g.Seek(g.elapsed + dt)
}

// Seek moves the group to an absolute offset from its start. Offsets at or
// past the duration land exactly on the target values, so a zero duration
// snaps immediately.
func (g *TweenGroup) Seek(t time.Duration) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	g.elapsed = t
	if g.duration <= 0 || t >= g.duration {
		for i := 0; i < g.count; i++ {
			*g.fields[i] = g.ends[i]
		}
		g.Done = true
	} else {
		secs := float32(t.Seconds())
		for i := 0; i < g.count; i++ {
			val, _ := g.tweens[i].Set(secs)
			*g.fields[i] = float64(val)
		}
	}

	if g.target != nil {
		g.target.MarkDirty()
	}
	if g.OnStep != nil {
		g.OnStep()
	}
}

// Duration returns the length of the tween.
func (g *TweenGroup) Duration() time.Duration {
	return g.duration
}

// TweenAlpha creates a TweenGroup that animates node.Alpha.
func TweenAlpha(node *Node, to float64, duration time.Duration, fn ease.TweenFunc) *TweenGroup {
	return NewTweenGroup(node, []*float64{&node.Alpha}, []float64{to}, duration, fn)
}
