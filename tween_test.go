package warviz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tanema/gween/ease"
)

func TestTweenGroupReachesEnd(t *testing.T) {
	n := NewContainer("n")
	g := NewTweenGroup(n, []*float64{&n.X, &n.Y}, []float64{100, 50}, 200*time.Millisecond, ease.InOutCubic)

	g.Update(100 * time.Millisecond)
	assert.False(t, g.Done)
	assert.InDelta(t, 50, n.X, 1e-3, "cubic in-out is halfway at the midpoint")

	g.Update(100 * time.Millisecond)
	assert.True(t, g.Done)
	assert.Equal(t, 100.0, n.X)
	assert.Equal(t, 50.0, n.Y)
}

func TestTweenGroupZeroDurationSnaps(t *testing.T) {
	n := NewContainer("n")
	g := NewTweenGroup(n, []*float64{&n.ScaleX, &n.ScaleY}, []float64{3, 4}, 0, nil)
	g.Update(0)
	assert.True(t, g.Done)
	assert.Equal(t, 3.0, n.ScaleX)
	assert.Equal(t, 4.0, n.ScaleY)
}

func TestTweenGroupSeekIsAbsolute(t *testing.T) {
	n := NewContainer("n")
	g := TweenAlpha(n, 0, 100*time.Millisecond, ease.Linear)
	g.Seek(75 * time.Millisecond)
	assert.InDelta(t, 0.25, n.Alpha, 1e-3)
	g.Seek(25 * time.Millisecond)
	assert.InDelta(t, 0.75, n.Alpha, 1e-3)
}

func TestTweenGroupStopsOnDisposedTarget(t *testing.T) {
	n := NewContainer("n")
	g := NewTweenGroup(n, []*float64{&n.X}, []float64{100}, time.Second, ease.Linear)
	n.Dispose()
	g.Update(500 * time.Millisecond)
	assert.True(t, g.Done)
	assert.Equal(t, 0.0, n.X)
}

func TestTweenGroupOnStep(t *testing.T) {
	n := NewContainer("n")
	g := NewTweenGroup(n, []*float64{&n.Color.R, &n.Color.G, &n.Color.B}, []float64{0, 0, 0}, 100*time.Millisecond, ease.Linear)
	steps := 0
	g.OnStep = func() { steps++ }
	g.Update(50 * time.Millisecond)
	g.Update(50 * time.Millisecond)
	g.Update(50 * time.Millisecond)
	assert.Equal(t, 2, steps, "no writes after done")
	assert.Equal(t, Color{0, 0, 0, 1}, n.Color)
}

func TestNewTweenGroupPanicsOnMismatch(t *testing.T) {
	n := NewContainer("n")
	assert.Panics(t, func() {
		NewTweenGroup(n, []*float64{&n.X}, []float64{1, 2}, time.Second, nil)
	})
	assert.Panics(t, func() {
		NewTweenGroup(n, []*float64{&n.X, &n.Y, &n.ScaleX, &n.ScaleY, &n.Alpha}, []float64{1, 2, 3, 4, 5}, time.Second, nil)
	})
}
