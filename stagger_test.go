package warviz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"
)

func alphaNodes(n int) []*Node {
	out := make([]*Node, n)
	for i := range out {
		out[i] = NewContainer("n")
		out[i].Alpha = 0
	}
	return out
}

func TestStaggerTotal(t *testing.T) {
	st := Stagger{Delay: 35 * time.Millisecond, Duration: 100 * time.Millisecond}
	assert.Equal(t, time.Duration(0), st.Total(0))
	assert.Equal(t, 100*time.Millisecond, st.Total(1))
	assert.Equal(t, 35*9*time.Millisecond+100*time.Millisecond, st.Total(10))

	unison := Stagger{Duration: 2300 * time.Millisecond}
	assert.Equal(t, 2300*time.Millisecond, unison.Total(25))
}

func TestPlayEmptyFiresSynchronously(t *testing.T) {
	a := NewAnimator()
	calls := 0
	h := a.Play("empty", 0, DefaultTextStagger, nil, func() { calls++ })

	assert.Equal(t, 1, calls, "completion must fire before Play returns")
	assert.True(t, h.Done())
	assert.Equal(t, 0, a.Active())

	a.Update(time.Second)
	assert.Equal(t, 1, calls)
}

func TestPlayCompletesOnceAtTotal(t *testing.T) {
	for _, n := range []int{1, 2, 7, 40} {
		a := NewAnimator()
		nodes := alphaNodes(n)
		st := Stagger{Delay: 30 * time.Millisecond, Duration: 50 * time.Millisecond, Ease: ease.Linear}

		calls := 0
		var firedAt time.Duration
		var clock time.Duration
		a.Play("group", n, st, func(i int) *TweenGroup {
			return TweenAlpha(nodes[i], 1, st.Duration, st.Ease)
		}, func() {
			calls++
			firedAt = clock
		})

		for clock < st.Total(n)+200*time.Millisecond {
			clock += testFrame
			a.Update(testFrame)
		}

		require.Equal(t, 1, calls, "n=%d", n)
		assert.InDelta(t, float64(st.Total(n)), float64(firedAt), float64(testFrame), "n=%d", n)
		for i, nd := range nodes {
			assert.Equal(t, 1.0, nd.Alpha, "n=%d node %d", n, i)
		}
		assert.Equal(t, 0, a.Active())
	}
}

func TestPlayElementStartOrder(t *testing.T) {
	a := NewAnimator()
	nodes := alphaNodes(3)
	st := Stagger{Delay: 100 * time.Millisecond, Duration: 100 * time.Millisecond}
	a.Play("ordered", 3, st, func(i int) *TweenGroup {
		return TweenAlpha(nodes[i], 1, st.Duration, ease.Linear)
	}, nil)

	a.Update(150 * time.Millisecond)
	assert.Equal(t, 1.0, nodes[0].Alpha)
	assert.InDelta(t, 0.5, nodes[1].Alpha, 1e-3)
	assert.Equal(t, 0.0, nodes[2].Alpha, "third element has not started")
}

func TestPlayReverse(t *testing.T) {
	a := NewAnimator()
	nodes := alphaNodes(3)
	st := Stagger{Delay: 100 * time.Millisecond, Duration: 100 * time.Millisecond, Reverse: true}
	a.Play("reversed", 3, st, func(i int) *TweenGroup {
		return TweenAlpha(nodes[i], 1, st.Duration, ease.Linear)
	}, nil)

	a.Update(100 * time.Millisecond)
	assert.Equal(t, 1.0, nodes[2].Alpha, "last element goes first")
	assert.Equal(t, 0.0, nodes[0].Alpha)
}

func TestCompletionStartsNextGroupWithoutAdvancingIt(t *testing.T) {
	a := NewAnimator()
	first := alphaNodes(1)
	second := alphaNodes(1)
	d := 50 * time.Millisecond

	a.Play("first", 1, Stagger{Duration: d}, func(int) *TweenGroup {
		return TweenAlpha(first[0], 1, d, ease.Linear)
	}, func() {
		a.Play("second", 1, Stagger{Duration: d}, func(int) *TweenGroup {
			return TweenAlpha(second[0], 1, d, ease.Linear)
		}, nil)
	})

	a.Update(d)
	assert.Equal(t, 1.0, first[0].Alpha)
	assert.Equal(t, 0.0, second[0].Alpha)
	assert.Equal(t, 1, a.Active())
}

func TestCancelSuppressesCompletion(t *testing.T) {
	a := NewAnimator()
	calls := 0
	h := a.After("wait", 100*time.Millisecond, func() { calls++ })
	a.Update(50 * time.Millisecond)
	h.Cancel()
	a.Update(time.Second)
	assert.Zero(t, calls)
	assert.True(t, h.Done())

	a.After("a", 10*time.Millisecond, func() { calls++ })
	a.After("b", 10*time.Millisecond, func() { calls++ })
	a.CancelAll()
	a.Update(time.Second)
	assert.Zero(t, calls)
	assert.Zero(t, a.Active())
}

func TestCancelAllFromCompletionSilencesSameFrameGroups(t *testing.T) {
	a := NewAnimator()
	var fired []string
	a.After("first", 10*time.Millisecond, func() {
		fired = append(fired, "first")
		a.CancelAll()
	})
	a.After("second", 10*time.Millisecond, func() { fired = append(fired, "second") })

	a.Update(10 * time.Millisecond)
	assert.Equal(t, []string{"first"}, fired)

	a.Update(time.Second)
	assert.Equal(t, []string{"first"}, fired)
	assert.Zero(t, a.Active())
}

func TestAfter(t *testing.T) {
	a := NewAnimator()
	calls := 0
	h := a.After("later", 100*time.Millisecond, func() { calls++ })
	a.Update(90 * time.Millisecond)
	assert.Zero(t, calls)
	a.Update(10 * time.Millisecond)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 100*time.Millisecond, h.Elapsed())
	assert.Equal(t, 100*time.Millisecond, h.Total())
}

func TestFadeInText(t *testing.T) {
	a := NewAnimator()
	c := NewCaption("title", fixedFont{}, ColorWhite)
	calls := 0
	h := a.FadeInText(c, "Hello", func() { calls++ })

	require.Len(t, c.Glyphs(), 5)
	assert.Equal(t, 5, h.Len())
	for _, g := range c.Glyphs() {
		assert.Equal(t, 0.0, g.Alpha)
	}

	a.Update(DefaultTextStagger.Total(5) - time.Millisecond)
	assert.Zero(t, calls)
	a.Update(time.Millisecond)
	assert.Equal(t, 1, calls)
	for _, g := range c.Glyphs() {
		assert.Equal(t, 1.0, g.Alpha)
	}
	assert.Equal(t, "Hello", c.Text())
}

func TestFadeOutTextRemovesGlyphs(t *testing.T) {
	a := NewAnimator()
	c := NewCaption("title", fixedFont{}, ColorWhite)
	a.FadeInText(c, "abc", nil)
	a.Update(time.Second)
	glyphs := append([]*Node(nil), c.Glyphs()...)

	calls := 0
	a.FadeOutText(c, func() { calls++ })
	a.Update(DefaultTextStagger.Delay)
	assert.Equal(t, 0.0, glyphs[2].Alpha, "last glyph fades first")
	assert.Equal(t, 1.0, glyphs[0].Alpha)

	a.Update(time.Second)
	assert.Equal(t, 1, calls)
	assert.Empty(t, c.Glyphs())
	assert.Zero(t, c.Node().NumChildren())
	for _, g := range glyphs {
		assert.True(t, g.IsDisposed())
	}
}

func TestFadeOutTextEmptyCaption(t *testing.T) {
	a := NewAnimator()
	c := NewCaption("title", fixedFont{}, ColorWhite)
	calls := 0
	a.FadeOutText(c, func() { calls++ })
	assert.Equal(t, 1, calls)
}

func TestFadeInTextSurvivesClear(t *testing.T) {
	a := NewAnimator()
	c := NewCaption("subtitle", fixedFont{}, ColorWhite)
	calls := 0
	h := a.FadeInText(c, "abcd", func() { calls++ })
	a.Update(40 * time.Millisecond)

	c.Clear()
	next := c.SetText("xy")
	require.Len(t, next, 2)

	require.NotPanics(t, func() { a.Update(time.Second) })
	assert.True(t, h.Done())
	assert.Equal(t, 1, calls)
	for i, g := range next {
		assert.Equal(t, 0.0, g.Alpha, "glyph %d of the new text is left alone", i)
	}
}

type testShape struct {
	node *Node
}

func (s testShape) Node() *Node { return s.node }

func (s testShape) Morph() Morph {
	return Morph{
		Fields:   []*float64{&s.node.ScaleY, &s.node.Alpha},
		Baseline: []float64{0, 0},
		Final:    []float64{40, 1},
	}
}

func TestFadeInShapesStartsFromBaseline(t *testing.T) {
	a := NewAnimator()
	shapes := []Shape{testShape{NewRect("a", 10, 40, ColorWhite)}, testShape{NewRect("b", 10, 40, ColorWhite)}}
	st := Stagger{Duration: 100 * time.Millisecond, Ease: ease.Linear}

	done := 0
	a.FadeInShapes("in", shapes, st, func() { done++ })
	for _, s := range shapes {
		assert.Equal(t, 0.0, s.Node().ScaleY, "baseline applied at once")
		assert.Equal(t, 0.0, s.Node().Alpha)
	}

	a.Update(50 * time.Millisecond)
	for _, s := range shapes {
		assert.InDelta(t, 20, s.Node().ScaleY, 1e-3, "unison: every shape halfway")
	}

	a.Update(50 * time.Millisecond)
	assert.Equal(t, 1, done)
	for _, s := range shapes {
		assert.Equal(t, 40.0, s.Node().ScaleY)
		assert.Equal(t, 1.0, s.Node().Alpha)
	}

	a.FadeOutShapes("out", shapes, st, func() { done++ })
	a.Update(100 * time.Millisecond)
	assert.Equal(t, 2, done)
	for _, s := range shapes {
		assert.Equal(t, 0.0, s.Node().ScaleY)
		assert.False(t, s.Node().IsDisposed(), "shapes stay attached")
	}
}
