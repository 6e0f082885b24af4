package warviz

import (
	"time"

	"github.com/tanema/gween/ease"
)

// Stagger describes the timing of one group transition. Element i starts
// i*Delay after the group starts (counted from the last element when Reverse
// is set) and runs for Duration. A zero Delay moves every element in unison.
type Stagger struct {
	Delay    time.Duration
	Duration time.Duration
	Ease     ease.TweenFunc
	Reverse  bool
}

// Total returns the wall-clock length of the group for n elements.
func (s Stagger) Total(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return s.Delay*time.Duration(n-1) + s.Duration
}

// start returns the offset at which element i of n begins.
func (s Stagger) start(i, n int) time.Duration {
	if s.Reverse {
		i = n - 1 - i
	}
	return s.Delay * time.Duration(i)
}

// DefaultTextStagger is the per-glyph timing of caption fades.
var DefaultTextStagger = Stagger{
	Delay:    35 * time.Millisecond,
	Duration: 35 * time.Millisecond,
	Ease:     ease.Linear,
}

type staggerElement struct {
	start time.Duration
	build func() *TweenGroup
	group *TweenGroup
}

// AnimationHandle is one in-flight staggered group. Its completion callback
// fires exactly once, after the last element's transition ends.
type AnimationHandle struct {
	Name string

	elements   []staggerElement
	elapsed    time.Duration
	total      time.Duration
	onComplete func()
	done       bool
	cancelled  bool
}

// Done reports whether the group has finished or was cancelled.
func (h *AnimationHandle) Done() bool {
	return h.done || h.cancelled
}

// Elapsed returns the time since the group started.
func (h *AnimationHandle) Elapsed() time.Duration {
	return h.elapsed
}

// Total returns the scheduled length of the group.
func (h *AnimationHandle) Total() time.Duration {
	return h.total
}

// Len returns the number of elements in the group.
func (h *AnimationHandle) Len() int {
	return len(h.elements)
}

// Cancel stops the group where it is. The completion callback never fires.
func (h *AnimationHandle) Cancel() {
	h.cancelled = true
}

// advance moves the group forward by dt and reports whether it is complete.
// Each element's tween is built when the element starts so that it picks up
// the field values present at that moment.
func (h *AnimationHandle) advance(dt time.Duration) bool {
	h.elapsed += dt
	for i := range h.elements {
		e := &h.elements[i]
		if h.elapsed < e.start {
			continue
		}
		if e.group == nil {
			e.group = e.build()
		}
		e.group.Seek(h.elapsed - e.start)
	}
	return h.elapsed >= h.total
}

// Animator runs AnimationHandles against the scene clock. It does not order
// groups; callers chain a new group from the previous group's completion.
type Animator struct {
	// TextStagger is the timing used by FadeInText and FadeOutText.
	TextStagger Stagger

	active []*AnimationHandle

	// finishing holds the groups whose callbacks Update is about to run, so
	// that CancelAll from one callback also silences the rest.
	finishing []*AnimationHandle
}

// NewAnimator creates an animator using DefaultTextStagger for captions.
func NewAnimator() *Animator {
	return &Animator{TextStagger: DefaultTextStagger}
}

// Active returns the number of groups in flight.
func (a *Animator) Active() int {
	return len(a.active)
}

// CancelAll cancels every in-flight group without firing callbacks. Groups
// that finished this frame but have not had their callback yet are cancelled
// too.
func (a *Animator) CancelAll() {
	for _, h := range a.active {
		h.cancelled = true
	}
	for _, h := range a.finishing {
		h.cancelled = true
	}
	clear(a.active)
	a.active = a.active[:0]
}

// Play schedules n elements. build(i) creates element i's tween at the moment
// it starts. With n == 0, onComplete runs before Play returns and the
// returned handle is already done.
func (a *Animator) Play(name string, n int, st Stagger, build func(i int) *TweenGroup, onComplete func()) *AnimationHandle {
	h := &AnimationHandle{
		Name:       name,
		total:      st.Total(n),
		onComplete: onComplete,
	}
	if n <= 0 {
		h.done = true
		if onComplete != nil {
			onComplete()
		}
		return h
	}
	h.elements = make([]staggerElement, n)
	for i := range h.elements {
		h.elements[i] = staggerElement{
			start: st.start(i, n),
			build: func() *TweenGroup { return build(i) },
		}
	}
	a.active = append(a.active, h)
	return h
}

// After runs fn once d has elapsed on the animator's clock.
func (a *Animator) After(name string, d time.Duration, fn func()) *AnimationHandle {
	return a.Play(name, 1, Stagger{Duration: d}, func(int) *TweenGroup {
		return NewTweenGroup(nil, nil, nil, d, nil)
	}, fn)
}

// Update advances every group by dt. Completion callbacks run after all
// groups have been advanced, so a callback that starts a new group never
// sees it advanced in the same frame.
func (a *Animator) Update(dt time.Duration) {
	if len(a.active) == 0 {
		return
	}

	var finished []*AnimationHandle
	kept := a.active[:0]
	for _, h := range a.active {
		if h.cancelled {
			continue
		}
		if h.advance(dt) {
			h.done = true
			finished = append(finished, h)
			continue
		}
		kept = append(kept, h)
	}
	clear(a.active[len(kept):])
	a.active = kept

	a.finishing = finished
	for _, h := range finished {
		if h.onComplete != nil && !h.cancelled {
			h.onComplete()
		}
	}
	a.finishing = nil
}

// --- Text ---

// FadeInText replaces the caption's text with one glyph unit per rune, each
// starting transparent, and fades them in left to right.
func (a *Animator) FadeInText(c *Caption, text string, onComplete func()) *AnimationHandle {
	glyphs := c.SetText(text)
	st := a.TextStagger
	st.Reverse = false
	return a.Play("text-in:"+c.Name(), len(glyphs), st, func(i int) *TweenGroup {
		return glyphFade(glyphs, i, 1, st)
	}, onComplete)
}

// FadeOutText fades the caption's glyph units out starting from the last one,
// then disposes all of them.
func (a *Animator) FadeOutText(c *Caption, onComplete func()) *AnimationHandle {
	glyphs := c.Glyphs()
	st := a.TextStagger
	st.Reverse = true
	return a.Play("text-out:"+c.Name(), len(glyphs), st, func(i int) *TweenGroup {
		return glyphFade(glyphs, i, 0, st)
	}, func() {
		c.Clear()
		if onComplete != nil {
			onComplete()
		}
	})
}

// glyphFade fades glyph i to alpha. A glyph that is gone or already disposed
// gets an empty group that finishes on its first step.
func glyphFade(glyphs []*Node, i int, alpha float64, st Stagger) *TweenGroup {
	if i >= len(glyphs) || glyphs[i] == nil || glyphs[i].IsDisposed() {
		return NewTweenGroup(nil, nil, nil, 0, nil)
	}
	return TweenAlpha(glyphs[i], alpha, st.Duration, st.Ease)
}

// --- Shapes ---

// Morph lists the animated fields of a shape with their neutral baseline and
// final values. Apply, when set, runs after every write.
type Morph struct {
	Fields   []*float64
	Baseline []float64
	Final    []float64
	Apply    func()
}

// Shape is an element that can be faded between a neutral baseline and its
// final geometry.
type Shape interface {
	Node() *Node
	Morph() Morph
}

// FadeInShapes puts every shape at its baseline immediately and then
// animates each to its final state using st. The caller picks stagger or
// unison through st.Delay.
func (a *Animator) FadeInShapes(name string, shapes []Shape, st Stagger, onComplete func()) *AnimationHandle {
	morphs := make([]Morph, len(shapes))
	for i, s := range shapes {
		m := s.Morph()
		morphs[i] = m
		for j, f := range m.Fields {
			*f = m.Baseline[j]
		}
		s.Node().MarkDirty()
		if m.Apply != nil {
			m.Apply()
		}
	}
	return a.Play(name, len(shapes), st, func(i int) *TweenGroup {
		return morphGroup(shapes[i].Node(), morphs[i], morphs[i].Final, st)
	}, onComplete)
}

// FadeOutShapes animates every shape from its current state back to its
// baseline. Shapes stay attached; the caller detaches them in onComplete.
func (a *Animator) FadeOutShapes(name string, shapes []Shape, st Stagger, onComplete func()) *AnimationHandle {
	return a.Play(name, len(shapes), st, func(i int) *TweenGroup {
		m := shapes[i].Morph()
		return morphGroup(shapes[i].Node(), m, m.Baseline, st)
	}, onComplete)
}

func morphGroup(n *Node, m Morph, to []float64, st Stagger) *TweenGroup {
	g := NewTweenGroup(n, m.Fields, to, st.Duration, st.Ease)
	g.OnStep = m.Apply
	return g
}
