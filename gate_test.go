package warviz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gateFixture struct {
	scene     *Scene
	tip       *Tooltip
	gate      *Gate
	box       *Node
	activated int
	hovered   int
	left      int
}

// newGateFixture tracks a 50x50 box at (100, 100) with a 300ms threshold.
func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	f := &gateFixture{scene: newTestScene()}
	f.tip = NewTooltip(fixedFont{}, 3, ColorWhite, ColorWhite)
	f.scene.Root().AddChild(f.tip.Node())
	f.gate = NewGate(f.scene, f.tip, GateConfig{HoldThreshold: 300 * time.Millisecond, TooltipOffset: Vec2{X: 10, Y: -28}})

	f.box = NewRect("box", 50, 50, ColorWhite)
	f.box.SetPosition(100, 100)
	f.scene.Root().AddChild(f.box)
	f.gate.Track(f.box, Binding{
		OnHover: func(_ PointerContext, tip *Tooltip) {
			f.hovered++
			tip.SetLines("box")
		},
		OnActivate: func(PointerContext) { f.activated++ },
		OnLeave:    func(PointerContext) { f.left++ },
	})
	return f
}

func TestGateTapOnlyUpdatesTooltip(t *testing.T) {
	f := newGateFixture(t)
	f.scene.InjectClick(125, 125)
	drainInput(f.scene)

	assert.Zero(t, f.activated)
	assert.Positive(t, f.hovered)
	assert.True(t, f.tip.Shown(), "a tap inside the tracked set keeps the tooltip")
	assert.Equal(t, []string{"box", "", ""}, f.tip.Lines())
}

func TestGateHoldActivates(t *testing.T) {
	f := newGateFixture(t)
	f.scene.InjectHold(125, 125, 31) // 310ms
	drainInput(f.scene)
	assert.Equal(t, 1, f.activated)
}

func TestGateHoldAtThresholdIsATap(t *testing.T) {
	f := newGateFixture(t)
	f.scene.InjectHold(125, 125, 30) // exactly 300ms
	drainInput(f.scene)
	assert.Zero(t, f.activated)
}

func TestGateHoldStopsPropagation(t *testing.T) {
	f := newGateFixture(t)
	ups := 0
	f.scene.OnPointerUp(func(PointerContext) { ups++ })

	f.scene.InjectHold(125, 125, 40)
	drainInput(f.scene)
	assert.Equal(t, 1, f.activated)
	assert.Zero(t, ups, "outer handlers never see an activating release")

	f.scene.InjectClick(125, 125)
	drainInput(f.scene)
	assert.Equal(t, 1, ups)
}

func TestGateLeaveHidesTooltip(t *testing.T) {
	f := newGateFixture(t)
	f.scene.InjectHover(125, 125)
	drainInput(f.scene)
	require.True(t, f.tip.Shown())

	f.scene.InjectHover(400, 400)
	drainInput(f.scene)
	assert.False(t, f.tip.Shown())
	assert.Equal(t, 1, f.left)
}

func TestGateTooltipFollowsPointer(t *testing.T) {
	f := newGateFixture(t)
	f.scene.InjectHover(110, 110)
	f.scene.InjectHover(140, 130)
	drainInput(f.scene)
	assert.Equal(t, Vec2{X: 150, Y: 102}, f.tip.Position())
}

func TestGateDismissOutside(t *testing.T) {
	f := newGateFixture(t)
	f.scene.InjectHover(125, 125)
	drainInput(f.scene)
	require.True(t, f.tip.Shown())

	f.gate.dismissOutside(PointerContext{Node: f.box})
	assert.True(t, f.tip.Shown(), "releases on tracked nodes do not dismiss")

	f.gate.dismissOutside(PointerContext{})
	assert.False(t, f.tip.Shown())
	assert.Equal(t, 1, f.left)
}

func TestGateDismissSeesNodesTrackedLater(t *testing.T) {
	f := newGateFixture(t)
	late := NewRect("late", 10, 10, ColorWhite)
	f.scene.Root().AddChild(late)
	f.gate.Track(late, Binding{})

	f.tip.Show()
	f.gate.dismissOutside(PointerContext{Node: late})
	assert.True(t, f.tip.Shown())
}

func TestGateSuspendIgnoresHold(t *testing.T) {
	f := newGateFixture(t)
	f.scene.InjectHover(125, 125)
	drainInput(f.scene)

	f.gate.Suspend()
	assert.True(t, f.gate.Suspended())
	assert.False(t, f.tip.Shown())

	f.scene.InjectHold(125, 125, 40)
	drainInput(f.scene)
	assert.Zero(t, f.activated)

	f.gate.Resume()
	f.scene.InjectHold(125, 125, 40)
	drainInput(f.scene)
	assert.Equal(t, 1, f.activated)
}

func TestGateCloseReleasesEverything(t *testing.T) {
	f := newGateFixture(t)
	assert.Equal(t, 1, f.scene.HandlerCount())
	assert.Equal(t, 1, f.gate.Bindings())

	f.gate.Close()
	f.gate.Close()
	assert.Zero(t, f.scene.HandlerCount())
	assert.Zero(t, f.gate.Bindings())
	assert.Nil(t, f.box.OnPointerUp)

	f.gate.Track(f.box, Binding{})
	assert.False(t, f.gate.Tracked(f.box), "closed gates ignore Track")
}
