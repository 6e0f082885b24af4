package warviz

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

const defaultCommandCap = 256

// Scene is the top-level object that owns the node tree, the animation clock,
// input state, and render buffers. All of its methods must be called from the
// game loop goroutine.
type Scene struct {
	root   *Node
	logger *zap.Logger
	debug  bool

	// ClearColor fills the screen before drawing when its alpha is non-zero.
	ClearColor Color

	clock    time.Duration
	viewport Size
	animator *Animator
	runner   *ScriptRunner

	// Render state
	commands []RenderCommand
	sortBuf  []RenderCommand

	// Input state
	handlers     handlerRegistry
	pointers     [maxPointers]pointerState
	hitBuf       []*Node
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	injectQueue  []syntheticPointerEvent
	liveInput    bool

	screenshotQueue []string
	screenshotDir   string
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	root := NewContainer("root")
	root.Interactable = true
	return &Scene{
		root:      root,
		logger:    zap.NewNop(),
		animator:  NewAnimator(),
		commands:  make([]RenderCommand, 0, defaultCommandCap),
		sortBuf:   make([]RenderCommand, 0, defaultCommandCap),
		liveInput: true,
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Animator returns the animator advanced by this scene's clock.
func (s *Scene) Animator() *Animator {
	return s.animator
}

// Clock returns the total time the scene has been stepped.
func (s *Scene) Clock() time.Duration {
	return s.clock
}

// Viewport returns the drawable area in pixels.
func (s *Scene) Viewport() Size {
	return s.viewport
}

// SetViewport sets the drawable area. The game's Layout calls this with the
// outside size so that views can size themselves.
func (s *Scene) SetViewport(width, height float64) {
	s.viewport = Size{Width: width, Height: height}
}

// Logger returns the scene logger. It is never nil.
func (s *Scene) Logger() *zap.Logger {
	return s.logger
}

// SetLogger replaces the scene logger. A nil logger installs a no-op logger.
func (s *Scene) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	s.logger = l
}

// SetLiveInput enables or disables reading the real mouse and touch devices.
// Injected events are processed either way.
func (s *Scene) SetLiveInput(enabled bool) {
	s.liveInput = enabled
}

// Update advances the scene by one tick at the current TPS.
func (s *Scene) Update() {
	s.Step(time.Second / time.Duration(ebiten.TPS()))
}

// Step advances the scene clock by dt, runs the attached script, dispatches
// input, and then advances animations. Completion callbacks fired by the
// animator therefore observe the input of the same frame.
func (s *Scene) Step(dt time.Duration) {
	s.clock += dt
	if s.runner != nil {
		s.runner.step(s)
	}

	// Refresh world transforms so hit testing sees nodes mounted last frame.
	updateWorldTransform(s.root, identityTransform, 1.0, false)

	s.processInput()
	s.animator.Update(dt)
}

// Draw traverses the scene tree, emits render commands, sorts them, and
// submits them to the given screen image.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}

	s.commands = s.commands[:0]

	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	treeOrder := 0
	s.traverse(s.root, identityTransform, 1.0, false, &treeOrder)

	if s.debug {
		stats.traverseTime = time.Since(t0)
		t0 = time.Now()
	}

	s.mergeSort()

	if s.debug {
		stats.sortTime = time.Since(t0)
		stats.commandCount = len(s.commands)
		stats.nodeCount = s.root.CountDescendants()
		t0 = time.Now()
	}

	s.submitCommands(screen)

	if s.debug {
		stats.submitTime = time.Since(t0)
		s.debugLog(stats)
	}

	s.flushScreenshots(screen)
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics and per-frame stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool
