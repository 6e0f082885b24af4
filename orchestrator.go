package warviz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// ViewState is which chart is shown, or which way the screen is moving.
type ViewState uint8

const (
	StateOverview ViewState = iota
	StateTransitioningToDetail
	StateDetail
	StateTransitioningToOverview
)

func (s ViewState) String() string {
	switch s {
	case StateOverview:
		return "Overview"
	case StateTransitioningToDetail:
		return "TransitioningToDetail"
	case StateDetail:
		return "Detail"
	case StateTransitioningToOverview:
		return "TransitioningToOverview"
	}
	return fmt.Sprintf("ViewState(%d)", uint8(s))
}

var (
	// ErrMissingRecord is returned when an activation names a country that is
	// not in the dataset.
	ErrMissingRecord = errors.New("warviz: no such record")

	// ErrBadTransition is returned when an operation is not allowed in the
	// current state, including every activation during a transition.
	ErrBadTransition = errors.New("warviz: transition not allowed")
)

// OrchestratorConfig holds every timing and style knob of the choreography.
type OrchestratorConfig struct {
	// Header is the height reserved for the captions.
	Header float64

	OverviewHold  time.Duration
	DetailHold    time.Duration
	HoverDuration time.Duration
	TooltipOffset Vec2

	TextStagger Stagger
	PieIn       Stagger
	PieOut      Stagger
	BarIn       Stagger
	BarOut      Stagger

	ZeroSegmentsHoverable bool

	// LoadTimeout bounds one detail dataset load.
	LoadTimeout time.Duration

	NoticeHold time.Duration
	NoticeFade time.Duration

	CaptionColor      Color
	NoticeColor       Color
	TooltipBackground Color
	TooltipText       Color
}

// DefaultOrchestratorConfig returns the stock timings.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		Header:        80,
		OverviewHold:  300 * time.Millisecond,
		DetailHold:    400 * time.Millisecond,
		HoverDuration: 200 * time.Millisecond,
		TooltipOffset: Vec2{X: 10, Y: -28},

		TextStagger: DefaultTextStagger,
		PieIn:       Stagger{Delay: 100 * time.Millisecond, Duration: 750 * time.Millisecond, Ease: ease.InOutCubic},
		PieOut:      Stagger{Duration: 750 * time.Millisecond, Ease: ease.InOutCubic},
		BarIn:       Stagger{Duration: 2300 * time.Millisecond, Ease: ease.InOutCubic},
		BarOut:      Stagger{Duration: 2300 * time.Millisecond, Ease: ease.InOutCubic},

		ZeroSegmentsHoverable: true,
		LoadTimeout:           2 * time.Second,
		NoticeHold:            2 * time.Second,
		NoticeFade:            400 * time.Millisecond,

		CaptionColor:      Color{0.1, 0.1, 0.1, 1},
		NoticeColor:       Color{0.75, 0.1, 0.1, 1},
		TooltipBackground: Color{1, 1, 1, 0.92},
		TooltipText:       Color{0.1, 0.1, 0.1, 1},
	}
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default is the scene's logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDetailSource sets where per-country event lists come from. Without one
// every detail view shows aggregate bars.
func WithDetailSource(src DetailSource) Option {
	return func(o *Orchestrator) { o.source = src }
}

// WithPalette sets the color provider.
func WithPalette(p *Palette) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.palette = p
		}
	}
}

// WithFonts sets the body font (tooltips, labels, notices) and the caption
// font.
func WithFonts(body, caption Font) Option {
	return func(o *Orchestrator) {
		o.font = body
		o.captionFont = caption
	}
}

// Orchestrator owns the view state and the mounted view, and runs the
// transitions between the overview and a country's detail. All methods must
// be called from the game loop.
type Orchestrator struct {
	scene       *Scene
	cfg         OrchestratorConfig
	logger      *zap.Logger
	source      DetailSource
	palette     *Palette
	font        Font
	captionFont Font

	title    *Caption
	subtitle *Caption
	notice   *Notice
	surface  *Surface

	data    Dataset
	pending *Dataset
	state   ViewState
	view    View
	seq     *Sequence
	started bool
}

// NewOrchestrator creates an orchestrator over scene and adds the caption
// and notice nodes to it. No view is mounted until Start.
func NewOrchestrator(scene *Scene, cfg OrchestratorConfig, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		scene:   scene,
		cfg:     cfg,
		logger:  scene.Logger(),
		palette: NewPalette(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.font == nil {
		f, err := DefaultFont(14)
		if err != nil {
			return nil, fmt.Errorf("warviz: body font: %w", err)
		}
		o.font = f
	}
	if o.captionFont == nil {
		if ttf, ok := o.font.(*TTFFont); ok {
			o.captionFont = ttf.WithSize(26)
		} else {
			o.captionFont = o.font
		}
	}

	scene.Animator().TextStagger = cfg.TextStagger

	o.title = NewCaption("title", o.captionFont, cfg.CaptionColor)
	o.subtitle = NewCaption("subtitle", o.font, cfg.CaptionColor)
	o.title.Node().SetPosition(0, 10)
	o.subtitle.Node().SetPosition(0, 10+o.captionFont.LineHeight()+6)
	scene.Root().AddChild(o.title.Node())
	scene.Root().AddChild(o.subtitle.Node())

	o.notice = NewNotice(o.font, cfg.NoticeColor, scene.Animator(), cfg.NoticeHold, cfg.NoticeFade)
	scene.Root().AddChild(o.notice.Node())

	o.surface = NewSurface(scene, o.title, o.subtitle, o.font, SurfaceStyle{
		TooltipBackground: cfg.TooltipBackground,
		TooltipText:       cfg.TooltipText,
	})
	return o, nil
}

// State returns the current view state.
func (o *Orchestrator) State() ViewState { return o.state }

// View returns the mounted view, or nil.
func (o *Orchestrator) View() View { return o.view }

// Surface returns the surface views mount on.
func (o *Orchestrator) Surface() *Surface { return o.surface }

// Title returns the title caption.
func (o *Orchestrator) Title() *Caption { return o.title }

// Subtitle returns the subtitle caption.
func (o *Orchestrator) Subtitle() *Caption { return o.subtitle }

// Notice returns the notice line.
func (o *Orchestrator) Notice() *Notice { return o.notice }

// Dataset returns the dataset the overview is built from.
func (o *Orchestrator) Dataset() Dataset { return o.data }

// Busy reports whether a transition or an overview fade-in is running.
func (o *Orchestrator) Busy() bool {
	return o.seq != nil && !o.seq.Done()
}

// Start mounts the overview for data and fades it in. Gestures are ignored
// until the fade completes.
func (o *Orchestrator) Start(data Dataset) error {
	if o.started {
		return fmt.Errorf("warviz: start: %w", ErrBadTransition)
	}
	o.started = true
	o.data = data
	o.registerColors()

	ov := o.newOverview()
	if err := o.mount(ov); err != nil {
		return err
	}
	o.state = StateOverview
	o.settle("start", ov)
	return nil
}

// Activate starts the transition to country's detail. It is refused outside
// the Overview state. A missing record or a detail load failure leaves the
// overview mounted; a load failure also shows a notice.
func (o *Orchestrator) Activate(country string) error {
	if o.state != StateOverview || o.Busy() {
		o.logger.Debug("activation ignored", zap.String("country", country), zap.Stringer("state", o.state))
		return fmt.Errorf("warviz: activate %q in %s: %w", country, o.state, ErrBadTransition)
	}
	rec, ok := o.data.Lookup(country)
	if !ok {
		o.logger.Warn("activation for unknown country", zap.String("country", country))
		return fmt.Errorf("warviz: activate %q: %w", country, ErrMissingRecord)
	}

	events, err := o.loadEvents(country)
	if err != nil {
		o.logger.Warn("detail load failed", zap.String("country", country), zap.Error(err))
		o.showNotice("Could not load details for " + country)
		return err
	}

	next := NewDetailView(rec, events, o.palette.Color(ColorKey(rec)), o.detailConfig(), o.onBack)
	o.transition(StateTransitioningToDetail, StateDetail, next)
	return nil
}

// Back starts the transition from the detail to the overview.
func (o *Orchestrator) Back() error {
	if o.state != StateDetail || o.Busy() {
		o.logger.Debug("back ignored", zap.Stringer("state", o.state))
		return fmt.Errorf("warviz: back in %s: %w", o.state, ErrBadTransition)
	}
	o.applyPending()
	o.transition(StateTransitioningToOverview, StateOverview, o.newOverview())
	return nil
}

// Reload replaces the dataset. In a settled overview the pie is rebuilt at
// once. During a fade-in the rebuild waits for it to finish; in the detail
// the new data is used the next time the overview is mounted.
func (o *Orchestrator) Reload(data Dataset) {
	o.pending = &data
	if o.state != StateOverview || o.Busy() || !o.started {
		o.logger.Debug("reload deferred", zap.Stringer("state", o.state))
		return
	}
	o.applyPending()

	if o.view != nil {
		o.view.Teardown()
		o.view = nil
	}
	ov := o.newOverview()
	if err := o.mount(ov); err != nil {
		o.logger.Error("reload mount failed", zap.Error(err))
		return
	}
	o.settle("reload", ov)
	o.logger.Info("dataset reloaded", zap.Int("records", len(o.data.Records)))
}

// reloadPending rebuilds the overview from a reload that arrived while it
// was busy.
func (o *Orchestrator) reloadPending() {
	if o.pending == nil || o.state != StateOverview {
		return
	}
	o.Reload(*o.pending)
}

func (o *Orchestrator) applyPending() {
	if o.pending == nil {
		return
	}
	o.data = *o.pending
	o.pending = nil
	o.registerColors()
}

// registerColors assigns palette colors in dataset order.
func (o *Orchestrator) registerColors() {
	for _, r := range o.data.Records {
		o.palette.Color(ColorKey(r))
	}
}

func (o *Orchestrator) loadEvents(country string) ([]EventRecord, error) {
	if o.source == nil {
		return nil, nil
	}
	ctx := context.Background()
	if o.cfg.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.LoadTimeout)
		defer cancel()
	}
	events, err := o.source.Events(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("warviz: load details: %w", err)
	}
	return events, nil
}

// transition runs the out and in choreography from the mounted view to next.
// The outgoing gate is suspended for the whole transition; the incoming gate
// is suspended until the fade-in completes.
func (o *Orchestrator) transition(via, to ViewState, next View) {
	from := o.state
	o.state = via
	if g := o.surface.Gate(); g != nil {
		g.Suspend()
	}
	a := o.scene.Animator()
	prev := o.view

	o.logger.Info("transition",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.String("view", next.Name()))

	o.seq = NewSequence(fmt.Sprintf("%s->%s", from, to), o.logger).
		Then("captions-out", func(done func(), _ func(error)) {
			a.FadeOutText(o.subtitle, func() {
				a.FadeOutText(o.title, done)
			})
		}).
		Then("shapes-out", func(done func(), _ func(error)) {
			if prev == nil {
				done()
				return
			}
			prev.FadeOut(a, done)
		}).
		Then("teardown", func(done func(), _ func(error)) {
			if prev != nil {
				prev.Teardown()
			}
			o.view = nil
			done()
		}).
		Then("mount", func(done func(), fail func(error)) {
			if err := o.mount(next); err != nil {
				fail(err)
				return
			}
			o.surface.Gate().Suspend()
			done()
		}).
		Then("fade-in", func(done func(), _ func(error)) {
			o.fadeIn(next, done)
		}).
		OnComplete(func() {
			o.state = to
			o.surface.Gate().Resume()
			o.logger.Debug("transition complete", zap.Stringer("state", to))
			o.reloadPending()
		}).
		OnFailure(o.recoverFrom)
	o.seq.Start()
}

// settle fades in an overview that was mounted outside a transition. The
// gate stays suspended and Busy reports true until the fade completes.
func (o *Orchestrator) settle(name string, v View) {
	o.surface.Gate().Suspend()
	o.seq = NewSequence(name, o.logger).
		Then("fade-in", func(done func(), _ func(error)) {
			o.fadeIn(v, done)
		}).
		OnComplete(func() {
			o.surface.Gate().Resume()
			o.logger.Debug("overview ready", zap.String("after", name), zap.Int("records", len(o.data.Records)))
			o.reloadPending()
		}).
		OnFailure(func(err error) {
			o.logger.Error("overview fade-in failed", zap.Error(err))
			o.surface.Gate().Resume()
		})
	o.seq.Start()
}

// mount resets the caption widths and mounts v on the surface.
func (o *Orchestrator) mount(v View) error {
	vp := o.scene.Viewport()
	o.title.SetWidth(vp.Width)
	o.subtitle.SetWidth(vp.Width)
	if err := v.Mount(o.surface); err != nil {
		o.surface.Teardown()
		return fmt.Errorf("warviz: mount %s: %w", v.Name(), err)
	}
	o.view = v
	return nil
}

// fadeIn runs the caption chain (title then subtitle) alongside the shapes;
// done fires when both have finished.
func (o *Orchestrator) fadeIn(v View, done func()) {
	if done == nil {
		done = func() {}
	}
	a := o.scene.Animator()
	join := Join(2, done)
	title, subtitle := v.Captions()
	a.FadeInText(o.title, title, func() {
		a.FadeInText(o.subtitle, subtitle, join)
	})
	v.FadeIn(a, join)
}

// recoverFrom puts the screen back in a terminal state after a failed
// transition: everything in flight is cancelled, whatever is mounted is torn
// down, and a fresh overview is mounted.
func (o *Orchestrator) recoverFrom(err error) {
	o.logger.Error("transition failed, restoring overview", zap.Error(err))
	o.scene.Animator().CancelAll()
	if o.view != nil {
		o.view.Teardown()
		o.view = nil
	}
	o.surface.Teardown()
	o.applyPending()

	o.state = StateOverview
	ov := o.newOverview()
	if merr := o.mount(ov); merr != nil {
		o.logger.Error("overview mount failed", zap.Error(merr))
	} else {
		o.settle("recover", ov)
	}
	o.showNotice("Something went wrong, back to the overview")
}

func (o *Orchestrator) showNotice(msg string) {
	vp := o.scene.Viewport()
	o.notice.Show(msg, vp.Width, max(vp.Height-o.font.LineHeight()-10, 0))
}

func (o *Orchestrator) newOverview() *OverviewView {
	return NewOverviewView(o.data, o.palette, o.overviewConfig(), o.onActivate)
}

// onActivate is the overview gate's hold callback.
func (o *Orchestrator) onActivate(country string) {
	if err := o.Activate(country); err != nil {
		o.logger.Debug("activate", zap.Error(err))
	}
}

// onBack is the detail gate's hold callback.
func (o *Orchestrator) onBack() {
	if err := o.Back(); err != nil {
		o.logger.Debug("back", zap.Error(err))
	}
}

func (o *Orchestrator) overviewConfig() ViewConfig {
	return ViewConfig{
		Header:        o.cfg.Header,
		HoldThreshold: o.cfg.OverviewHold,
		TooltipOffset: o.cfg.TooltipOffset,
		In:            o.cfg.PieIn,
		Out:           o.cfg.PieOut,
		HoverDuration: o.cfg.HoverDuration,
	}
}

func (o *Orchestrator) detailConfig() ViewConfig {
	return ViewConfig{
		Header:                o.cfg.Header,
		HoldThreshold:         o.cfg.DetailHold,
		TooltipOffset:         o.cfg.TooltipOffset,
		In:                    o.cfg.BarIn,
		Out:                   o.cfg.BarOut,
		HoverDuration:         o.cfg.HoverDuration,
		ZeroSegmentsHoverable: o.cfg.ZeroSegmentsHoverable,
	}
}
