package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/phanxgames/warviz"
)

var exitAfterScript bool

// game adapts the scene and orchestrator to ebiten.Game.
type game struct {
	scene   *warviz.Scene
	orch    *warviz.Orchestrator
	data    warviz.Dataset
	watcher *warviz.DataWatcher
	script  *warviz.ScriptRunner
	started bool
	debug   bool
}

func (g *game) Update() error {
	// Layout has set the viewport by the first Update.
	if !g.started {
		g.started = true
		if err := g.orch.Start(g.data); err != nil {
			return err
		}
	}
	if g.watcher != nil {
		if ds, ok := g.watcher.Poll(); ok {
			g.orch.Reload(ds)
		}
	}
	g.scene.Update()
	if exitAfterScript && g.script != nil && g.script.Done() && g.scene.PendingScreenshots() == 0 {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.0f  TPS: %.0f  %s",
			ebiten.ActualFPS(), ebiten.ActualTPS(), g.orch.State()), 4, 4)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scene.SetViewport(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

func runGame(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ds, err := warviz.LoadDataset(cfg.Data.File)
	if err != nil {
		return err
	}

	scene := warviz.NewScene()
	scene.SetLogger(logger)
	scene.ClearColor = warviz.ColorWhite
	scene.SetDebugMode(cfg.Window.Debug)

	g := &game{scene: scene, data: ds, debug: cfg.Window.Debug}

	if scriptPath != "" {
		raw, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		g.script, err = warviz.LoadScript(raw)
		if err != nil {
			return err
		}
		scene.SetScript(g.script)
	}

	g.orch, err = warviz.NewOrchestrator(scene, cfg.Orchestrator(),
		warviz.WithLogger(logger),
		warviz.WithDetailSource(warviz.FileSource{Dir: cfg.Data.EventsDir}),
	)
	if err != nil {
		return err
	}

	if cfg.Data.Watch {
		g.watcher, err = warviz.NewDataWatcher(cfg.Data.File, cfg.Data.Debounce, logger)
		if err != nil {
			return err
		}
		defer g.watcher.Close()
		if err := g.watcher.Start(ctx); err != nil {
			return err
		}
	}

	logger.Info("starting",
		zap.String("data", cfg.Data.File),
		zap.Int("records", len(ds.Records)),
		zap.Bool("watch", cfg.Data.Watch))

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}
