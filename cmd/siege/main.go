// Command siege renders the castle siege scene: a ballista rolls up to the castle, turns and fires
// a volley of arrows at the wall.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/siege/common"
	"github.com/Carmen-Shannon/siege/config"
	"github.com/Carmen-Shannon/siege/engine"
	"github.com/Carmen-Shannon/siege/engine/controls"
	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/Carmen-Shannon/siege/engine/renderer"
	"github.com/Carmen-Shannon/siege/engine/sequencer"
	"github.com/Carmen-Shannon/siege/engine/view"
	"github.com/Carmen-Shannon/siege/engine/window"
	"github.com/Carmen-Shannon/siege/engine/world"
)

func main() {
	configPath := flag.String("config", "", "path to a .yaml or .toml configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[Siege] %v", err)
	}
	if err := run(cfg, openWindow, openDevice); err != nil {
		log.Fatalf("[Siege] %v", err)
	}
}

// openWindow creates the GLFW window described by cfg.
func openWindow(cfg config.Config) (window.Window, error) {
	return window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
}

// openDevice creates the WebGPU device for win.
func openDevice(cfg config.Config, win window.Window) (renderer.Renderer, error) {
	presentMode := renderer.PresentModeVSync
	if cfg.Renderer.PresentMode == config.PresentModeUncapped {
		presentMode = renderer.PresentModeUncapped
	}
	return renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Renderer.MSAA)),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.Software),
	)
}

// run builds every component from cfg and drives the loop until the window closes.
// Everything created is released before it returns, on success and on failure.
//
// Parameters:
//   - cfg: the validated configuration
//   - newWindow: creates the window
//   - newDevice: creates the rendering device of the window
//
// Returns:
//   - error: the first construction error or the error that stopped the loop
func run(
	cfg config.Config,
	newWindow func(config.Config) (window.Window, error),
	newDevice func(config.Config, window.Window) (renderer.Renderer, error),
) error {
	win, err := newWindow(cfg)
	if err != nil {
		return fmt.Errorf("window: %w", err)
	}
	defer win.Close()

	dev, err := newDevice(cfg, win)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer dev.Release()

	ctx := gfx.NewContext(dev)

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithTickPeriod(cfg.TickPeriod()),
		engine.WithProfiling(cfg.Profiling),
		engine.WithDrawCounter(dev.LastFrameDraws),
		engine.WithContext(ctx),
		engine.WithRenderFrameLimit(cfg.Renderer.FrameLimit),
	)

	// ── World + controls ────────────────────────────────────────────────
	vs := view.NewViewState(
		view.WithRotationBounds(cfg.View.MinRotationX, cfg.View.MaxRotationX),
		view.WithSceneDistance(cfg.View.SceneDistance),
	)

	var w world.World
	panel := controls.NewPanel(vs, func() bool { return w.StartAnimation() })

	bg := cfg.Renderer.ClearColor
	w, err = world.NewWorld(ctx, win.Width(), win.Height(),
		world.WithAssetDirs(cfg.Assets.TextureDir, cfg.Assets.ModelDir),
		world.WithViewState(vs),
		world.WithUIEnableSink(panel),
		world.WithTimer(eng.Timer()),
		world.WithEyeHeight(cfg.Animation.EyeHeight),
		world.WithClearColor(bg[0], bg[1], bg[2], bg[3]),
		world.WithPhaseObserver(func(_, to sequencer.Phase) {
			if to == sequencer.PhaseIdle {
				win.SetTitle(cfg.Window.Title)
				return
			}
			win.SetTitle(fmt.Sprintf("%s [%s]", cfg.Window.Title, to))
		}),
	)
	if err != nil {
		return fmt.Errorf("world: %w", err)
	}
	defer w.Dispose()

	// ── Input ───────────────────────────────────────────────────────────
	win.SetKeyDownCallback(func(keyCode uint32) {
		if keyCode == common.KeyEsc {
			eng.Quit()
			return
		}
		panel.HandleKeyDown(keyCode)
	})
	win.SetScrollCallback(panel.HandleScroll)
	win.SetMouseDownCallback(panel.HandleMouseDown)
	win.SetMouseUpCallback(panel.HandleMouseUp)
	win.SetMouseMoveCallback(panel.HandleMouseMove)

	// ── Loop ────────────────────────────────────────────────────────────
	eng.SetTickCallback(w.Tick)
	eng.SetRenderCallback(w.Draw)
	eng.SetResizeCallback(func(width, height int) {
		dev.Resize(width, height)
		w.Resize(width, height)
	})

	if err := eng.Run(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}
