package bubblepop

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrScriptDone is returned from Run when RunConfig.ExitWhenScriptDone is set
// and the attached TestRunner has finished.
var ErrScriptDone = errors.New("bubblepop: test script finished")

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	// ShowFPS enables the HUD overlay.
	ShowFPS bool
	// ExitWhenScriptDone stops the loop once the attached TestRunner is done.
	ExitWhenScriptDone bool
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	cfg   RunConfig
}

func (g *game) Update() error {
	if err := g.scene.Update(); err != nil {
		return err
	}
	if g.cfg.ExitWhenScriptDone && g.scene.testRunner != nil && g.scene.testRunner.Done() {
		// Let the screenshot queued by the last step be drawn first.
		if len(g.scene.screenshotQueue) == 0 {
			return ErrScriptDone
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

// Layout reports the outside size as the canvas size and asks the scene to
// repopulate when it changes.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scene.requestResize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run opens a window and drives scene until the window closes or the scene's
// update function returns an error. ErrScriptDone is not reported as an
// error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	if cfg.Title == "" {
		cfg.Title = "bubblepop"
	}
	scene.ShowHUD = scene.ShowHUD || cfg.ShowFPS

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	scene.Resize(cfg.Width, cfg.Height)

	err := ebiten.RunGame(&game{scene: scene, cfg: cfg})
	if errors.Is(err, ErrScriptDone) {
		return nil
	}
	return err
}
