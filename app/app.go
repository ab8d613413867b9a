package app

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/plant-cam-go/config"
	rtdebug "github.com/soocke/plant-cam-go/debug"
	"github.com/soocke/plant-cam-go/domain/nav"
	"github.com/soocke/plant-cam-go/ui/theme"
)

const tick = 50 * time.Millisecond

// Application owns the Tk main window and the periodic UI update.
type Application struct {
	c       *AppContainer
	logger  *slog.Logger
	afterID string
	cancel  context.CancelFunc
	closed  bool
}

// NewApp builds the container and configures the main window.
func NewApp(title string, cfg *config.Config, cfgPath string, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c, err := BuildContainer(title, cfg, cfgPath, logger)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}
	a := &Application{c: c, logger: logger}
	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", cfg.WindowWidth, cfg.WindowHeight))
	return a, nil
}

// Start builds the UI, shows the initial route and runs the Tk event loop
// until the window closes.
func (a *Application) Start() {
	theme.InitStyles()
	a.c.RootView.Build(a.exitHandler)
	a.c.Loop.Schedule = a.scheduleUpdate

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	if a.c.Config.Debug {
		rtdebug.StartGoroutineLogger(ctx, 5*time.Second, a.logger, a.c.RuntimeStats)
		rtdebug.StartMemLogger(ctx, 10*time.Second, a.logger)
	}

	a.showInitialRoute()
	a.c.FocusWatcher.Start()
	a.scheduleUpdate()
	App.Wait()
	a.shutdown()
}

// showInitialRoute pushes the configured route. The camera route keeps the
// detection screen below it so Close has somewhere to return to.
func (a *Application) showInitialRoute() {
	route := a.c.Config.InitialRoute
	if err := a.c.Nav.Push(nav.RoutePlantDetection); err != nil {
		a.logger.Error("initial route", "route", nav.RoutePlantDetection, "error", err)
		return
	}
	if route == nav.RoutePlantDetection {
		return
	}
	if err := a.c.Nav.Push(route); err != nil {
		a.logger.Warn("initial route", "route", route, "error", err)
	}
}

func (a *Application) update() {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("ui update panic", "error", r, "stack", string(debug.Stack()))
			a.scheduleUpdate()
		}
	}()
	a.c.Loop.Tick()
}

// scheduleUpdate queues the next tick with TclAfter to stay on Tk's thread.
func (a *Application) scheduleUpdate() {
	if a.closed {
		return
	}
	a.afterID = TclAfter(tick, a.update)
}

func (a *Application) exitHandler() {
	if a.closed {
		return
	}
	a.closed = true
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	Destroy(App)
}

func (a *Application) shutdown() {
	a.closed = true
	if a.cancel != nil {
		a.cancel()
	}
	a.c.Close()
	a.logger.Info("plant cam stopped")
}
