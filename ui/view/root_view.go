package view

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/plant-cam-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ScreenView builds a routed screen inside a content frame. Detach is
// called before the frame is destroyed.
type ScreenView interface {
	Build(parent *FrameWidget)
	Detach()
}

// RootView composes the header and a content area that hosts one screen
// at a time. Switching screens destroys the old widgets and builds the new
// ones.
type RootView struct {
	logger *slog.Logger

	Session    SessionStats
	StateLabel *TLabelWidget

	content *FrameWidget
	screens map[string]ScreenView
	current string
}

// UI abstracts the header operations needed by presenters.
type UI interface {
	SetStateLabel(text string)
	SetSession(session, total time.Duration)
}

func NewRootView(logger *slog.Logger) *RootView {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RootView{logger: logger, screens: make(map[string]ScreenView)}
}

// Register associates a route with its screen view.
func (rv *RootView) Register(route string, s ScreenView) {
	rv.screens[route] = s
}

// Build constructs the header row. onExit is bound to the exit button.
func (rv *RootView) Build(onExit func()) {
	if rv == nil {
		return
	}
	header := Frame()
	Grid(header, Row(0), Column(0), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	rv.Session = NewSessionStats(header, 0, 0)
	rv.StateLabel = header.TLabel(Txt("State: <none>"), Style(theme.StyleStateLabel))
	Grid(rv.StateLabel, Row(0), Column(2), Sticky("we"), Padx("0.4m"))
	exitBtn := header.Button(Txt("Exit"), Command(onExit))
	Grid(exitBtn, Row(0), Column(3), Sticky("e"), Padx("0.2m"))
	GridColumnConfigure(header.Window, 2, Weight(1))
	GridRowConfigure(App, 1, Weight(1))
	GridColumnConfigure(App, 0, Weight(1))
}

// Show replaces the content area with the screen registered for route.
func (rv *RootView) Show(route string) error {
	if rv == nil {
		return nil
	}
	s, ok := rv.screens[route]
	if !ok {
		return fmt.Errorf("view: no screen for route %q", route)
	}
	if rv.current == route && rv.content != nil {
		return nil
	}
	if prev, ok := rv.screens[rv.current]; ok && rv.content != nil {
		prev.Detach()
	}
	if rv.content != nil {
		Destroy(rv.content)
	}
	rv.content = Frame()
	Grid(rv.content, Row(1), Column(0), Sticky("nsew"), Padx("0.4m"), Pady("0.4m"))
	GridColumnConfigure(rv.content.Window, 0, Weight(1))
	rv.current = route
	s.Build(rv.content)
	rv.logger.Debug("screen shown", "route", route)
	return nil
}

// Current returns the route on screen.
func (rv *RootView) Current() string { return rv.current }

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// SetSession updates camera-on and total durations.
func (rv *RootView) SetSession(session, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(session)
	rv.Session.SetTotal(total)
}
