package presenter

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/soocke/plant-cam-go/domain/platform"
)

// FocusTarget receives window focus changes.
type FocusTarget interface {
	SetWindowFocused(focused bool)
}

// FocusWatcher polls the foreground window title and reports when the app
// window gains or loses focus.
type FocusWatcher struct {
	Target     FocusTarget
	Logger     *slog.Logger
	Foreground func() (string, error)
	Title      func() string // app window title
	interval   time.Duration

	mu      sync.Mutex
	done    chan struct{}
	known   bool
	focused bool
}

// NewFocusWatcher constructs a focus watcher. A nil fg uses the platform query.
func NewFocusWatcher(target FocusTarget, logger *slog.Logger, fg func() (string, error), title func() string) *FocusWatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if fg == nil {
		fg = platform.ForegroundWindowTitle
	}
	if title == nil {
		title = func() string { return "" }
	}
	return &FocusWatcher{Target: target, Logger: logger, Foreground: fg, Title: title, interval: 250 * time.Millisecond}
}

// Start begins polling. It is a no-op when already running.
func (w *FocusWatcher) Start() {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil {
		return
	}
	w.done = make(chan struct{})
	w.known = false
	go w.loop(w.done)
}

// Stop ends polling.
func (w *FocusWatcher) Stop() {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done == nil {
		return
	}
	close(w.done)
	w.done = nil
}

// Running reports whether the watcher is polling.
func (w *FocusWatcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done != nil
}

func (w *FocusWatcher) loop(done chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			w.Logger.Error("focus watcher panic", "error", r)
		}
	}()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if !w.poll() {
				w.mu.Lock()
				if w.done == done {
					close(done)
					w.done = nil
				}
				w.mu.Unlock()
				return
			}
		case <-done:
			return
		}
	}
}

// poll reports false when polling should stop.
func (w *FocusWatcher) poll() bool {
	fgTitle, err := w.Foreground()
	if errors.Is(err, platform.ErrUnsupported) {
		w.Logger.Debug("foreground query unsupported, focus watcher stopped")
		return false
	}
	if err != nil {
		w.Logger.Error("foreground title error", "error", err)
		return true
	}
	want := strings.ToLower(strings.TrimSpace(w.Title()))
	if want == "" {
		return true
	}
	focused := strings.ToLower(strings.TrimSpace(fgTitle)) == want

	w.mu.Lock()
	changed := !w.known || focused != w.focused
	w.known = true
	w.focused = focused
	w.mu.Unlock()

	if changed && w.Target != nil {
		w.Logger.Debug("window focus", "focused", focused, "foreground", fgTitle)
		w.Target.SetWindowFocused(focused)
	}
	return true
}
