package nav

import (
	"fmt"
	"log/slog"
	"sync"
)

// Route names.
const (
	RoutePlantDetection = "PlantDetection"
	RouteCamera         = "Camera"
)

// Screen receives focus lifecycle events from the navigator.
type Screen interface {
	OnFocus()
	OnBlur()
}

// ScreenFunc adapts two functions into a Screen. Either may be nil.
type ScreenFunc struct {
	Focus func()
	Blur  func()
}

func (s ScreenFunc) OnFocus() {
	if s.Focus != nil {
		s.Focus()
	}
}

func (s ScreenFunc) OnBlur() {
	if s.Blur != nil {
		s.Blur()
	}
}

// RouteListener is called after the top of the stack changed.
type RouteListener func(prev, next string)

// Navigator is a stack of registered screens. Only the top screen is
// focused, and only while the window itself is focused.
type Navigator struct {
	logger *slog.Logger

	mu        sync.Mutex
	screens   map[string]Screen
	stack     []string
	window    bool
	listeners []RouteListener
}

func New(logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Navigator{logger: logger, screens: make(map[string]Screen), window: true}
}

// Register associates a route name with a screen.
func (n *Navigator) Register(name string, s Screen) {
	n.mu.Lock()
	n.screens[name] = s
	n.mu.Unlock()
}

func (n *Navigator) AddListener(l RouteListener) {
	n.mu.Lock()
	n.listeners = append(n.listeners, l)
	n.mu.Unlock()
}

// Push makes name the top screen, blurring the previous one.
func (n *Navigator) Push(name string) error {
	n.mu.Lock()
	next, ok := n.screens[name]
	if !ok {
		n.mu.Unlock()
		return fmt.Errorf("nav: unknown route %q", name)
	}
	prevName, prev := n.topLocked()
	n.stack = append(n.stack, name)
	window := n.window
	listeners := append([]RouteListener(nil), n.listeners...)
	n.mu.Unlock()

	if prev != nil && window {
		prev.OnBlur()
	}
	if window {
		next.OnFocus()
	}
	n.logger.Debug("nav push", "from", prevName, "to", name)
	for _, l := range listeners {
		l(prevName, name)
	}
	return nil
}

// GoBack pops the top screen. At the root it is a no-op and returns false.
func (n *Navigator) GoBack() bool {
	n.mu.Lock()
	if len(n.stack) < 2 {
		n.mu.Unlock()
		return false
	}
	prevName, prev := n.topLocked()
	n.stack = n.stack[:len(n.stack)-1]
	nextName, next := n.topLocked()
	window := n.window
	listeners := append([]RouteListener(nil), n.listeners...)
	n.mu.Unlock()

	if window {
		prev.OnBlur()
		next.OnFocus()
	}
	n.logger.Debug("nav back", "from", prevName, "to", nextName)
	for _, l := range listeners {
		l(prevName, nextName)
	}
	return true
}

// SetWindowFocused forwards window focus changes to the top screen.
func (n *Navigator) SetWindowFocused(focused bool) {
	n.mu.Lock()
	if n.window == focused {
		n.mu.Unlock()
		return
	}
	n.window = focused
	name, top := n.topLocked()
	n.mu.Unlock()
	if top == nil {
		return
	}
	n.logger.Debug("nav window focus", "focused", focused, "route", name)
	if focused {
		top.OnFocus()
	} else {
		top.OnBlur()
	}
}

// Current returns the top route name, or "" when the stack is empty.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	name, _ := n.topLocked()
	return name
}

func (n *Navigator) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.stack)
}

func (n *Navigator) topLocked() (string, Screen) {
	if len(n.stack) == 0 {
		return "", nil
	}
	name := n.stack[len(n.stack)-1]
	return name, n.screens[name]
}
