package nav

import (
	"strings"
	"testing"
)

type recScreen struct {
	name   string
	events *[]string
}

func (r recScreen) OnFocus() { *r.events = append(*r.events, r.name+":focus") }
func (r recScreen) OnBlur()  { *r.events = append(*r.events, r.name+":blur") }

func setup() (*Navigator, *[]string) {
	events := &[]string{}
	n := New(nil)
	n.Register(RoutePlantDetection, recScreen{"detect", events})
	n.Register(RouteCamera, recScreen{"camera", events})
	return n, events
}

func joined(e *[]string) string { return strings.Join(*e, ",") }

func TestNavigator_PushAndBack(t *testing.T) {
	n, events := setup()
	var routes []string
	n.AddListener(func(prev, next string) { routes = append(routes, prev+">"+next) })
	if err := n.Push(RoutePlantDetection); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := n.Push(RouteCamera); err != nil {
		t.Fatalf("push: %v", err)
	}
	if n.Current() != RouteCamera || n.Depth() != 2 {
		t.Fatalf("current=%q depth=%d", n.Current(), n.Depth())
	}
	if !n.GoBack() {
		t.Fatalf("go back must pop")
	}
	if n.GoBack() {
		t.Fatalf("go back at root must be a no-op")
	}
	want := "detect:focus,detect:blur,camera:focus,camera:blur,detect:focus"
	if got := joined(events); got != want {
		t.Fatalf("events %s, want %s", got, want)
	}
	if strings.Join(routes, " ") != ">PlantDetection PlantDetection>Camera Camera>PlantDetection" {
		t.Fatalf("routes %v", routes)
	}
}

func TestNavigator_UnknownRoute(t *testing.T) {
	n, _ := setup()
	if err := n.Push("Settings"); err == nil {
		t.Fatalf("expected error for unknown route")
	}
	if n.Depth() != 0 || n.Current() != "" {
		t.Fatalf("stack must stay empty")
	}
}

func TestNavigator_WindowFocus(t *testing.T) {
	n, events := setup()
	n.SetWindowFocused(false)
	_ = n.Push(RoutePlantDetection)
	_ = n.Push(RouteCamera)
	if len(*events) != 0 {
		t.Fatalf("no focus events while window unfocused, got %s", joined(events))
	}
	n.SetWindowFocused(true)
	n.SetWindowFocused(true)
	n.SetWindowFocused(false)
	if got := joined(events); got != "camera:focus,camera:blur" {
		t.Fatalf("events %s", got)
	}
}

func TestScreenFunc_NilSafe(t *testing.T) {
	called := false
	s := ScreenFunc{Focus: func() { called = true }}
	s.OnFocus()
	s.OnBlur()
	if !called {
		t.Fatalf("focus func not called")
	}
}
