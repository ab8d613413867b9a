package presenter

import (
	"sync"
	"testing"
	"time"

	"github.com/soocke/plant-cam-go/domain/platform"
)

type recordingFocus struct {
	mu    sync.Mutex
	calls []bool
}

func (r *recordingFocus) SetWindowFocused(f bool) {
	r.mu.Lock()
	r.calls = append(r.calls, f)
	r.mu.Unlock()
}

func (r *recordingFocus) snapshot() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.calls...)
}

type titleSeq struct {
	mu    sync.Mutex
	title string
}

func (s *titleSeq) set(t string) { s.mu.Lock(); s.title = t; s.mu.Unlock() }
func (s *titleSeq) get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title, nil
}

func TestFocusWatcher_ReportsOnlyChanges(t *testing.T) {
	target := &recordingFocus{}
	fg := &titleSeq{title: "Plant Cam"}
	w := NewFocusWatcher(target, nil, fg.get, func() string { return "plant cam" })
	w.interval = 10 * time.Millisecond
	w.Start()
	defer w.Stop()

	waitCalls := func(n int) []bool {
		t.Helper()
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if c := target.snapshot(); len(c) >= n {
				return c
			}
			time.Sleep(5 * time.Millisecond)
		}
		t.Fatalf("expected %d focus reports, got %v", n, target.snapshot())
		return nil
	}
	if c := waitCalls(1); !c[0] {
		t.Fatalf("first report should be focused: %v", c)
	}
	time.Sleep(50 * time.Millisecond)
	if c := target.snapshot(); len(c) != 1 {
		t.Fatalf("unchanged focus reported again: %v", c)
	}
	fg.set("Editor")
	if c := waitCalls(2); c[1] {
		t.Fatalf("second report should be unfocused: %v", c)
	}
	fg.set("PLANT CAM")
	if c := waitCalls(3); !c[2] {
		t.Fatalf("third report should be focused: %v", c)
	}
}

func TestFocusWatcher_StopsWhenUnsupported(t *testing.T) {
	target := &recordingFocus{}
	fg := func() (string, error) { return "", platform.ErrUnsupported }
	w := NewFocusWatcher(target, nil, fg, func() string { return "Plant Cam" })
	w.interval = 10 * time.Millisecond
	w.Start()
	deadline := time.Now().Add(2 * time.Second)
	for w.Running() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if w.Running() {
		t.Fatalf("watcher should stop on unsupported platform")
	}
	if len(target.snapshot()) != 0 {
		t.Fatalf("no focus reports expected")
	}
}
