package presenter

import (
	"context"
	"testing"
	"time"
)

func TestDispatcher_DrainRunsInOrder(t *testing.T) {
	d := NewDispatcher()
	var got []int
	for i := 0; i < 3; i++ {
		d.Post(func() {
			got = append(got, i)
			if i == 0 {
				d.Post(func() { got = append(got, 99) })
			}
		})
	}
	if n := d.Drain(); n != 3 {
		t.Fatalf("drained %d", n)
	}
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Fatalf("order %v", got)
	}
	if d.Pending() != 1 {
		t.Fatalf("nested post must wait for the next drain")
	}
	d.Drain()
	if got[3] != 99 {
		t.Fatalf("nested post not run: %v", got)
	}
}

func TestDispatcher_CallWaitsForDrain(t *testing.T) {
	d := NewDispatcher()
	ran := make(chan error, 1)
	go func() {
		ran <- d.Call(context.Background(), func() {})
	}()
	deadline := time.Now().Add(time.Second)
	for d.Pending() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	select {
	case <-ran:
		t.Fatalf("call returned before drain")
	default:
	}
	d.Drain()
	select {
	case err := <-ran:
		if err != nil {
			t.Fatalf("call: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("call did not return after drain")
	}
}

func TestDispatcher_CallHonoursContext(t *testing.T) {
	d := NewDispatcher()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := d.Call(ctx, func() {}); err == nil {
		t.Fatalf("expected context error")
	}
}
