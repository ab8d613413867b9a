package permission

import (
	"context"
	"errors"
	"testing"

	"github.com/soocke/plant-cam-go/domain/capture"
)

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModePrompt, "Granted": ModeGranted, "denied": ModeDenied, " prompt ": ModePrompt} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("always"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestStatic(t *testing.T) {
	s := NewStatic(capture.PermissionDenied)
	if s.Status() != capture.PermissionDenied {
		t.Fatalf("status = %v", s.Status())
	}
	p, err := s.Request(context.Background())
	if err != nil || p != capture.PermissionDenied {
		t.Fatalf("request = %v, %v", p, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Request(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled context error, got %v", err)
	}
}

func TestDialog_RemembersGrantAndRetriesDenial(t *testing.T) {
	answers := []bool{false, true}
	asked := 0
	d := NewDialog(nil, func(ctx context.Context, title, message string) (bool, error) {
		a := answers[asked]
		asked++
		return a, nil
	})
	if d.Status() != capture.PermissionUnknown {
		t.Fatalf("initial status = %v", d.Status())
	}
	if p, _ := d.Request(context.Background()); p != capture.PermissionDenied {
		t.Fatalf("first answer = %v", p)
	}
	if p, _ := d.Request(context.Background()); p != capture.PermissionGranted {
		t.Fatalf("second answer = %v", p)
	}
	if p, _ := d.Request(context.Background()); p != capture.PermissionGranted || asked != 2 {
		t.Fatalf("grant must be remembered, asked %d times", asked)
	}
}

func TestDialog_AskError(t *testing.T) {
	d := NewDialog(nil, func(ctx context.Context, title, message string) (bool, error) {
		return false, errors.New("no display")
	})
	if _, err := d.Request(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if d.Status() != capture.PermissionUnknown {
		t.Fatalf("status must stay unknown after an ask error")
	}
}
