package camera

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/soocke/plant-cam-go/domain/capture"
)

var discardLogger = slog.New(slog.DiscardHandler)

type fakeSource struct {
	mu      sync.Mutex
	shade   uint8
	openErr error
	panics  bool
	opened  int
	closed  int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return f.openErr
	}
	f.opened++
	return nil
}

func (f *fakeSource) Grab() (*image.RGBA, error) {
	f.mu.Lock()
	shade, panics := f.shade, f.panics
	f.mu.Unlock()
	if panics {
		panic("grab exploded")
	}
	return solid(32, 24, shade), nil
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	f.closed++
	f.mu.Unlock()
	return nil
}

func solid(w, h int, v uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func waitFrame(t *testing.T, s *Service) FrameSnapshot {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if f := s.LatestFrame(); f.Image != nil {
			return f
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("no frame produced")
	return FrameSnapshot{}
}

func TestService_StartStopReleasesSource(t *testing.T) {
	src := &fakeSource{shade: 128}
	s := NewService(discardLogger, src, time.Millisecond)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("second start: %v", err)
	}
	f := waitFrame(t, s)
	if f.Sequence == 0 || f.CapturedAt.IsZero() {
		t.Fatalf("unexpected frame metadata %+v", f)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if s.Running() || s.LatestFrame().Image != nil {
		t.Fatalf("stopped service must not expose frames")
	}
	if src.opened != 1 || src.closed != 1 {
		t.Fatalf("open/close counts %d/%d", src.opened, src.closed)
	}
	if st := s.Stats(); st.Frames == 0 {
		t.Fatalf("expected frame stats, got %+v", st)
	}
}

func TestService_ReleasesSourceAfterLoopPanic(t *testing.T) {
	src := &fakeSource{panics: true}
	s := NewService(discardLogger, src, time.Millisecond)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	deadline := time.Now().Add(time.Second)
	for s.Running() && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if s.Running() {
		t.Fatalf("loop must stop running after a panic")
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	src.mu.Lock()
	opened, closed := src.opened, src.closed
	src.panics = false
	src.mu.Unlock()
	if opened != 1 || closed != 1 {
		t.Fatalf("open/close counts after panic %d/%d", opened, closed)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	waitFrame(t, s)
	if err := s.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if src.opened != 2 || src.closed != 2 {
		t.Fatalf("open/close counts after restart %d/%d", src.opened, src.closed)
	}
}

func TestService_OpenFailureIsNoDevice(t *testing.T) {
	s := NewService(discardLogger, &fakeSource{openErr: errors.New("busy")}, 0)
	if err := s.Start(); !errors.Is(err, ErrNoDevice) {
		t.Fatalf("expected ErrNoDevice, got %v", err)
	}
	if s.Running() {
		t.Fatalf("service must not run after open failure")
	}
	if err := NewService(nil, nil, 0).Start(); !errors.Is(err, ErrNoDevice) {
		t.Fatalf("nil source must report ErrNoDevice, got %v", err)
	}
}

func TestMeanLuminance(t *testing.T) {
	if got := MeanLuminance(solid(8, 8, 200), 1); got < 198 || got > 200 {
		t.Fatalf("mean luminance of gray 200 = %d", got)
	}
	if got := MeanLuminance(nil, 1); got != 0 {
		t.Fatalf("nil image luminance = %d", got)
	}
}

func TestFlashOptions_Fires(t *testing.T) {
	o := DefaultFlashOptions()
	dark, bright := solid(8, 8, 20), solid(8, 8, 220)
	cases := []struct {
		img  *image.RGBA
		mode capture.FlashMode
		want bool
	}{
		{dark, capture.FlashOff, false},
		{bright, capture.FlashOn, true},
		{dark, capture.FlashAuto, true},
		{bright, capture.FlashAuto, false},
	}
	for _, tc := range cases {
		if got := o.Fires(tc.img, tc.mode); got != tc.want {
			t.Fatalf("Fires(mode=%v) = %v want %v", tc.mode, got, tc.want)
		}
	}
}

func TestApplyFlash_Brightens(t *testing.T) {
	img := solid(8, 8, 60)
	out := ApplyFlash(img, capture.FlashOn, DefaultFlashOptions())
	r, _, _, _ := out.At(0, 0).RGBA()
	if uint8(r>>8) <= 60 {
		t.Fatalf("expected brighter pixel, got %d", r>>8)
	}
	if ApplyFlash(img, capture.FlashOff, DefaultFlashOptions()) != image.Image(img) {
		t.Fatalf("flash off must return the frame unchanged")
	}
}

func TestDevice_TakePhotoWritesJPEG(t *testing.T) {
	dir := t.TempDir()
	src := &fakeSource{shade: 60}
	d := NewDevice(discardLogger, NewService(discardLogger, src, time.Millisecond), DeviceOptions{PhotoDir: dir})
	if _, err := d.TakePhoto(context.Background(), capture.FlashOff); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning before activation, got %v", err)
	}
	if err := d.SetActive(true); err != nil {
		t.Fatalf("activate: %v", err)
	}
	defer d.Close()
	waitFrame(t, d.svc)

	plain, err := d.TakePhoto(context.Background(), capture.FlashOff)
	if err != nil {
		t.Fatalf("take photo: %v", err)
	}
	lit, err := d.TakePhoto(context.Background(), capture.FlashOn)
	if err != nil {
		t.Fatalf("take photo with flash: %v", err)
	}
	if filepath.Dir(plain.Path) != dir || !strings.HasSuffix(plain.Path, plain.ID+".jpg") {
		t.Fatalf("unexpected photo path %q", plain.Path)
	}
	if plain.Width != 32 || plain.Height != 24 || plain.Source != capture.SourceCamera {
		t.Fatalf("unexpected photo %+v", plain)
	}
	if plain.ID == lit.ID {
		t.Fatalf("photo IDs must be unique")
	}
	a, err := imaging.Open(plain.Path)
	if err != nil {
		t.Fatalf("decode plain: %v", err)
	}
	b, err := imaging.Open(lit.Path)
	if err != nil {
		t.Fatalf("decode lit: %v", err)
	}
	ra, _, _, _ := a.At(4, 4).RGBA()
	rb, _, _, _ := b.At(4, 4).RGBA()
	if rb <= ra {
		t.Fatalf("flash photo not brighter: %d <= %d", rb>>8, ra>>8)
	}
	if d.Stats().Photos != 2 {
		t.Fatalf("expected 2 photos in stats, got %d", d.Stats().Photos)
	}
}

func TestDevice_TakePhotoHonoursContext(t *testing.T) {
	d := NewDevice(discardLogger, NewService(discardLogger, &fakeSource{}, time.Hour), DeviceOptions{PhotoDir: t.TempDir(), FrameWait: time.Minute})
	if err := d.SetActive(true); err != nil {
		t.Fatalf("activate: %v", err)
	}
	defer d.Close()
	waitFrame(t, d.svc)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := d.TakePhoto(ctx, capture.FlashOff); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	entries, _ := os.ReadDir(filepath.Clean(d.opts.PhotoDir))
	if len(entries) != 0 {
		t.Fatalf("no photo must be written on timeout")
	}
}

func TestDevice_ConfigureNormalizes(t *testing.T) {
	d := NewDevice(discardLogger, NewService(discardLogger, &fakeSource{}, time.Hour), DeviceOptions{})
	d.Configure(DeviceOptions{PhotoDir: "/tmp/x", JPEGQuality: 300})
	opts := d.Options()
	if opts.PhotoDir != "/tmp/x" || opts.JPEGQuality != 90 || opts.FrameWait != 500*time.Millisecond {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.Flash != DefaultFlashOptions() {
		t.Fatalf("flash defaults not applied: %+v", opts.Flash)
	}
}
