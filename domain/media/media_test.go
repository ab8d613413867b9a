package media

import (
	"context"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/soocke/plant-cam-go/domain/capture"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func pickerReturning(path string, err error) *Picker {
	return NewPicker(func(ctx context.Context, opts capture.PickOptions) (string, error) {
		return path, err
	})
}

func TestPicker_Cancelled(t *testing.T) {
	_, err := pickerReturning("", nil).PickImage(context.Background(), capture.PickOptions{})
	if !errors.Is(err, capture.ErrPickerCancelled) {
		t.Fatalf("expected ErrPickerCancelled, got %v", err)
	}
}

func TestPicker_AdaptsSelection(t *testing.T) {
	path := writePNG(t, t.TempDir(), "leaf.png", 64, 48)
	p, err := pickerReturning(path, nil).PickImage(context.Background(), capture.PickOptions{})
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if p.Path != path || p.Width != 64 || p.Height != 48 || p.Source != capture.SourceGallery {
		t.Fatalf("unexpected photo %+v", p)
	}
}

func TestPicker_Failures(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	bogus := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(bogus, []byte("not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	cases := map[string]*Picker{
		"extension":  pickerReturning(txt, nil),
		"undecoded":  pickerReturning(bogus, nil),
		"missing":    pickerReturning(filepath.Join(dir, "gone.png"), nil),
		"dialog err": pickerReturning("", errors.New("tk error")),
	}
	for name, p := range cases {
		_, err := p.PickImage(context.Background(), capture.PickOptions{})
		if !errors.Is(err, capture.ErrPickerFailed) {
			t.Fatalf("%s: expected ErrPickerFailed, got %v", name, err)
		}
	}
}

func TestFileReader_ReadsBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.jpg")
	if err := os.WriteFile(path, []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{path, "file://" + path} {
		data, err := FileReader{}.ReadPhoto(context.Background(), capture.Photo{Path: p})
		if err != nil || string(data) != "jpeg-bytes" {
			t.Fatalf("read %q: %q, %v", p, data, err)
		}
	}
	if _, err := (FileReader{}).ReadPhoto(context.Background(), capture.Photo{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLogUploader_CountsUploads(t *testing.T) {
	u := NewLogUploader(slog.New(slog.DiscardHandler))
	if err := u.Upload(context.Background(), capture.Photo{Path: "/tmp/a.jpg"}, []byte("x")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := u.Upload(context.Background(), capture.Photo{}, nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if u.Uploads() != 1 {
		t.Fatalf("uploads = %d", u.Uploads())
	}
}
