package media

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/soocke/plant-cam-go/domain/capture"
)

// DefaultExtensions lists the image types the gallery accepts.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// OpenFunc presents a file dialog and returns the chosen path, or "" when
// the user cancelled.
type OpenFunc func(ctx context.Context, opts capture.PickOptions) (string, error)

// Picker adapts a file dialog into the gallery collaborator.
type Picker struct {
	open OpenFunc
}

// NewPicker wraps open.
func NewPicker(open OpenFunc) *Picker { return &Picker{open: open} }

// PickImage asks the user for an image and adapts the selection into a
// gallery photo. Only the header is decoded to read the dimensions.
func (p *Picker) PickImage(ctx context.Context, opts capture.PickOptions) (capture.Photo, error) {
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	path, err := p.open(ctx, opts)
	if err != nil {
		return capture.Photo{}, fmt.Errorf("%w: %w", capture.ErrPickerFailed, err)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return capture.Photo{}, capture.ErrPickerCancelled
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(opts.Extensions, ext) {
		return capture.Photo{}, fmt.Errorf("%w: unsupported extension %q", capture.ErrPickerFailed, ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return capture.Photo{}, fmt.Errorf("%w: %w", capture.ErrPickerFailed, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return capture.Photo{}, fmt.Errorf("%w: decode %s: %w", capture.ErrPickerFailed, filepath.Base(path), err)
	}
	return capture.Photo{
		Path:   path,
		Source: capture.SourceGallery,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

var _ capture.MediaPicker = (*Picker)(nil)
