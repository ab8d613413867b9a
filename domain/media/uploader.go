package media

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/dustin/go-humanize"

	"github.com/soocke/plant-cam-go/domain/capture"
)

// LogUploader accepts confirmed photos without a network transport and
// records them in the log.
type LogUploader struct {
	logger *slog.Logger
	count  atomic.Uint64
	bytes  atomic.Uint64
}

func NewLogUploader(logger *slog.Logger) *LogUploader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LogUploader{logger: logger}
}

func (u *LogUploader) Upload(ctx context.Context, p capture.Photo, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New("empty photo")
	}
	n := u.count.Add(1)
	total := u.bytes.Add(uint64(len(data)))
	u.logger.Info("photo uploaded",
		"id", p.ID,
		"path", p.Path,
		"source", p.Source.String(),
		"size", humanize.Bytes(uint64(len(data))),
		"uploads", n,
		"total", humanize.Bytes(total),
	)
	return nil
}

// Uploads returns the number of accepted photos.
func (u *LogUploader) Uploads() uint64 { return u.count.Load() }

var _ capture.Uploader = (*LogUploader)(nil)
