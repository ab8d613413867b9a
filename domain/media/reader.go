package media

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/soocke/plant-cam-go/domain/capture"
)

// FileReader loads photo bytes from local storage.
type FileReader struct{}

// ReadPhoto reads the file behind p. A file:// prefix on the path is tolerated.
func (FileReader) ReadPhoto(ctx context.Context, p capture.Photo) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(p.Path, "file://")
	if path == "" {
		return nil, errors.New("photo has no path")
	}
	return os.ReadFile(path)
}

var _ capture.PhotoReader = FileReader{}
