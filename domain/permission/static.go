package permission

import (
	"context"
	"fmt"
	"strings"

	"github.com/soocke/plant-cam-go/domain/capture"
)

// Mode selects how camera permission is obtained.
type Mode string

const (
	ModeGranted Mode = "granted"
	ModeDenied  Mode = "denied"
	ModePrompt  Mode = "prompt"
)

// ParseMode parses a configured permission mode. Empty means prompt.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModePrompt, nil
	case ModeGranted, ModeDenied, ModePrompt:
		return m, nil
	}
	return "", fmt.Errorf("unknown camera permission mode %q", s)
}

// Static answers every request with a fixed grant.
type Static struct {
	perm capture.Permission
}

// NewStatic returns a provider that always reports perm.
func NewStatic(perm capture.Permission) *Static { return &Static{perm: perm} }

func (s *Static) Status() capture.Permission { return s.perm }

func (s *Static) Request(ctx context.Context) (capture.Permission, error) {
	if err := ctx.Err(); err != nil {
		return capture.PermissionUnknown, err
	}
	return s.perm, nil
}

var _ capture.PermissionProvider = (*Static)(nil)
