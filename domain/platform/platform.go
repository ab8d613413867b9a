// Package platform wraps host window-system queries.
package platform

import "errors"

// ErrUnsupported is returned when the host offers no foreground query.
var ErrUnsupported = errors.New("platform: foreground window query unsupported")
