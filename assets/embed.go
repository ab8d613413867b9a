package assets

import (
	_ "embed"
	"strings"
)

//go:embed help.txt
var helpTXT string

// HelpText returns the camera screen help shown from the help button.
func HelpText() string {
	return strings.TrimSpace(helpTXT)
}
