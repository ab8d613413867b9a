package assets

import (
	"strings"
	"testing"
)

func TestHelpTextEmbedded(t *testing.T) {
	txt := HelpText()
	if txt == "" {
		t.Fatalf("help text is empty")
	}
	if strings.HasSuffix(txt, "\n") {
		t.Fatalf("help text should be trimmed")
	}
	if !strings.Contains(txt, "Retake") {
		t.Fatalf("help text should mention retake")
	}
}
