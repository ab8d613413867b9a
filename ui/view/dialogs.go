package view

import (
	"context"
	"log/slog"
	"strings"

	"github.com/soocke/plant-cam-go/domain/capture"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// UIThread runs functions on the Tk thread.
type UIThread interface {
	Post(fn func())
	Call(ctx context.Context, fn func()) error
}

// Dialogs raises native Tk dialogs on behalf of background goroutines.
type Dialogs struct {
	ui     UIThread
	logger *slog.Logger
}

func NewDialogs(ui UIThread, logger *slog.Logger) *Dialogs {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dialogs{ui: ui, logger: logger}
}

// Alert shows a warning box without waiting for it to close.
func (d *Dialogs) Alert(title, message string) {
	d.logger.Debug("alert", "title", title, "message", message)
	d.ui.Post(func() {
		MessageBox(Title(title), Msg(message), Icon("warning"))
	})
}

// Ask shows a yes/no question and reports whether the user said yes.
func (d *Dialogs) Ask(ctx context.Context, title, message string) (bool, error) {
	var answer string
	if err := d.ui.Call(ctx, func() {
		answer = MessageBox(Title(title), Msg(message), Icon("question"), Type("yesno"))
	}); err != nil {
		return false, err
	}
	return answer == "yes", nil
}

// OpenFile shows the open-file dialog filtered to opts.Extensions. An empty
// path means the user cancelled.
func (d *Dialogs) OpenFile(ctx context.Context, opts capture.PickOptions) (string, error) {
	title := opts.Title
	if title == "" {
		title = "Choose a photo"
	}
	types := []FileType{{TypeName: "Images", Extensions: opts.Extensions}, {TypeName: "All files", Extensions: []string{"*"}}}
	var picked []string
	if err := d.ui.Call(ctx, func() {
		picked = GetOpenFile(Title(title), Filetypes(types))
	}); err != nil {
		return "", err
	}
	if len(picked) == 0 {
		return "", nil
	}
	return strings.TrimSpace(picked[0]), nil
}

var _ capture.Notifier = (*Dialogs)(nil)
