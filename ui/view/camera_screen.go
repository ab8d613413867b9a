package view

import (
	"log/slog"

	"github.com/soocke/plant-cam-go/assets"
	"github.com/soocke/plant-cam-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CameraActions are the camera screen button handlers.
type CameraActions interface {
	Capture()
	Flash()
	Gallery()
	Confirm()
	Retake()
	Retry()
	Close()
}

// CameraScreen renders the live preview, the review pane and their
// control bars. Setters are safe to call while the screen is not built.
type CameraScreen struct {
	Actions CameraActions
	// OnBuilt runs after the widgets were (re)created.
	OnBuilt func()

	logger        *slog.Logger
	width, height int

	preview    *previewLabel
	notice     *TLabelWidget
	retryBtn   *ButtonWidget
	status     *TLabelWidget
	liveBar    *FrameWidget
	reviewBar  *FrameWidget
	captureBtn *TButtonWidget
	confirmBtn *TButtonWidget
	flashBtn   *ButtonWidget
	galleryBtn *ButtonWidget
	retakeBtn  *ButtonWidget

	review      bool
	noticeShown bool
}

// NewCameraScreen sizes the preview to w x h pixels.
func NewCameraScreen(w, h int, logger *slog.Logger) *CameraScreen {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CameraScreen{width: w, height: h, logger: logger}
}

// PreviewSize returns the pixel box frames are scaled into.
func (s *CameraScreen) PreviewSize() (int, int) { return s.width, s.height }

func (s *CameraScreen) act(fn func(CameraActions)) func() {
	return func() {
		if s.Actions != nil {
			fn(s.Actions)
		}
	}
}

func (s *CameraScreen) Build(parent *FrameWidget) {
	s.preview = newPreviewLabel(parent, s.width, s.height, theme.CurrentPalette().Viewport)
	Grid(s.preview.label, Row(0), Column(0), Columnspan(2), Sticky("nsew"), Padx("0.4m"), Pady("0.4m"))

	s.notice = parent.TLabel(Txt(""), Style(theme.StyleNoticeLabel), Anchor("w"))
	s.retryBtn = parent.Button(Txt("Retry"), Command(s.act(CameraActions.Retry)))
	s.noticeShown = true
	s.SetNotice("", false)

	s.status = parent.TLabel(Txt(""), Style(theme.StyleStatusLabel), Anchor("w"))
	Grid(s.status, Row(2), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"))

	s.liveBar = parent.Frame()
	closeBtn := s.liveBar.Button(Txt("Close"), Command(s.act(CameraActions.Close)))
	Grid(closeBtn, Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	s.galleryBtn = s.liveBar.Button(Txt("Gallery"), Command(s.act(CameraActions.Gallery)))
	Grid(s.galleryBtn, Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	s.captureBtn = s.liveBar.TButton(Txt("Capture"), Style(theme.StylePrimaryButton), Command(s.act(CameraActions.Capture)))
	Grid(s.captureBtn, Row(0), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	s.flashBtn = s.liveBar.Button(Txt("Flash: off"), Command(s.act(CameraActions.Flash)))
	Grid(s.flashBtn, Row(0), Column(3), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	helpBtn := s.liveBar.Button(Txt("Help"), Command(s.showHelp))
	Grid(helpBtn, Row(0), Column(4), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	s.reviewBar = parent.Frame()
	s.retakeBtn = s.reviewBar.Button(Txt("Retake"), Command(s.act(CameraActions.Retake)))
	Grid(s.retakeBtn, Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	s.confirmBtn = s.reviewBar.TButton(Txt("Use Photo"), Style(theme.StylePrimaryButton), Command(s.act(CameraActions.Confirm)))
	Grid(s.confirmBtn, Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	s.review = true
	s.SetReviewMode(false)

	if s.OnBuilt != nil {
		s.OnBuilt()
	}
}

// Detach drops references to widgets about to be destroyed.
func (s *CameraScreen) Detach() {
	s.preview.detach()
	s.preview = nil
	s.notice, s.retryBtn, s.status = nil, nil, nil
	s.liveBar, s.reviewBar = nil, nil
	s.captureBtn, s.confirmBtn = nil, nil
	s.flashBtn, s.galleryBtn, s.retakeBtn = nil, nil, nil
}

func (s *CameraScreen) built() bool { return s.liveBar != nil }

// SetReviewMode swaps the live control bar for the review bar.
func (s *CameraScreen) SetReviewMode(review bool) {
	if !s.built() || review == s.review {
		return
	}
	s.review = review
	if review {
		GridForget(s.liveBar.Window)
		Grid(s.reviewBar, Row(3), Column(0), Columnspan(2), Sticky("we"))
		return
	}
	GridForget(s.reviewBar.Window)
	Grid(s.liveBar, Row(3), Column(0), Columnspan(2), Sticky("we"))
}

func (s *CameraScreen) SetFlashLabel(text string) {
	if s.flashBtn != nil {
		s.flashBtn.Configure(Txt(text))
	}
}

func (s *CameraScreen) SetCaptureEnabled(enabled bool) {
	if s.captureBtn != nil {
		s.captureBtn.Configure(State(widgetState(enabled)))
	}
}

// SetControlsEnabled gates the live bar buttons other than capture.
func (s *CameraScreen) SetControlsEnabled(enabled bool) {
	if !s.built() {
		return
	}
	st := State(widgetState(enabled))
	s.galleryBtn.Configure(st)
	s.flashBtn.Configure(st)
}

func (s *CameraScreen) SetConfirmEnabled(enabled bool) {
	if s.confirmBtn != nil {
		s.confirmBtn.Configure(State(widgetState(enabled)))
	}
}

// SetNotice shows a blocking notice over the controls. Empty text hides it.
func (s *CameraScreen) SetNotice(text string, retry bool) {
	if s.notice == nil {
		return
	}
	if text == "" {
		if s.noticeShown {
			GridForget(s.notice.Window, s.retryBtn.Window)
			s.noticeShown = false
		}
		return
	}
	s.notice.Configure(Txt(text))
	Grid(s.notice, Row(1), Column(0), Sticky("we"), Padx("0.4m"))
	if retry {
		Grid(s.retryBtn, Row(1), Column(1), Sticky("e"), Padx("0.4m"))
	} else {
		GridForget(s.retryBtn.Window)
	}
	s.noticeShown = true
}

func (s *CameraScreen) SetStatus(text string) {
	if s.status != nil {
		s.status.Configure(Txt(text))
	}
}

// UpdatePreview shows a live viewfinder frame.
func (s *CameraScreen) UpdatePreview(png []byte) { s.preview.Show(png) }

// ShowReviewImage shows the photo under review.
func (s *CameraScreen) ShowReviewImage(png []byte) { s.preview.Show(png) }

// ResetPreview blanks the preview.
func (s *CameraScreen) ResetPreview() {
	if s.preview != nil && !s.review {
		s.preview.Reset()
	}
}

func (s *CameraScreen) showHelp() {
	MessageBox(Title("Camera help"), Msg(assets.HelpText()), Icon("info"))
}

func widgetState(enabled bool) string {
	if enabled {
		return "normal"
	}
	return "disabled"
}
