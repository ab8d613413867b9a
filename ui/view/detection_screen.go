package view

import (
	"log/slog"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// DetectionScreen is the root screen. It hosts the entry to the camera
// and the capture settings.
type DetectionScreen struct {
	OnCamera func()
	Region   *RegionOverlay
	Settings *SettingsPanel
	logger   *slog.Logger

	cameraBtn *ButtonWidget
}

func NewDetectionScreen(onCamera func(), region *RegionOverlay, settings *SettingsPanel, logger *slog.Logger) *DetectionScreen {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DetectionScreen{OnCamera: onCamera, Region: region, Settings: settings, logger: logger}
}

func (s *DetectionScreen) Build(parent *FrameWidget) {
	title := parent.Label(Txt("Detection Screen"), Anchor("center"))
	Grid(title, Row(0), Column(0), Columnspan(2), Sticky("we"), Pady("2m"))
	s.cameraBtn = parent.Button(Txt("Go To Camera"), Command(func() {
		if s.OnCamera != nil {
			s.OnCamera()
		}
	}))
	Grid(s.cameraBtn, Row(1), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	row := 2
	if s.Region != nil {
		regionBtn := parent.Button(Txt("Viewfinder Region"), Command(s.Region.OpenOrFocus))
		Grid(regionBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
		row++
	}
	if s.Settings != nil {
		s.Settings.Build(parent, row)
	}
}

func (s *DetectionScreen) Detach() {
	s.cameraBtn = nil
	if s.Settings != nil {
		s.Settings.Detach()
	}
}
