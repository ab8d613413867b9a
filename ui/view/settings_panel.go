package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/plant-cam-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// SettingsPanel is the camera settings form. It writes back into
// *config.Config on ApplyChanges and persists the file.
type SettingsPanel struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	// OnApply runs after a valid change was stored.
	OnApply func(*config.Config)

	applyBtn *ButtonWidget
	status   *LabelWidget
	widgets  map[string]*TextWidget // keyed by field id
}

func NewSettingsPanel(cfg *config.Config, cfgPath string, logger *slog.Logger) *SettingsPanel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SettingsPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, widgets: make(map[string]*TextWidget)}
}

// Build creates the form in parent starting at startRow and returns the
// next free row.
func (v *SettingsPanel) Build(parent *FrameWidget, startRow int) (row int) {
	c := v.cfg
	row = startRow
	clear(v.widgets)
	makeRow := func(id, label, value string) {
		lbl := parent.Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := parent.Text(Height(1), Width(16))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("flashMode", "Initial Flash (off/on/auto)", c.FlashMode)
	makeRow("jpegQuality", "JPEG Quality (1-100)", strconv.Itoa(c.JPEGQuality))
	makeRow("flashBoost", "Flash Boost (%)", fmt.Sprintf("%.1f", c.FlashBoost))
	makeRow("flashAutoThreshold", "Auto Flash Threshold (0-255)", strconv.Itoa(c.FlashAutoThreshold))
	makeRow("frameIntervalMs", "Frame Interval ms", strconv.Itoa(c.FrameIntervalMs))
	makeRow("captureTimeoutMs", "Capture Timeout ms (0 = none)", strconv.Itoa(c.CaptureTimeoutMs))
	makeRow("uploadTimeoutMs", "Upload Timeout ms (0 = none)", strconv.Itoa(c.UploadTimeoutMs))
	makeRow("photoDir", "Photo Folder", c.PhotoDir)
	v.applyBtn = parent.Button(Txt("Apply Changes"), Command(v.ApplyChanges))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	v.status = parent.Label(Txt(""), Anchor("w"))
	Grid(v.status, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"))
	row++
	return row
}

// Detach forgets widgets destroyed with their parent.
func (v *SettingsPanel) Detach() {
	clear(v.widgets)
	v.applyBtn, v.status = nil, nil
}

func (v *SettingsPanel) SetEditable(enabled bool) {
	st := State(widgetState(enabled))
	for _, w := range v.widgets {
		w.Configure(st)
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(st)
	}
}

func (v *SettingsPanel) text(id string) (string, bool) {
	w := v.widgets[id]
	if w == nil {
		return "", false
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), "")), true
}

func (v *SettingsPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	values := make(map[string]string, len(v.widgets))
	for id := range v.widgets {
		if s, ok := v.text(id); ok {
			values[id] = s
		}
	}
	cfg, err := applyFields(*v.cfg, values)
	if err != nil {
		v.setStatus(err.Error())
		v.logger.Warn("settings rejected", "error", err)
		return
	}
	*v.cfg = cfg
	if v.OnApply != nil {
		v.OnApply(v.cfg)
	}
	if err := v.cfg.Save(v.cfgPath); err != nil {
		v.logger.Error("config save failed", "error", err)
		v.setStatus("Saved for this session only.")
		return
	}
	v.logger.Info("config saved", "path", v.cfgPath)
	v.setStatus("Settings saved.")
}

func (v *SettingsPanel) setStatus(s string) {
	if v.status != nil {
		v.status.Configure(Txt(s))
	}
}

// applyFields parses form values onto a copy of cfg. Fields that do not
// parse keep their previous value. Validate clamps ranges and rejects
// unknown flash modes.
func applyFields(cfg config.Config, values map[string]string) (config.Config, error) {
	assignInt := func(id string, dst *int) {
		if i, err := strconv.Atoi(values[id]); err == nil {
			*dst = i
		}
	}
	assignFloat := func(id string, dst *float64) {
		if f, err := strconv.ParseFloat(values[id], 64); err == nil {
			*dst = f
		}
	}
	if s := values["flashMode"]; s != "" {
		cfg.FlashMode = s
	}
	if s := values["photoDir"]; s != "" {
		cfg.PhotoDir = s
	}
	assignInt("jpegQuality", &cfg.JPEGQuality)
	assignFloat("flashBoost", &cfg.FlashBoost)
	assignInt("flashAutoThreshold", &cfg.FlashAutoThreshold)
	assignInt("frameIntervalMs", &cfg.FrameIntervalMs)
	assignInt("captureTimeoutMs", &cfg.CaptureTimeoutMs)
	assignInt("uploadTimeoutMs", &cfg.UploadTimeoutMs)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
