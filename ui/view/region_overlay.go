package view

import (
	"fmt"
	"image"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/vova616/screenshot"

	"github.com/soocke/plant-cam-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// RegionStore receives the chosen viewfinder region.
type RegionStore interface {
	Set(r image.Rectangle)
	Region() image.Rectangle
}

// RegionOverlay is a see-through window the user drags and resizes over
// the part of the screen the screen camera should use as viewfinder.
type RegionOverlay struct {
	logger  *slog.Logger
	cfg     *config.Config
	cfgPath string
	store   RegionStore
	win     *ToplevelWidget
}

func NewRegionOverlay(cfg *config.Config, cfgPath string, store RegionStore, logger *slog.Logger) *RegionOverlay {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RegionOverlay{logger: logger, cfg: cfg, cfgPath: cfgPath, store: store}
}

// OpenOrFocus shows the overlay, initially over the stored region or the
// middle of the screen.
func (v *RegionOverlay) OpenOrFocus() {
	if v.win != nil {
		WmGeometry(v.win.Window)
		return
	}
	win := App.Toplevel(Borderwidth(2), Background("#008080"))
	win.WmTitle("Viewfinder Region")
	v.win = win
	WmGeometry(win.Window, initialGeometry(v.store.Region(), screenBounds()))
	WmAttributes(win.Window, "-topmost", 1)
	WmAttributes(win.Window, "-alpha", 0.6)
	GridRowConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 0, Weight(1))
	center := win.Frame(Background("#008080"))
	Grid(center, Row(0), Column(0), Sticky("nsew"))
	controls := win.Frame()
	Grid(controls, Row(1), Column(0), Sticky("we"))
	confirm := controls.Button(Txt("Use Region [Enter]"), Command(v.confirm))
	Grid(confirm, Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	cancel := controls.Button(Txt("Cancel [Esc]"), Command(v.destroy))
	Grid(cancel, Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	clear := controls.Button(Txt("Full Screen"), Command(v.Clear))
	Grid(clear, Row(0), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(win, "<Return>", Command(v.confirm))
	Bind(win, "<Escape>", Command(v.destroy))
	WmProtocol(win.Window, "WM_DELETE_WINDOW", v.destroy)
}

// Clear resets the viewfinder to the full screen.
func (v *RegionOverlay) Clear() {
	v.store.Set(image.Rectangle{})
	v.persist(image.Rectangle{})
	v.destroy()
}

func (v *RegionOverlay) confirm() {
	if v.win == nil {
		return
	}
	geom := WmGeometry(v.win.Window)
	rect, ok := parseGeometry(geom)
	if !ok {
		v.logger.Error("region geometry", "geometry", geom)
		return
	}
	v.store.Set(rect)
	v.persist(rect)
	v.destroy()
}

func (v *RegionOverlay) persist(r image.Rectangle) {
	if v.cfg == nil {
		return
	}
	v.cfg.RegionX, v.cfg.RegionY = r.Min.X, r.Min.Y
	v.cfg.RegionW, v.cfg.RegionH = r.Dx(), r.Dy()
	if err := v.cfg.Save(v.cfgPath); err != nil {
		v.logger.Error("config save failed", "error", err)
		return
	}
	v.logger.Info("viewfinder region saved", "region", r.String())
}

func (v *RegionOverlay) destroy() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
	}
}

// screenBounds queries the primary screen and falls back to 1920x1080.
func screenBounds() image.Rectangle {
	r, err := screenshot.ScreenRect()
	if err != nil || r.Empty() {
		return image.Rect(0, 0, 1920, 1080)
	}
	return r
}

// initialGeometry places the overlay over region, or centres a window of
// two thirds of the screen when region is empty.
func initialGeometry(region, screen image.Rectangle) string {
	if !region.Empty() {
		return fmt.Sprintf("%dx%d+%d+%d", region.Dx(), region.Dy(), region.Min.X, region.Min.Y)
	}
	w, h := max(screen.Dx()*2/3, 1), max(screen.Dy()*5/9, 1)
	x, y := screen.Min.X+(screen.Dx()-w)/2, screen.Min.Y+(screen.Dy()-h)/2
	return fmt.Sprintf("%dx%d+%d+%d", w, h, x, y)
}

// geomRe matches window geometry strings in the format "WIDTHxHEIGHT+X+Y".
var geomRe = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

// parseGeometry parses a Tk geometry string into a rectangle.
func parseGeometry(g string) (image.Rectangle, bool) {
	m := geomRe.FindStringSubmatch(strings.TrimSpace(g))
	if len(m) != 5 {
		return image.Rectangle{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, _ := strconv.Atoi(m[3])
	y, _ := strconv.Atoi(m[4])
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}
