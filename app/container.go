package app

import (
	"image"
	"log/slog"

	"github.com/soocke/plant-cam-go/config"
	"github.com/soocke/plant-cam-go/domain/camera"
	"github.com/soocke/plant-cam-go/domain/capture"
	"github.com/soocke/plant-cam-go/domain/media"
	"github.com/soocke/plant-cam-go/domain/nav"
	"github.com/soocke/plant-cam-go/domain/permission"
	"github.com/soocke/plant-cam-go/ui/images"
	"github.com/soocke/plant-cam-go/ui/model"
	"github.com/soocke/plant-cam-go/ui/presenter"
	"github.com/soocke/plant-cam-go/ui/view"
)

// AppContainer assembles collaborators, models, presenters and views.
// Building it touches no Tk state; widgets are created by App.Start.
type AppContainer struct {
	Config  *config.Config
	CfgPath string
	Logger  *slog.Logger
	Title   string

	Dispatcher  *presenter.Dispatcher
	Dialogs     *view.Dialogs
	Frames      *camera.Service
	Device      *camera.Device
	Uploader    *media.LogUploader
	ReviewCache *images.ReviewCache
	Controller  *capture.Controller
	Nav         *nav.Navigator

	Camera  *model.CameraModel
	Session *model.SessionModel
	Region  *model.RegionModel

	RootView        *view.RootView
	CameraScreen    *view.CameraScreen
	DetectionScreen *view.DetectionScreen
	Settings        *view.SettingsPanel

	CameraPresenter  *presenter.CameraPresenter
	StatePresenter   *presenter.StatePresenter
	SessionPresenter *presenter.SessionPresenter
	PreviewPresenter *presenter.PreviewPresenter
	FocusWatcher     *presenter.FocusWatcher
	Loop             *presenter.Loop
}

// BuildContainer constructs all components and wires their listeners.
func BuildContainer(title string, cfg *config.Config, cfgPath string, logger *slog.Logger) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, CfgPath: cfgPath, Logger: logger, Title: title}
	c.Dispatcher = presenter.NewDispatcher()
	c.Dialogs = view.NewDialogs(c.Dispatcher, logger)
	c.Camera = &model.CameraModel{}
	c.Session = model.NewSessionModel()
	c.Region = model.NewRegionModel(image.Rect(cfg.RegionX, cfg.RegionY, cfg.RegionX+cfg.RegionW, cfg.RegionY+cfg.RegionH))

	c.Frames = camera.NewService(logger, c.source(), cfg.FrameInterval())
	c.Device = camera.NewDevice(logger, c.Frames, deviceOptions(cfg))
	c.Uploader = media.NewLogUploader(logger)
	cache, err := images.NewReviewCache(cfg.ReviewCacheSize)
	if err != nil {
		return nil, err
	}
	c.ReviewCache = cache

	perm, err := c.permission()
	if err != nil {
		return nil, err
	}
	flash, err := capture.ParseFlashMode(cfg.FlashMode)
	if err != nil {
		logger.Warn("flash mode", "error", err)
	}
	c.Controller = capture.NewController(logger, capture.Collaborators{
		Camera:     c.Device,
		Permission: perm,
		Picker:     media.NewPicker(c.Dialogs.OpenFile),
		Reader:     media.FileReader{},
		Uploader:   c.Uploader,
		Notifier:   c.Dialogs,
	}, capture.Options{
		InitialFlash:      flash,
		PermissionTimeout: cfg.PermissionTimeout(),
		CaptureTimeout:    cfg.CaptureTimeout(),
		PickerTimeout:     cfg.PickerTimeout(),
		UploadTimeout:     cfg.UploadTimeout(),
		Pick:              capture.PickOptions{Title: "Choose a plant photo", Extensions: media.DefaultExtensions},
	})

	c.Nav = nav.New(logger)
	c.buildViews()
	c.buildPresenters()
	c.wire()
	return c, nil
}

// source selects the camera backend. A backend that cannot be created
// yields a nil source, reported later as "camera not found".
func (c *AppContainer) source() camera.Source {
	switch c.Config.Camera {
	case "webcam":
		src, err := camera.NewWebcamSource(c.Config.WebcamDevice)
		if err != nil {
			c.Logger.Error("webcam backend", "device", c.Config.WebcamDevice, "error", err)
			return nil
		}
		return src
	default:
		return camera.NewScreenSource(c.Region.Provider)
	}
}

func (c *AppContainer) permission() (capture.PermissionProvider, error) {
	mode, err := permission.ParseMode(c.Config.CameraPermission)
	if err != nil {
		return nil, err
	}
	switch mode {
	case permission.ModeGranted:
		return permission.NewStatic(capture.PermissionGranted), nil
	case permission.ModeDenied:
		return permission.NewStatic(capture.PermissionDenied), nil
	default:
		return permission.NewDialog(c.Logger, c.Dialogs.Ask), nil
	}
}

func deviceOptions(cfg *config.Config) camera.DeviceOptions {
	return camera.DeviceOptions{
		PhotoDir:    cfg.PhotoDir,
		JPEGQuality: cfg.JPEGQuality,
		Flash:       camera.FlashOptions{Boost: cfg.FlashBoost, AutoThreshold: uint8(cfg.FlashAutoThreshold)},
	}
}

func (c *AppContainer) buildViews() {
	w, h := c.Config.WindowWidth-40, c.Config.WindowHeight-220
	c.RootView = view.NewRootView(c.Logger)
	c.CameraScreen = view.NewCameraScreen(w, h, c.Logger)
	c.Settings = view.NewSettingsPanel(c.Config, c.CfgPath, c.Logger)
	region := view.NewRegionOverlay(c.Config, c.CfgPath, c.Region, c.Logger)
	if c.Config.Camera != "screen" {
		region = nil
	}
	c.DetectionScreen = view.NewDetectionScreen(c.openCamera, region, c.Settings, c.Logger)
	c.RootView.Register(nav.RoutePlantDetection, c.DetectionScreen)
	c.RootView.Register(nav.RouteCamera, c.CameraScreen)
}

func (c *AppContainer) buildPresenters() {
	c.CameraPresenter = presenter.NewCameraPresenter(c.Controller, c.Nav, c.Camera, c.CameraScreen, c.Logger)
	c.StatePresenter = presenter.NewStatePresenter(c.RootView)
	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, c.Camera, c.RootView)
	w, h := c.CameraScreen.PreviewSize()
	c.PreviewPresenter = presenter.NewPreviewPresenter(func() bool {
		return c.Camera.Active() && !c.Camera.Reviewing()
	}, c.Device, c.CameraScreen, c.ReviewCache, w, h, c.Logger)
	c.FocusWatcher = presenter.NewFocusWatcher(uiFocus{c.Dispatcher, c.Nav}, c.Logger, nil, func() string { return c.Title })
	c.Loop = presenter.NewLoop(c.Dispatcher, c.CameraPresenter, c.StatePresenter, c.SessionPresenter, c.PreviewPresenter, nil)
}

func (c *AppContainer) wire() {
	c.Controller.AddListener(c.StatePresenter.OnState)
	c.Controller.AddChangeListener(c.CameraPresenter.OnChange)
	c.Controller.AddErrorListener(c.CameraPresenter.OnError)
	c.CameraPresenter.OnReview = c.PreviewPresenter.ShowReview
	c.CameraScreen.Actions = c.CameraPresenter
	c.CameraScreen.OnBuilt = c.CameraPresenter.Redraw
	c.Settings.OnApply = c.applySettings

	c.Nav.Register(nav.RoutePlantDetection, nav.ScreenFunc{})
	c.Nav.Register(nav.RouteCamera, nav.ScreenFunc{Focus: c.Controller.Focus, Blur: c.Controller.Blur})
	c.Nav.AddListener(func(prev, next string) {
		// Leaving the camera screen ends its instance.
		if prev == nav.RouteCamera && next != nav.RouteCamera {
			c.Controller.Reset()
		}
		if err := c.RootView.Show(next); err != nil {
			c.Logger.Error("show screen", "route", next, "error", err)
		}
	})
}

func (c *AppContainer) openCamera() {
	if err := c.Nav.Push(nav.RouteCamera); err != nil {
		c.Logger.Error("navigate", "route", nav.RouteCamera, "error", err)
	}
}

// applySettings pushes edited still options to the device. Timeouts and
// the frame interval take effect on the next start.
func (c *AppContainer) applySettings(cfg *config.Config) {
	c.Device.Configure(deviceOptions(cfg))
	c.Logger.Info("settings applied", "jpeg_quality", cfg.JPEGQuality, "flash_boost", cfg.FlashBoost)
}

// RuntimeStats returns camera and upload counters for the debug loggers.
func (c *AppContainer) RuntimeStats() []slog.Attr {
	st := c.Device.Stats()
	return []slog.Attr{
		slog.Uint64("frames", st.Frames),
		slog.Uint64("skipped", st.Skipped),
		slog.Uint64("photos", st.Photos),
		slog.Duration("avg_grab", st.AvgGrab),
		slog.Uint64("uploads", c.Uploader.Uploads()),
		slog.Int("review_cache", c.ReviewCache.Len()),
		slog.Int("camera_sessions", c.Session.Sessions()),
	}
}

// Close releases the controller, the camera and background watchers.
func (c *AppContainer) Close() {
	c.FocusWatcher.Stop()
	c.PreviewPresenter.Close()
	c.Controller.Close()
	if err := c.Device.Close(); err != nil {
		c.Logger.Warn("camera close", "error", err)
	}
	c.ReviewCache.Purge()
}

// uiFocus forwards window focus reports from the watcher goroutine to the
// navigator on the UI thread.
type uiFocus struct {
	ui  *presenter.Dispatcher
	nav *nav.Navigator
}

func (f uiFocus) SetWindowFocused(focused bool) {
	f.ui.Post(func() { f.nav.SetWindowFocused(focused) })
}
