package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appDir = "plant-cam"

// Config holds runtime configuration for the camera screen and app behavior.
// Fields may be loaded from a JSON or YAML file and overridden by command-line flags.
type Config struct {
	Debug        bool   `json:"debug" yaml:"debug"`
	InitialRoute string `json:"initial_route" yaml:"initial_route"`
	WindowWidth  int    `json:"window_width" yaml:"window_width"`
	WindowHeight int    `json:"window_height" yaml:"window_height"`

	// Camera backend
	Camera          string `json:"camera" yaml:"camera"` // screen | webcam
	WebcamDevice    int    `json:"webcam_device" yaml:"webcam_device"`
	FrameIntervalMs int    `json:"frame_interval_ms" yaml:"frame_interval_ms"`
	PhotoDir        string `json:"photo_dir" yaml:"photo_dir"`
	JPEGQuality     int    `json:"jpeg_quality" yaml:"jpeg_quality"`

	// Flash
	FlashMode          string  `json:"flash_mode" yaml:"flash_mode"` // off | on | auto
	FlashBoost         float64 `json:"flash_boost" yaml:"flash_boost"`
	FlashAutoThreshold int     `json:"flash_auto_threshold" yaml:"flash_auto_threshold"`

	CameraPermission string `json:"camera_permission" yaml:"camera_permission"` // granted | denied | prompt

	// Collaborator timeouts; zero disables the bound
	CaptureTimeoutMs    int `json:"capture_timeout_ms" yaml:"capture_timeout_ms"`
	UploadTimeoutMs     int `json:"upload_timeout_ms" yaml:"upload_timeout_ms"`
	PermissionTimeoutMs int `json:"permission_timeout_ms" yaml:"permission_timeout_ms"`
	PickerTimeoutMs     int `json:"picker_timeout_ms" yaml:"picker_timeout_ms"`

	ReviewCacheSize int `json:"review_cache_size" yaml:"review_cache_size"`

	// Screen region used as viewfinder by the screen backend (zero = full screen)
	RegionX int `json:"region_x" yaml:"region_x"`
	RegionY int `json:"region_y" yaml:"region_y"`
	RegionW int `json:"region_w" yaml:"region_w"`
	RegionH int `json:"region_h" yaml:"region_h"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:               false,
		InitialRoute:        "PlantDetection",
		WindowWidth:         480,
		WindowHeight:        800,
		Camera:              "screen",
		WebcamDevice:        0,
		FrameIntervalMs:     33,
		PhotoDir:            DefaultPhotoDir(),
		JPEGQuality:         90,
		FlashMode:           "off",
		FlashBoost:          35,
		FlashAutoThreshold:  90,
		CameraPermission:    "prompt",
		CaptureTimeoutMs:    10000,
		UploadTimeoutMs:     30000,
		PermissionTimeoutMs: 0,
		PickerTimeoutMs:     0,
		ReviewCacheSize:     8,
	}
}

// DefaultPath returns the config file location under the XDG config dir.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(appDir, "config.json"))
}

// DefaultPhotoDir returns the still directory under the XDG cache dir.
func DefaultPhotoDir() string {
	return filepath.Join(xdg.CacheHome, appDir, "photos")
}

// Validate clamps/normalizes values to safe ranges. Unknown enum values are
// reset to their default and reported.
func (c *Config) Validate() error {
	d := DefaultConfig()
	var errs []error
	c.Camera = strings.ToLower(strings.TrimSpace(c.Camera))
	switch c.Camera {
	case "screen", "webcam":
	default:
		errs = append(errs, fmt.Errorf("camera %q: want screen or webcam", c.Camera))
		c.Camera = d.Camera
	}
	c.FlashMode = strings.ToLower(strings.TrimSpace(c.FlashMode))
	switch c.FlashMode {
	case "off", "on", "auto":
	case "":
		c.FlashMode = d.FlashMode
	default:
		errs = append(errs, fmt.Errorf("flash_mode %q: want off, on or auto", c.FlashMode))
		c.FlashMode = d.FlashMode
	}
	c.CameraPermission = strings.ToLower(strings.TrimSpace(c.CameraPermission))
	switch c.CameraPermission {
	case "granted", "denied", "prompt":
	case "":
		c.CameraPermission = d.CameraPermission
	default:
		errs = append(errs, fmt.Errorf("camera_permission %q: want granted, denied or prompt", c.CameraPermission))
		c.CameraPermission = d.CameraPermission
	}
	if strings.TrimSpace(c.InitialRoute) == "" {
		c.InitialRoute = d.InitialRoute
	}
	if c.WindowWidth < 200 {
		c.WindowWidth = d.WindowWidth
	}
	if c.WindowHeight < 200 {
		c.WindowHeight = d.WindowHeight
	}
	if c.WebcamDevice < 0 {
		c.WebcamDevice = 0
	}
	if c.FrameIntervalMs <= 0 {
		c.FrameIntervalMs = d.FrameIntervalMs
	}
	if c.PhotoDir == "" {
		c.PhotoDir = d.PhotoDir
	}
	if c.JPEGQuality <= 0 || c.JPEGQuality > 100 {
		c.JPEGQuality = d.JPEGQuality
	}
	if c.FlashBoost <= 0 || c.FlashBoost > 100 {
		c.FlashBoost = d.FlashBoost
	}
	if c.FlashAutoThreshold <= 0 || c.FlashAutoThreshold > 255 {
		c.FlashAutoThreshold = d.FlashAutoThreshold
	}
	for _, ms := range []*int{&c.CaptureTimeoutMs, &c.UploadTimeoutMs, &c.PermissionTimeoutMs, &c.PickerTimeoutMs} {
		if *ms < 0 {
			*ms = 0
		}
	}
	if c.ReviewCacheSize <= 0 {
		c.ReviewCacheSize = d.ReviewCacheSize
	}
	if c.RegionW < 0 || c.RegionH < 0 {
		c.RegionW, c.RegionH = 0, 0
	}
	return errors.Join(errs...)
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func (c *Config) CaptureTimeout() time.Duration    { return ms(c.CaptureTimeoutMs) }
func (c *Config) UploadTimeout() time.Duration     { return ms(c.UploadTimeoutMs) }
func (c *Config) PermissionTimeout() time.Duration { return ms(c.PermissionTimeoutMs) }
func (c *Config) PickerTimeout() time.Duration     { return ms(c.PickerTimeoutMs) }
func (c *Config) FrameInterval() time.Duration     { return ms(c.FrameIntervalMs) }

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load attempts to read configuration from the given file path (JSON, or YAML
// for .yaml/.yml). If the file does not exist it returns DefaultConfig(). On
// decode error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	if isYAML(path) {
		err = yaml.NewDecoder(f).Decode(cfg)
	} else {
		err = json.NewDecoder(f).Decode(cfg)
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration to the given path, creating its directory.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if isYAML(path) {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
