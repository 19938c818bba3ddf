// Package config loads the YAML configuration of the recognizer.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/ishara/internal/sign"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// CameraConfig selects and tunes the capture source.
type CameraConfig struct {
	Device string `yaml:"device"` // camera index ("0") or video file path
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"` // also the tick rate of the frame loop
}

// DetectorConfig tunes the landmark provider.
type DetectorConfig struct {
	MaxHands              int     `yaml:"max_hands"`
	MinConfidence         float64 `yaml:"min_confidence"`
	MinTrackingConfidence float64 `yaml:"min_tracking_confidence"`
	Script                string  `yaml:"script"` // landmark service script; searched for when empty
	Python                string  `yaml:"python"` // interpreter; venv or python3 when empty
}

// ClassifierConfig tunes the pose classifier.
type ClassifierConfig struct {
	OKTolerance float64 `yaml:"ok_tolerance"`
}

// DisplayConfig describes the window.
type DisplayConfig struct {
	Title    string  `yaml:"title"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Font     string  `yaml:"font"`      // TTF with Arabic presentation forms
	FontSize float64 `yaml:"font_size"` // points
	Tray     bool    `yaml:"tray"`      // also show a system tray menu
}

// Config aggregates all application configuration.
type Config struct {
	Camera     CameraConfig      `yaml:"camera"`
	Detector   DetectorConfig    `yaml:"detector"`
	Classifier ClassifierConfig  `yaml:"classifier"`
	Display    DisplayConfig     `yaml:"display"`
	Phrases    map[string]string `yaml:"phrases,omitempty"` // sign key -> phrase
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Camera: CameraConfig{
			Device: "0",
			Width:  640,
			Height: 480,
			FPS:    30,
		},
		Detector: DetectorConfig{
			MaxHands:              2,
			MinConfidence:         0.5,
			MinTrackingConfidence: 0.5,
		},
		Classifier: ClassifierConfig{
			OKTolerance: sign.DefaultOKTolerance,
		},
		Display: DisplayConfig{
			Title:    "Ishara",
			Width:    400,
			Height:   600,
			Font:     "Amiri-Regular.ttf",
			FontSize: 26,
		},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and phrase keys.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Camera.Device) == "" {
		return fmt.Errorf("%w: camera.device is required", ErrInvalid)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("%w: camera size must be positive, got %dx%d", ErrInvalid, c.Camera.Width, c.Camera.Height)
	}
	if c.Camera.FPS < 1 || c.Camera.FPS > 120 {
		return fmt.Errorf("%w: camera.fps must be between 1 and 120, got %d", ErrInvalid, c.Camera.FPS)
	}
	if c.Detector.MaxHands < 1 || c.Detector.MaxHands > 4 {
		return fmt.Errorf("%w: detector.max_hands must be between 1 and 4, got %d", ErrInvalid, c.Detector.MaxHands)
	}
	if !unit(c.Detector.MinConfidence) {
		return fmt.Errorf("%w: detector.min_confidence must be between 0 and 1, got %.2f", ErrInvalid, c.Detector.MinConfidence)
	}
	if !unit(c.Detector.MinTrackingConfidence) {
		return fmt.Errorf("%w: detector.min_tracking_confidence must be between 0 and 1, got %.2f", ErrInvalid, c.Detector.MinTrackingConfidence)
	}
	if c.Classifier.OKTolerance <= 0 || c.Classifier.OKTolerance > 0.5 {
		return fmt.Errorf("%w: classifier.ok_tolerance must be in (0, 0.5], got %.3f", ErrInvalid, c.Classifier.OKTolerance)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("%w: display size must be positive, got %dx%d", ErrInvalid, c.Display.Width, c.Display.Height)
	}
	if c.Display.FontSize <= 0 {
		return fmt.Errorf("%w: display.font_size must be > 0", ErrInvalid)
	}
	for key := range c.Phrases {
		if _, err := sign.ParseKey(key); err != nil {
			return fmt.Errorf("%w: phrases: %v", ErrInvalid, err)
		}
	}
	return nil
}

// TickPeriod returns the frame loop period.
func (c *Config) TickPeriod() time.Duration {
	return time.Second / time.Duration(c.Camera.FPS)
}

// CameraDevice returns the device as an index when numeric, otherwise as a
// file path, matching what gocv.OpenVideoCapture accepts.
func (c *Config) CameraDevice() interface{} {
	if id, err := strconv.Atoi(strings.TrimSpace(c.Camera.Device)); err == nil {
		return id
	}
	return c.Camera.Device
}

// Phrasebook returns the default phrases with the configured overrides.
func (c *Config) Phrasebook() (*sign.Phrasebook, error) {
	return sign.DefaultPhrasebook().WithOverrides(c.Phrases)
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
