// Package config loads the demo's YAML configuration.
//
// Example:
//
//	backend: xinput
//	fps: 60
//	input:
//	  slot: 0
//	  deadzone: 7849
//	  quit_key: VK_ESCAPE
//	  quit_button: Back
//	scene:
//	  width: 640
//	  height: 480
//	  speed: 240
//	trace:
//	  dir: traces
//	logging:
//	  file: demo.log
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"nakazima/padinput/internal/input"
)

// Backends understood by the demo.
const (
	BackendXInput = "xinput" // XInput controller, GetAsyncKeyState keyboard
	BackendHook   = "hook"   // XInput controller, low-level keyboard hook
	BackendGLFW   = "glfw"   // GLFW window keyboard and gamepad
	BackendReplay = "replay" // recorded trace
)

type Config struct {
	Backend   string          `yaml:"backend"`
	FPS       int             `yaml:"fps"`
	Input     InputConfig     `yaml:"input"`
	Scene     SceneConfig     `yaml:"scene"`
	Trace     TraceConfig     `yaml:"trace"`
	Logging   LoggingConfig   `yaml:"logging"`
	StatsView StatsViewConfig `yaml:"statsview"`
}

type InputConfig struct {
	Slot     uint32 `yaml:"slot"`
	Deadzone int16  `yaml:"deadzone"`
	QuitKey  string `yaml:"quit_key"`

	// QuitButton is a controller button name such as "Back" or "Start".
	// Empty disables quitting from the controller.
	QuitButton string `yaml:"quit_button"`
}

type SceneConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
	Speed  float32 `yaml:"speed"`
}

type TraceConfig struct {
	Dir    string `yaml:"dir"`    // record into this directory when set
	Replay string `yaml:"replay"` // trace file for the replay backend
}

type LoggingConfig struct {
	File string `yaml:"file"` // empty logs to stdout
}

type StatsViewConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Backend: BackendXInput,
		FPS:     60,
		Input: InputConfig{
			Deadzone:   input.DefaultDeadzone,
			QuitKey:    input.KeyEscape.String(),
			QuitButton: "Back",
		},
		Scene: SceneConfig{
			Width:  640,
			Height: 480,
			Speed:  240,
		},
		StatsView: StatsViewConfig{
			Addr: "localhost:18066",
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// QuitKey resolves Input.QuitKey.
func (c *Config) QuitKey() (input.Key, error) {
	return input.ParseKey(c.Input.QuitKey)
}

// QuitButton resolves Input.QuitButton. An empty name yields 0, which never
// triggers.
func (c *Config) QuitButton() (input.Button, error) {
	if c.Input.QuitButton == "" {
		return 0, nil
	}
	return input.ParseButton(c.Input.QuitButton)
}

// Validate checks the values the demo cannot run without.
func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendXInput, BackendHook, BackendGLFW:
	case BackendReplay:
		if c.Trace.Replay == "" {
			errs = append(errs, errors.New("replay backend needs trace.replay"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if c.FPS <= 0 || c.FPS > 1000 {
		errs = append(errs, fmt.Errorf("fps %d out of range 1-1000", c.FPS))
	}
	if c.Input.Deadzone < 0 {
		errs = append(errs, fmt.Errorf("deadzone %d is negative", c.Input.Deadzone))
	}
	if c.Scene.Width <= 0 || c.Scene.Height <= 0 {
		errs = append(errs, fmt.Errorf("scene size %gx%g is empty", c.Scene.Width, c.Scene.Height))
	}
	if _, err := c.QuitKey(); err != nil {
		errs = append(errs, fmt.Errorf("quit_key: %w", err))
	}
	if _, err := c.QuitButton(); err != nil {
		errs = append(errs, fmt.Errorf("quit_button: %w", err))
	}
	if c.StatsView.Enabled && c.StatsView.Addr == "" {
		errs = append(errs, errors.New("statsview enabled without addr"))
	}
	return errors.Join(errs...)
}
