package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/bubblepop"
	"github.com/phanxgames/bubblepop/internal/logging"
	"github.com/phanxgames/bubblepop/internal/thought"
)

const (
	DefaultWidth         = 800
	DefaultHeight        = 600
	DefaultTitle         = "bubblepop"
	DefaultScreenshotDir = "screenshots"
	DefaultLogLevel      = "info"

	// APIKeyEnv names the environment variable holding the Gemini API key.
	APIKeyEnv = "GEMINI_API_KEY"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Window        WindowConfig     `yaml:"window"`
	Simulation    SimulationConfig `yaml:"simulation"`
	Popup         PopupConfig      `yaml:"popup"`
	Thought       ThoughtConfig    `yaml:"thought"`
	Log           LogConfig        `yaml:"log"`
	ScreenshotDir string           `yaml:"screenshot_dir"`

	// APIKey is never read from or written to YAML; see LoadEnv.
	APIKey string `yaml:"-"`
}

type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable bool   `yaml:"resizable"`
	ShowFPS   bool   `yaml:"show_fps"`
}

// SimulationConfig seeds the RNG and overrides the bubble lifecycle
// constants. A zero Seed picks a random one.
type SimulationConfig struct {
	Seed            uint64     `yaml:"seed"`
	Preset          string     `yaml:"preset,omitempty"`
	InitialBubbles  int        `yaml:"initial_bubbles"`
	SpawnRadius     float64    `yaml:"spawn_radius"`
	GrowthStep      float64    `yaml:"growth_step"`
	WobbleAmplitude float64    `yaml:"wobble_amplitude"`
	Speed           [2]float64 `yaml:"speed,flow"`
	MaxRadius       [2]float64 `yaml:"max_radius,flow"`
	WobbleSpeed     [2]float64 `yaml:"wobble_speed,flow"`
}

type PopupConfig struct {
	Interval Duration `yaml:"interval"`
}

type ThoughtConfig struct {
	Model     string   `yaml:"model"`
	BaseURL   string   `yaml:"base_url"`
	Attempts  int      `yaml:"attempts"`
	BaseDelay Duration `yaml:"base_delay"`
	Timeout   Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Duration is a time.Duration written as a Go duration string ("2m", "1s")
// in YAML.
type Duration time.Duration

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("config: duration: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func simulationFromTuning(t bubblepop.Tuning) SimulationConfig {
	return SimulationConfig{
		InitialBubbles:  t.InitialBubbles,
		SpawnRadius:     t.SpawnRadius,
		GrowthStep:      t.GrowthStep,
		WobbleAmplitude: t.WobbleAmplitude,
		Speed:           [2]float64{t.Speed.Min, t.Speed.Max},
		MaxRadius:       [2]float64{t.MaxRadius.Min, t.MaxRadius.Max},
		WobbleSpeed:     [2]float64{t.WobbleSpeed.Min, t.WobbleSpeed.Max},
	}
}

func DefaultConfig() *Config {
	retry := thought.DefaultRetryConfig()
	return &Config{
		Window: WindowConfig{
			Title:     DefaultTitle,
			Width:     DefaultWidth,
			Height:    DefaultHeight,
			Resizable: true,
		},
		Simulation: simulationFromTuning(bubblepop.DefaultTuning()),
		Popup:      PopupConfig{Interval: Duration(bubblepop.DefaultPopupInterval)},
		Thought: ThoughtConfig{
			Model:     thought.DefaultModel,
			BaseURL:   thought.DefaultBaseURL,
			Attempts:  retry.Attempts,
			BaseDelay: Duration(retry.BaseDelay),
			Timeout:   Duration(thought.DefaultTimeout),
		},
		Log:           LogConfig{Level: DefaultLogLevel},
		ScreenshotDir: DefaultScreenshotDir,
	}
}

// Load reads a YAML file over DefaultConfig, so omitted keys keep their
// defaults. When simulation.preset is set, the preset replaces the file's
// tuning values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Simulation.Preset != "" {
		if err := cfg.ApplyPreset(cfg.Simulation.Preset); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Tuning converts the simulation section to bubblepop.Tuning.
func (c *Config) Tuning() bubblepop.Tuning {
	s := c.Simulation
	return bubblepop.Tuning{
		InitialBubbles:  s.InitialBubbles,
		SpawnRadius:     s.SpawnRadius,
		GrowthStep:      s.GrowthStep,
		WobbleAmplitude: s.WobbleAmplitude,
		Speed:           bubblepop.Range{Min: s.Speed[0], Max: s.Speed[1]},
		MaxRadius:       bubblepop.Range{Min: s.MaxRadius[0], Max: s.MaxRadius[1]},
		WobbleSpeed:     bubblepop.Range{Min: s.WobbleSpeed[0], Max: s.WobbleSpeed[1]},
	}
}

// Retry converts the thought section to thought.RetryConfig.
func (c *Config) Retry() thought.RetryConfig {
	return thought.RetryConfig{Attempts: c.Thought.Attempts, BaseDelay: c.Thought.BaseDelay.Std()}
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (logging.Level, error) {
	return logging.ParseLevel(c.Log.Level)
}

// Validate reports every problem found, each wrapping ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}

	s := c.Simulation
	if s.InitialBubbles < 0 {
		bad("simulation.initial_bubbles %d is negative", s.InitialBubbles)
	}
	if s.SpawnRadius <= 0 {
		bad("simulation.spawn_radius %v must be positive", s.SpawnRadius)
	}
	if s.GrowthStep < 0 {
		bad("simulation.growth_step %v is negative", s.GrowthStep)
	}
	for name, r := range map[string][2]float64{
		"speed":        s.Speed,
		"max_radius":   s.MaxRadius,
		"wobble_speed": s.WobbleSpeed,
	} {
		if r[0] > r[1] {
			bad("simulation.%s min %v exceeds max %v", name, r[0], r[1])
		}
	}
	if s.MaxRadius[0] < s.SpawnRadius {
		bad("simulation.max_radius min %v is below spawn_radius %v", s.MaxRadius[0], s.SpawnRadius)
	}

	if c.Popup.Interval <= 0 {
		bad("popup.interval %v must be positive", c.Popup.Interval.Std())
	}
	if c.Thought.Model == "" {
		bad("thought.model is empty")
	}
	if c.Thought.Attempts < 1 {
		bad("thought.attempts %d must be at least 1", c.Thought.Attempts)
	}
	if c.Thought.BaseDelay < 0 {
		bad("thought.base_delay %v is negative", c.Thought.BaseDelay.Std())
	}
	if _, err := c.LogLevel(); err != nil {
		bad("log.level: %v", err)
	}
	return errors.Join(errs...)
}
