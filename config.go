package spheredemo

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chewxy/math32"
	"github.com/pelletier/go-toml/v2"

	"github.com/gekko3d/spheredemo/effect"
)

// Intensity bounds of the sphere material gain.
const (
	MinIntensity  = 1.0
	MaxIntensity  = 10.0
	IntensityStep = 0.1
)

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type FractalConfig struct {
	Intensity float32 `toml:"intensity"`
	Jitter    float32 `toml:"jitter"`
	Density   float32 `toml:"density"`
	Amount    float32 `toml:"amount"`
}

// Config is the demo's file configuration. Flags override it.
type Config struct {
	Window     WindowConfig  `toml:"window"`
	Effect     string        `toml:"effect"`
	Resolution int           `toml:"resolution"`
	Intensity  float32       `toml:"intensity"`
	Additive   bool          `toml:"additive"`
	Fractal    FractalConfig `toml:"fractal"`
	MaxDtMs    int           `toml:"max_dt_ms"`
	ShaderDir  string        `toml:"shader_dir"`
	CaptureDir string        `toml:"capture_dir"`
	Debug      bool          `toml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Sphere Demo",
		},
		Effect:     effect.EffectSphere.String(),
		Resolution: 512,
		Intensity:  2.0,
		Fractal: FractalConfig{
			Intensity: 2.2,
			Jitter:    0,
			Density:   0,
			Amount:    1,
		},
		MaxDtMs:    int(DefaultMaxDt / time.Millisecond),
		CaptureDir: ".",
	}
}

// LoadConfig reads a TOML file over the defaults. A missing file is not an
// error when path is empty.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if _, err := effect.ParseEffect(c.Effect); err != nil {
		errs = append(errs, err)
	}
	if c.Resolution <= 0 || c.Resolution > 8192 {
		errs = append(errs, fmt.Errorf("resolution %d out of range (1..8192)", c.Resolution))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	// NaN fails every comparison, so the range check alone lets it through.
	if !finite(c.Intensity) || c.Intensity < MinIntensity || c.Intensity > MaxIntensity {
		errs = append(errs, fmt.Errorf("intensity %v out of range (%v..%v)", c.Intensity, MinIntensity, MaxIntensity))
	}
	errs = append(errs, c.Fractal.validate()...)
	if c.MaxDtMs < 0 {
		errs = append(errs, fmt.Errorf("max_dt_ms %d must not be negative", c.MaxDtMs))
	}
	return errors.Join(errs...)
}

func (f FractalConfig) validate() []error {
	var errs []error
	for _, field := range []struct {
		name  string
		value float32
	}{
		{"fractal.intensity", f.Intensity},
		{"fractal.jitter", f.Jitter},
		{"fractal.density", f.Density},
		{"fractal.amount", f.Amount},
	} {
		if !finite(field.value) {
			errs = append(errs, fmt.Errorf("%s %v must be finite", field.name, field.value))
		}
	}
	return errs
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}

// EffectKind is the parsed Effect; call after Validate.
func (c Config) EffectKind() effect.Effect {
	e, _ := effect.ParseEffect(c.Effect)
	return e
}

func (c Config) MaxDt() time.Duration {
	return time.Duration(c.MaxDtMs) * time.Millisecond
}

// Encode renders the config as TOML, e.g. to write a starter file.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
