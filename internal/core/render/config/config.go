// Package config holds the renderer settings read from the game's YAML
// configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/benidon1974/zetaglest-source/internal/core/observability/log"
	"github.com/benidon1974/zetaglest-source/internal/core/render/interpolate"
)

var ErrInvalidConfig = errors.New("invalid render config")

// Shadows selects the shadow technique.
type Shadows uint8

const (
	ShadowsDisabled Shadows = iota
	ShadowsProjected
	ShadowsMapping
)

func (s Shadows) String() string {
	switch s {
	case ShadowsDisabled:
		return "disabled"
	case ShadowsProjected:
		return "projected"
	case ShadowsMapping:
		return "shadowMapping"
	}
	return fmt.Sprintf("Shadows(%d)", uint8(s))
}

func ParseShadows(s string) (Shadows, error) {
	switch strings.ToLower(s) {
	case "disabled", "":
		return ShadowsDisabled, nil
	case "projected":
		return ShadowsProjected, nil
	case "shadowmapping":
		return ShadowsMapping, nil
	}
	return ShadowsDisabled, fmt.Errorf("%w: unknown shadows %q", ErrInvalidConfig, s)
}

func (s Shadows) MarshalYAML() (any, error) { return s.String(), nil }

func (s *Shadows) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseShadows(value.Value)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Filter is the texture minification filter.
type Filter uint8

const (
	FilterBilinear Filter = iota
	FilterTrilinear
)

func (f Filter) String() string {
	switch f {
	case FilterBilinear:
		return "bilinear"
	case FilterTrilinear:
		return "trilinear"
	}
	return fmt.Sprintf("Filter(%d)", uint8(f))
}

func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(s) {
	case "bilinear":
		return FilterBilinear, nil
	case "trilinear":
		return FilterTrilinear, nil
	}
	return FilterBilinear, fmt.Errorf("%w: unknown texture filter %q", ErrInvalidConfig, s)
}

func (f Filter) MarshalYAML() (any, error) { return f.String(), nil }

func (f *Filter) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseFilter(value.Value)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Config is the renderer section of the game configuration.
type Config struct {
	Shadows           Shadows `yaml:"shadows"`
	ShadowTextureSize int     `yaml:"shadowTextureSize"`
	ShadowFrameSkip   int     `yaml:"shadowFrameSkip"`
	ShadowAlpha       float32 `yaml:"shadowAlpha"`
	Filter            Filter  `yaml:"filter"`
	Textures3D        bool    `yaml:"textures3D"`
	MaxLights         int     `yaml:"maxLights"`
	UnitParticles     bool    `yaml:"unitParticles"`
	FocusArrows       bool    `yaml:"focusArrows"`
	PhotoMode         bool    `yaml:"photoMode"`
	AllowRotateUnits  bool    `yaml:"allowRotateUnits"`
	Easing            string  `yaml:"easing"`
	LogLevel          string  `yaml:"logLevel"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Shadows:           ShadowsProjected,
		ShadowTextureSize: 512,
		ShadowFrameSkip:   2,
		ShadowAlpha:       0.2,
		Filter:            FilterBilinear,
		Textures3D:        true,
		MaxLights:         1,
		UnitParticles:     true,
		FocusArrows:       true,
		Easing:            "linear",
		LogLevel:          "info",
	}
}

// Load decodes a YAML document on top of Default and validates the result.
func Load(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode render config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return Load(f)
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	if c.Shadows > ShadowsMapping {
		return fmt.Errorf("%w: shadows %s", ErrInvalidConfig, c.Shadows)
	}
	if c.Filter > FilterTrilinear {
		return fmt.Errorf("%w: filter %s", ErrInvalidConfig, c.Filter)
	}
	if c.ShadowTextureSize < 64 || c.ShadowTextureSize > 4096 || bits.OnesCount(uint(c.ShadowTextureSize)) != 1 {
		return fmt.Errorf("%w: shadowTextureSize %d must be a power of two in [64,4096]", ErrInvalidConfig, c.ShadowTextureSize)
	}
	if c.ShadowFrameSkip < 0 {
		return fmt.Errorf("%w: shadowFrameSkip %d", ErrInvalidConfig, c.ShadowFrameSkip)
	}
	if c.ShadowAlpha < 0 || c.ShadowAlpha > 1 {
		return fmt.Errorf("%w: shadowAlpha %v outside [0,1]", ErrInvalidConfig, c.ShadowAlpha)
	}
	if c.MaxLights < 0 || c.MaxLights > 8 {
		return fmt.Errorf("%w: maxLights %d outside [0,8]", ErrInvalidConfig, c.MaxLights)
	}
	if _, err := interpolate.EasingByName(c.Easing); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
