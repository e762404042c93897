// Package caps checks a device against the renderer's capability needs.
package caps

import (
	"fmt"
	"strings"

	"github.com/benidon1974/zetaglest-source/internal/core/render/config"
	"github.com/benidon1974/zetaglest-source/internal/core/render/device"
)

// Requirement names a capability and the extensions that provide it.
type Requirement struct {
	Name            string
	Extensions      []string
	MinTextureUnits int
}

func (r Requirement) missing(info device.Info) []string {
	var out []string
	for _, ext := range r.Extensions {
		if !info.HasExtension(ext) {
			out = append(out, ext)
		}
	}
	if info.TextureUnits < r.MinTextureUnits {
		out = append(out, fmt.Sprintf("%d texture units (have %d)", r.MinTextureUnits, info.TextureUnits))
	}
	return out
}

// Mandatory lists what the renderer cannot run without.
var Mandatory = []Requirement{
	{Name: "multitexture", Extensions: []string{"GL_ARB_multitexture"}, MinTextureUnits: 2},
	{Name: "texture combine", Extensions: []string{"GL_ARB_texture_env_combine", "GL_ARB_texture_env_crossbar"}},
}

var (
	shadowMapping = Requirement{
		Name:            "shadow mapping",
		Extensions:      []string{"GL_ARB_shadow", "GL_ARB_shadow_ambient", "GL_ARB_depth_texture"},
		MinTextureUnits: 2,
	}
	textures3D = Requirement{Name: "3d textures", Extensions: []string{"GL_EXT_texture3D"}}
)

// CapabilityMissingError reports a mandatory capability the device lacks.
type CapabilityMissingError struct {
	Capability string
	Missing    []string
}

func (e *CapabilityMissingError) Error() string {
	return fmt.Sprintf("missing mandatory capability %s: %s", e.Capability, strings.Join(e.Missing, ", "))
}

// Downgrade records an optional feature turned down to fit the device.
type Downgrade struct {
	Feature string
	From    string
	To      string
	Missing []string
}

func (d Downgrade) String() string {
	return fmt.Sprintf("%s: %s -> %s (missing %s)", d.Feature, d.From, d.To, strings.Join(d.Missing, ", "))
}

// Features is the configuration that survived the capability check.
type Features struct {
	Shadows           config.Shadows
	ShadowTextureSize int
	Textures3D        bool
	MaxLights         int
}

func (f Features) String() string {
	return fmt.Sprintf("shadows=%s shadowTextureSize=%d textures3D=%t maxLights=%d",
		f.Shadows, f.ShadowTextureSize, f.Textures3D, f.MaxLights)
}

// Check validates info against Mandatory and fits the optional features of
// cfg to the device.
func Check(info device.Info, cfg config.Config) (Features, []Downgrade, error) {
	for _, req := range Mandatory {
		if missing := req.missing(info); len(missing) > 0 {
			return Features{}, nil, &CapabilityMissingError{Capability: req.Name, Missing: missing}
		}
	}

	f := Features{
		Shadows:           cfg.Shadows,
		ShadowTextureSize: cfg.ShadowTextureSize,
		Textures3D:        cfg.Textures3D,
		MaxLights:         cfg.MaxLights,
	}
	var downgrades []Downgrade

	if f.Shadows == config.ShadowsMapping {
		if missing := shadowMapping.missing(info); len(missing) > 0 {
			f.Shadows = config.ShadowsProjected
			downgrades = append(downgrades, Downgrade{
				Feature: "shadows", From: config.ShadowsMapping.String(), To: f.Shadows.String(), Missing: missing,
			})
		}
	}
	if f.Shadows == config.ShadowsMapping && f.ShadowTextureSize > info.MaxTextureSize {
		downgrades = append(downgrades, Downgrade{
			Feature: "shadowTextureSize",
			From:    fmt.Sprint(f.ShadowTextureSize),
			To:      fmt.Sprint(info.MaxTextureSize),
			Missing: []string{fmt.Sprintf("texture size %d", f.ShadowTextureSize)},
		})
		f.ShadowTextureSize = info.MaxTextureSize
	}
	if f.Textures3D {
		if missing := textures3D.missing(info); len(missing) > 0 {
			f.Textures3D = false
			downgrades = append(downgrades, Downgrade{Feature: "textures3D", From: "true", To: "false", Missing: missing})
		}
	}
	if f.MaxLights > info.MaxLights {
		downgrades = append(downgrades, Downgrade{
			Feature: "maxLights",
			From:    fmt.Sprint(f.MaxLights),
			To:      fmt.Sprint(info.MaxLights),
			Missing: []string{fmt.Sprintf("%d lights", f.MaxLights)},
		})
		f.MaxLights = info.MaxLights
	}
	return f, downgrades, nil
}

// Describe renders info as the multi-line report shown on the info screen.
func Describe(info device.Info) string {
	var b strings.Builder
	fmt.Fprintf(&b, "vendor: %s\n", info.Vendor)
	fmt.Fprintf(&b, "renderer: %s\n", info.Renderer)
	fmt.Fprintf(&b, "version: %s\n", info.Version)
	fmt.Fprintf(&b, "max texture size: %d\n", info.MaxTextureSize)
	fmt.Fprintf(&b, "max lights: %d\n", info.MaxLights)
	fmt.Fprintf(&b, "texture units: %d\n", info.TextureUnits)
	b.WriteString("extensions:\n")
	for _, ext := range info.Extensions {
		b.WriteString("  ")
		b.WriteString(ext)
		b.WriteByte('\n')
	}
	return b.String()
}
