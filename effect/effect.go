// Package effect names the procedural kernels that animate the sphere
// texture, composes their WGSL source, and carries a CPU reference of each
// kernel for previews and tests.
package effect

import (
	"fmt"
	"strings"

	"github.com/gekko3d/spheredemo/layout"
	"github.com/gekko3d/spheredemo/shaders"
	"github.com/gekko3d/spheredemo/uniforms"
)

type Effect int

const (
	EffectSphere Effect = iota
	Tunnel
	Fractal
)

var All = []Effect{EffectSphere, Tunnel, Fractal}

func (e Effect) String() string {
	switch e {
	case EffectSphere:
		return "sphere"
	case Tunnel:
		return "tunnel"
	case Fractal:
		return "fractal"
	}
	return fmt.Sprintf("Effect(%d)", int(e))
}

// ParseEffect accepts the String form, case-insensitively.
func ParseEffect(s string) (Effect, error) {
	for _, e := range All {
		if strings.EqualFold(s, e.String()) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown effect %q (want sphere, tunnel or fractal)", s)
}

// KernelName is the compute entry point in the WGSL source.
func (e Effect) KernelName() string {
	switch e {
	case Tunnel:
		return "tunnelKernel"
	case Fractal:
		return "fancyFractal2D"
	default:
		return "effectSphereKernel"
	}
}

// FileName is the kernel file name, used to match reloaded shader files.
func (e Effect) FileName() string {
	switch e {
	case Tunnel:
		return "tunnel.wgsl"
	case Fractal:
		return "fractal.wgsl"
	default:
		return "effect_sphere.wgsl"
	}
}

// UniformName is the WGSL struct bound at @group(0) @binding(0).
func (e Effect) UniformName() string {
	if e == Fractal {
		return "FractalUniforms"
	}
	return "SphereParams"
}

// WorkgroupSize matches @workgroup_size in the kernel.
func (e Effect) WorkgroupSize() (x, y uint32) {
	if e == Fractal {
		return 8, 8
	}
	return 16, 16
}

// Workgroups returns how many workgroups cover a resolution x resolution
// texture.
func (e Effect) Workgroups(resolution uint32) (x, y uint32) {
	wx, wy := e.WorkgroupSize()
	return (resolution + wx - 1) / wx, (resolution + wy - 1) / wy
}

func (e Effect) body() string {
	switch e {
	case Tunnel:
		return shaders.TunnelWGSL
	case Fractal:
		return shaders.FractalWGSL
	default:
		return shaders.EffectSphereWGSL
	}
}

func (e Effect) canonical() string {
	if e == Fractal {
		return uniforms.FractalUniformsSource
	}
	return uniforms.SphereParamsSource
}

func (e Effect) hostRecord() any {
	if e == Fractal {
		return uniforms.FractalUniforms{}
	}
	return uniforms.SphereParams{}
}

// Source returns the embedded kernel composed with its uniform struct.
func (e Effect) Source() string {
	return e.Compose(e.body())
}

// Compose prepends the canonical uniform declaration unless body already
// declares the struct itself.
func (e Effect) Compose(body string) string {
	if layout.HasStruct(body, e.UniformName()) {
		return body
	}
	return e.canonical() + "\n" + body
}

// Verify checks the uniform struct declared in src against the host record
// and returns the agreed layout.
func (e Effect) Verify(src string) (layout.Table, error) {
	table, err := layout.Verify(e.hostRecord(), src, e.UniformName())
	if err != nil {
		return layout.Table{}, fmt.Errorf("%s kernel: %w", e, err)
	}
	return table, nil
}
