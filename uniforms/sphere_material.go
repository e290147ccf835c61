package uniforms

import (
	"github.com/gekko3d/spheredemo/layout"
	"github.com/gekko3d/spheredemo/shaders"
)

// Camera mirrors `struct Camera` in sphere.wgsl.
type Camera struct {
	ViewProj [16]float32 `wgsl:"view_proj"`
	Model    [16]float32 `wgsl:"model"`
}

// Material mirrors `struct Material` in sphere.wgsl. Gain scales the
// sampled effect color; it is the intensity knob of the sphere material.
type Material struct {
	Tint    [4]float32 `wgsl:"tint"`
	Gain    float32    `wgsl:"gain"`
	Opacity float32    `wgsl:"opacity"`
	_       [2]float32
}

func DefaultMaterial() Material {
	return Material{
		Tint:    [4]float32{1, 1, 1, 1},
		Gain:    2.0,
		Opacity: 1.0,
	}
}

// Canonical declarations, one per shared struct.
var (
	SphereParamsSource    = shaders.SphereParamsWGSL
	FractalUniformsSource = shaders.FractalUniformsWGSL
	CameraSource          = shaders.SphereWGSL
	MaterialSource        = shaders.SphereWGSL
)

// VerifyAll checks every host mirror against its canonical WGSL struct.
func VerifyAll() ([]layout.Table, error) {
	checks := []struct {
		host any
		src  string
		name string
	}{
		{SphereParams{}, SphereParamsSource, "SphereParams"},
		{FractalUniforms{}, FractalUniformsSource, "FractalUniforms"},
		{Camera{}, CameraSource, "Camera"},
		{Material{}, MaterialSource, "Material"},
	}

	tables := make([]layout.Table, 0, len(checks))
	for _, c := range checks {
		table, err := layout.Verify(c.host, c.src, c.name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}
