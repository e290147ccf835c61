package shaders

import (
	_ "embed"
)

//go:embed sphere_params.wgsl
var SphereParamsWGSL string

//go:embed fractal_uniforms.wgsl
var FractalUniformsWGSL string

//go:embed effect_sphere.wgsl
var EffectSphereWGSL string

//go:embed tunnel.wgsl
var TunnelWGSL string

//go:embed fractal.wgsl
var FractalWGSL string

//go:embed sphere.wgsl
var SphereWGSL string
