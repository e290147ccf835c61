package effect

import (
	"github.com/chewxy/math32"

	"github.com/gekko3d/spheredemo/uniforms"
)

// The functions below follow the WGSL kernels line by line. GPU and CPU
// transcendental functions differ in the last bits, so results agree
// closely but not exactly.

const fractalIterations = 8

// Shade evaluates e at texel (x, y) of a resolution-sized texture.
func Shade(e Effect, s *State, x, y, resolution uint32) [4]float32 {
	u := (float32(x) + 0.5) / float32(resolution)
	v := (float32(y) + 0.5) / float32(resolution)
	switch e {
	case Tunnel:
		return shadeTunnel(s.Sphere, u, v)
	case Fractal:
		return shadeFractal(s.Fractal, u, v, float32(x), float32(y))
	default:
		return shadeSphere(s.Sphere, u, v)
	}
}

func shadeSphere(p uniforms.SphereParams, u, v float32) [4]float32 {
	px, py := u*2-1, v*2-1
	r := math32.Hypot(px, py)
	t := p.Time

	bands := 0.5 + 0.5*math32.Sin(10*r-3*t)
	swirl := 0.5 + 0.5*math32.Sin(6*math32.Atan2(py, px)+2*t)
	glow := math32.Exp(-3 * r)

	return [4]float32{
		bands*glow + 0.1,
		swirl * 0.6 * glow,
		(1 - bands) * 0.8 * glow,
		1,
	}
}

func shadeTunnel(p uniforms.SphereParams, u, v float32) [4]float32 {
	px, py := u*2-1, v*2-1
	r := math32.Max(math32.Hypot(px, py), 0.001)
	a := math32.Atan2(py, px)
	t := p.Time

	depth := 1/r + t
	stripes := 0.5 + 0.5*math32.Sin(8*depth)
	spokes := 0.5 + 0.5*math32.Cos(6*a+t)
	fade := clamp(r, 0, 1)

	return [4]float32{
		stripes * spokes * fade,
		stripes * 0.5 * fade,
		spokes * 0.8 * fade,
		1,
	}
}

func shadeFractal(f uniforms.FractalUniforms, u, v, gx, gy float32) [4]float32 {
	t := f.Time
	cx := 0.9 + 0.1*math32.Sin(0.3*t)
	cy := 0.6 + 0.1*f.Density

	zx, zy := (u*2-1)*1.5, (v*2-1)*1.5
	var acc float32
	for i := 0; i < fractalIterations; i++ {
		d := math32.Max(zx*zx+zy*zy, 0.0001)
		zx = math32.Abs(zx)/d - cx
		zy = math32.Abs(zy)/d - cy
		acc += math32.Exp(-4 * math32.Abs(math32.Hypot(zx, zy)-1))
	}

	n := hash(gx+t, gy+t) - 0.5
	val := (acc/fractalIterations + n*f.Jitter) * f.Intensity * f.Amount

	return [4]float32{val, val * 0.7, val*0.4 + 0.1*f.Amount, 1}
}

func hash(x, y float32) float32 {
	return fract(math32.Sin(x*12.9898+y*78.233) * 43758.5453)
}

func fract(x float32) float32 {
	return x - math32.Floor(x)
}

func clamp(x, lo, hi float32) float32 {
	return math32.Min(math32.Max(x, lo), hi)
}
