package effect

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gekko3d/spheredemo/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEffect(t *testing.T) {
	for _, e := range All {
		got, err := ParseEffect(strings.ToUpper(e.String()))
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
	_, err := ParseEffect("plasma")
	assert.Error(t, err)
}

func TestKernelNames(t *testing.T) {
	assert.Equal(t, "effectSphereKernel", EffectSphere.KernelName())
	assert.Equal(t, "tunnelKernel", Tunnel.KernelName())
	assert.Equal(t, "fancyFractal2D", Fractal.KernelName())

	for _, e := range All {
		assert.Contains(t, e.Source(), "fn "+e.KernelName()+"(", e.String())
	}
}

func TestWorkgroups(t *testing.T) {
	x, y := EffectSphere.Workgroups(512)
	assert.Equal(t, uint32(32), x)
	assert.Equal(t, uint32(32), y)

	x, y = Fractal.Workgroups(512)
	assert.Equal(t, uint32(64), x)
	assert.Equal(t, uint32(64), y)

	x, _ = Tunnel.Workgroups(500)
	assert.Equal(t, uint32(32), x)

	x, _ = Fractal.Workgroups(1)
	assert.Equal(t, uint32(1), x)
}

func TestSourceVerifies(t *testing.T) {
	for _, e := range All {
		table, err := e.Verify(e.Source())
		require.NoError(t, err, e.String())
		assert.Equal(t, UniformSize(e), table.Size, e.String())
	}
}

func TestCompose(t *testing.T) {
	body := "@compute @workgroup_size(16, 16, 1)\nfn effectSphereKernel() {}"
	composed := EffectSphere.Compose(body)
	assert.True(t, strings.HasPrefix(composed, "// Uniforms"))
	assert.True(t, layout.HasStruct(composed, "SphereParams"))

	own := "struct SphereParams { time: f32 }\n" + body
	assert.Equal(t, own, EffectSphere.Compose(own))
}

func TestVerify_RejectsDriftedShader(t *testing.T) {
	drifted := "struct SphereParams { color: vec4<f32>, time: f32 }\n" + EffectSphere.Source()
	_, err := EffectSphere.Verify(drifted)

	var mismatch *layout.MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Contains(t, err.Error(), "sphere kernel")
}

func TestState(t *testing.T) {
	s := NewState()
	s.Advance(250 * time.Millisecond)
	s.Advance(250 * time.Millisecond)
	assert.Equal(t, float32(0.5), s.Time())
	assert.Equal(t, float32(0.5), s.Fractal.Time)

	assert.Len(t, s.Uniform(EffectSphere), int(UniformSize(EffectSphere)))
	assert.Len(t, s.Uniform(Fractal), int(UniformSize(Fractal)))

	s.SetTime(0)
	assert.Equal(t, []byte{0, 0, 0, 0}, s.Uniform(Tunnel))
}

func TestShade_AnimatesWithTime(t *testing.T) {
	for _, e := range All {
		s := NewState()
		before := Shade(e, s, 100, 200, 512)
		s.Advance(700 * time.Millisecond)
		after := Shade(e, s, 100, 200, 512)

		assert.NotEqual(t, before, after, e.String())
		for _, v := range after {
			assert.False(t, math.IsNaN(float64(v)) || math.IsInf(float64(v), 0), e.String())
		}
	}
}

func TestShade_SphereCenterGlows(t *testing.T) {
	s := NewState()
	center := Shade(EffectSphere, s, 256, 256, 512)
	corner := Shade(EffectSphere, s, 0, 0, 512)
	assert.Greater(t, center[0]+center[1]+center[2], corner[0]+corner[1]+corner[2])
	assert.Equal(t, float32(1), center[3])
}

func TestRender(t *testing.T) {
	img := Render(Tunnel, NewState(), 16)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
	assert.Equal(t, uint16(0xffff), img.NRGBA64At(3, 5).A)
}

func TestDecodeRGBA16F(t *testing.T) {
	texels := [][4]float32{{0, 0.5, 1, 1}, {2, -1, 0.25, 1}}
	data := EncodeRGBA16F(texels)

	// pad rows to 32 bytes
	padded := make([]byte, 64)
	copy(padded[0:], data[:8])
	copy(padded[32:], data[8:])

	img, err := DecodeRGBA16F(padded, 1, 2, 32)
	require.NoError(t, err)

	c := img.NRGBA64At(0, 0)
	assert.Equal(t, uint16(0), c.R)
	assert.InDelta(t, 0x7fff, int(c.G), 1)
	assert.Equal(t, uint16(0xffff), c.B)

	c = img.NRGBA64At(0, 1)
	assert.Equal(t, uint16(0xffff), c.R, "HDR clamps to 1")
	assert.Equal(t, uint16(0), c.G, "negative clamps to 0")

	_, err = DecodeRGBA16F(padded, 8, 2, 32)
	assert.Error(t, err)
	_, err = DecodeRGBA16F(padded[:40], 1, 3, 32)
	assert.Error(t, err)
}
