package spheredemo

import (
	"math"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/spheredemo/effect"
	"github.com/gekko3d/spheredemo/uniforms"
)

func TestAnimationSystem_AdvancesWithTime(t *testing.T) {
	anim := NewAnimation(effect.EffectSphere, 2)
	clock := &Time{Dt: 250 * time.Millisecond}

	animationSystem(clock, anim, NewNopLogger())
	animationSystem(clock, anim, NewNopLogger())
	assert.Equal(t, float32(0.5), anim.State.Time())

	var p uniforms.SphereParams
	require.NoError(t, p.Unmarshal(anim.Uniform()))
	assert.Equal(t, float32(0.5), p.Time)
}

func TestAnimationSystem_PausedHoldsTime(t *testing.T) {
	anim := NewAnimation(effect.Tunnel, 2)
	anim.TogglePause()
	animationSystem(&Time{Dt: time.Second}, anim, NewNopLogger())
	assert.Equal(t, float32(0), anim.State.Time())

	anim.TogglePause()
	animationSystem(&Time{Dt: time.Second}, anim, NewNopLogger())
	assert.Equal(t, float32(1), anim.State.Time())
}

func TestAnimationSystem_ResetsNonFiniteTime(t *testing.T) {
	anim := NewAnimation(effect.EffectSphere, 2)
	anim.State.SetTime(float32(math.Inf(1)))

	animationSystem(&Time{Dt: time.Millisecond}, anim, NewNopLogger())
	assert.Equal(t, float32(0), anim.State.Time())
	assert.Equal(t, []byte{0, 0, 0, 0}, anim.Uniform())

	anim.State.SetTime(float32(math.NaN()))
	animationSystem(&Time{}, anim, NewNopLogger())
	assert.Equal(t, float32(0), anim.State.Time())
}

func TestAnimationSystem_MonotonicPerFrameUploads(t *testing.T) {
	anim := NewAnimation(effect.EffectSphere, 2)
	clock := &Time{FixedDt: HeadlessFrameDt, MaxDt: DefaultMaxDt, now: time.Now}

	var gpu uniforms.SphereParams
	prev := float32(-1)
	for frame := 0; frame < 120; frame++ {
		timeSystem(clock, NewNopLogger())
		animationSystem(clock, anim, NewNopLogger())
		// what the kernel reads this frame is what was written this frame
		require.NoError(t, gpu.Unmarshal(anim.Uniform()))
		assert.Equal(t, anim.State.Time(), gpu.Time)
		assert.Greater(t, gpu.Time, prev)
		prev = gpu.Time
	}
	assert.InDelta(t, 2.0, prev, 1e-4)
}

func TestAnimation_Intensity(t *testing.T) {
	anim := NewAnimation(effect.EffectSphere, 42)
	assert.Equal(t, float32(MaxIntensity), anim.Intensity)

	anim.SetIntensity(0)
	assert.Equal(t, float32(MinIntensity), anim.Intensity)

	anim.SetIntensity(2)
	for i := 0; i < 10; i++ {
		anim.StepIntensity(1)
	}
	assert.Equal(t, float32(3), anim.Intensity)

	for i := 0; i < 50; i++ {
		anim.StepIntensity(-1)
	}
	assert.Equal(t, float32(MinIntensity), anim.Intensity)
}

func TestAnimation_IntensityNonFinite(t *testing.T) {
	anim := NewAnimation(effect.EffectSphere, float32(math.NaN()))
	assert.Equal(t, float32(MinIntensity), anim.Intensity)

	anim.SetIntensity(float32(math.Inf(1)))
	assert.Equal(t, float32(MaxIntensity), anim.Intensity)

	anim.SetIntensity(float32(math.Inf(-1)))
	assert.Equal(t, float32(MinIntensity), anim.Intensity)
}

func TestAnimationModule_FractalParameters(t *testing.T) {
	app := NewAppBuilder().
		UseModule(AnimationModule{
			Effect:    effect.Fractal,
			Intensity: 2,
			Fractal:   FractalConfig{Intensity: 1.5, Jitter: 0.1, Density: 0.2, Amount: 0.5},
		}).
		Build()

	anim, ok := Resource[Animation](app)
	require.True(t, ok)
	assert.Equal(t, float32(1.5), anim.State.Fractal.Intensity)
	assert.Len(t, anim.Uniform(), uniforms.FractalUniformsSize)

	writers, ok := Resource[UniformWriters](app)
	require.True(t, ok)
	owner, ok := writers.Owner("SphereParams")
	assert.True(t, ok)
	assert.Equal(t, "animation", owner)
}

func TestClaimUniform_RejectsSecondWriter(t *testing.T) {
	app := NewAppBuilder().Build()
	claimUniform(app, "SphereParams", "animation")
	claimUniform(app, "SphereParams", "animation")
	assert.Panics(t, func() { claimUniform(app, "SphereParams", "sphere") })
}

func TestEnsureSingleRenderer(t *testing.T) {
	app := NewAppBuilder().Build()
	ensureSingleRenderer(app, "wgpu")
	ensureSingleRenderer(app, "wgpu")
	assert.Panics(t, func() { ensureSingleRenderer(app, "other") })
}

func TestHeadlessApp_WritesPreview(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Effect = "tunnel"
	cfg.Resolution = 32
	out := t.TempDir() + "/tunnel.tiff"

	app := NewHeadlessApp(cfg, 30, out)
	app.Run()

	p, ok := Resource[Preview](app)
	require.True(t, ok)
	assert.True(t, p.Written)
	assert.InDelta(t, 0.5, p.Time, 1e-4)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Equal(t, effect.Tunnel, p.Effect)
	assert.Equal(t, PreviewDone, app.state)

	clock, _ := Resource[Time](app)
	assert.Equal(t, uint64(30), clock.Frame)
}

func TestHeadlessApp_NoOutputStillFinishes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolution = 8

	app := NewHeadlessApp(cfg, 3, "")
	app.RunFrames(100)

	p, ok := Resource[Preview](app)
	require.True(t, ok)
	assert.False(t, p.Written)
	assert.Equal(t, PreviewDone, app.state)
	assert.InDelta(t, 3.0/60, p.Time, 1e-4)

	clock, _ := Resource[Time](app)
	assert.Equal(t, uint64(3), clock.Frame)
}
