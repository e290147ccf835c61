package spheredemo

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/gekko3d/spheredemo/effect"
)

// AnimationModule owns the host side of the effect uniforms: which kernel
// runs, its clock and its parameters. GPU modules only read it.
type AnimationModule struct {
	Effect    effect.Effect
	Intensity float32
	Fractal   FractalConfig
}

// Animation is the single writer of the uniform records.
type Animation struct {
	Effect    effect.Effect
	State     *effect.State
	Paused    bool
	Intensity float32
	// Additive selects the "heavenly" blend of the sphere.
	Additive bool
}

func NewAnimation(e effect.Effect, intensity float32) *Animation {
	a := &Animation{
		Effect: e,
		State:  effect.NewState(),
	}
	a.SetIntensity(intensity)
	return a
}

func (mod AnimationModule) Install(app *App, cmd *Commands) {
	anim := NewAnimation(mod.Effect, mod.Intensity)
	if mod.Fractal != (FractalConfig{}) {
		anim.State.Fractal.SetParameters(mod.Fractal.Intensity, mod.Fractal.Jitter, mod.Fractal.Density, mod.Fractal.Amount)
	}
	claimUniform(app, "SphereParams", "animation")
	claimUniform(app, "FractalUniforms", "animation")
	cmd.AddResources(anim)
	cmd.UseSystem(
		System(animationSystem).
			InStage(Update).
			RunAlways(),
	)
}

func animationSystem(t *Time, anim *Animation, log Logger) {
	if anim.Paused {
		return
	}
	anim.State.Advance(t.Dt)

	// A non-finite time would reach the shader as NaN/Inf and poison every
	// texel; restart the clock instead.
	if v := float64(anim.State.Time()); math.IsNaN(v) || math.IsInf(v, 0) {
		log.Errorf("shader time %v is not finite; resetting to 0", v)
		anim.State.SetTime(0)
	}
}

func (a *Animation) SetEffect(e effect.Effect) {
	a.Effect = e
}

func (a *Animation) TogglePause() {
	a.Paused = !a.Paused
}

// SetIntensity clamps v into [MinIntensity, MaxIntensity]. NaN maps to
// MinIntensity.
func (a *Animation) SetIntensity(v float32) {
	if math32.IsNaN(v) {
		v = MinIntensity
	}
	a.Intensity = min(max(v, MinIntensity), MaxIntensity)
}

// StepIntensity moves the intensity by n steps of IntensityStep.
func (a *Animation) StepIntensity(n int) {
	// round to the step grid so repeated presses do not drift
	v := float64(a.Intensity) + float64(n)*IntensityStep
	a.SetIntensity(float32(math.Round(v/IntensityStep) * IntensityStep))
}

// SetParameters updates the fractal kernel controls.
func (a *Animation) SetParameters(intensity, jitter, density, amount float32) {
	a.State.Fractal.SetParameters(intensity, jitter, density, amount)
}

// Uniform is the record bound to the active kernel, as bytes.
func (a *Animation) Uniform() []byte {
	return a.State.Uniform(a.Effect)
}
