package spheredemo

import (
	"github.com/gekko3d/spheredemo/effect"
)

// ControlsModule maps keys onto the demo:
//
//	Esc      quit
//	Space    pause/resume the shader clock
//	Up/Down  intensity +/- 0.1
//	1 2 3    sphere, tunnel, fractal
//	A        toggle additive blending
//	R        restart the shader clock
//	C        capture the texture
type ControlsModule struct{}

var effectKeys = []struct {
	key    int
	effect effect.Effect
}{
	{Key1, effect.EffectSphere},
	{Key2, effect.Tunnel},
	{Key3, effect.Fractal},
}

func (mod ControlsModule) Install(app *App, cmd *Commands) {
	cmd.UseSystem(
		System(controlsSystem).
			InStage(Update).
			RunAlways(),
	)
}

func controlsSystem(input *Input, anim *Animation, capture *Capture, cmd *Commands, log Logger) {
	applyControls(input, anim, capture, cmd, log)
}

func applyControls(input *Input, anim *Animation, capture *Capture, cmd *Commands, log Logger) {
	if input.JustPressed[KeyEscape] {
		cmd.Exit()
		return
	}
	if input.JustPressed[KeySpace] {
		anim.TogglePause()
		log.Infof("paused=%v at t=%.3f", anim.Paused, anim.State.Time())
	}
	if input.JustPressed[KeyUp] {
		anim.StepIntensity(1)
		log.Debugf("intensity %.1f", anim.Intensity)
	}
	if input.JustPressed[KeyDown] {
		anim.StepIntensity(-1)
		log.Debugf("intensity %.1f", anim.Intensity)
	}
	// lowest digit wins when several are pressed in one frame
	for _, binding := range effectKeys {
		if !input.JustPressed[binding.key] {
			continue
		}
		if anim.Effect != binding.effect {
			anim.SetEffect(binding.effect)
			log.Infof("effect %s", binding.effect)
		}
		break
	}
	if input.JustPressed[KeyA] {
		anim.Additive = !anim.Additive
	}
	if input.JustPressed[KeyR] {
		anim.State.SetTime(0)
	}
	if input.JustPressed[KeyC] && capture != nil {
		capture.Request(anim.Effect)
	}
}
