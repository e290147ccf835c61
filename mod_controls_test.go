package spheredemo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/spheredemo/effect"
)

func press(input *Input, keys ...int) {
	for k := range input.Pressed {
		input.set(k, false)
	}
	for _, k := range keys {
		input.set(k, true)
	}
}

func TestInput_Edges(t *testing.T) {
	var input Input
	input.set(KeySpace, true)
	assert.True(t, input.JustPressed[KeySpace])
	assert.True(t, input.Pressed[KeySpace])

	input.set(KeySpace, true)
	assert.False(t, input.JustPressed[KeySpace], "held key only fires once")

	input.set(KeySpace, false)
	assert.True(t, input.JustReleased[KeySpace])
	assert.False(t, input.Pressed[KeySpace])
}

func TestApplyControls(t *testing.T) {
	app := NewAppBuilder().Build()
	cmd := app.Commands()
	anim := NewAnimation(effect.EffectSphere, 2)
	capture := &Capture{}
	input := &Input{}
	log := NewNopLogger()

	press(input, KeySpace)
	applyControls(input, anim, capture, cmd, log)
	assert.True(t, anim.Paused)

	press(input, KeyUp)
	applyControls(input, anim, capture, cmd, log)
	assert.InDelta(t, 2.1, anim.Intensity, 1e-6)

	press(input, KeyDown)
	applyControls(input, anim, capture, cmd, log)
	press(input, KeyDown)
	applyControls(input, anim, capture, cmd, log)
	assert.InDelta(t, 1.9, anim.Intensity, 1e-6)

	press(input, Key3)
	applyControls(input, anim, capture, cmd, log)
	assert.Equal(t, effect.Fractal, anim.Effect)

	press(input, Key2, KeyA)
	applyControls(input, anim, capture, cmd, log)
	assert.Equal(t, effect.Tunnel, anim.Effect)
	assert.True(t, anim.Additive)

	press(input, KeyC)
	applyControls(input, anim, capture, cmd, log)
	assert.True(t, capture.Pending())
	assert.Equal(t, effect.Tunnel, capture.effect)

	anim.State.SetTime(5)
	press(input, KeyR)
	applyControls(input, anim, capture, cmd, log)
	assert.Equal(t, float32(0), anim.State.Time())

	assert.False(t, cmd.Exiting())
	press(input, KeyEscape)
	applyControls(input, anim, capture, cmd, log)
	assert.True(t, cmd.Exiting())
}

func TestApplyControls_SimultaneousDigitsPickLowest(t *testing.T) {
	cmd := NewAppBuilder().Build().Commands()
	log := NewNopLogger()

	for i := 0; i < 20; i++ {
		anim := NewAnimation(effect.Fractal, 2)
		input := &Input{}
		press(input, Key3, Key2)
		applyControls(input, anim, nil, cmd, log)
		assert.Equal(t, effect.Tunnel, anim.Effect)

		press(input, Key1, Key2, Key3)
		applyControls(input, anim, nil, cmd, log)
		assert.Equal(t, effect.EffectSphere, anim.Effect)
	}
}
