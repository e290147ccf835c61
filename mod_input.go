package spheredemo

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyA int = iota
	KeyC
	KeyR
	Key1
	Key2
	Key3
	KeySpace
	KeyEscape
	KeyDown
	KeyUp
	keyCount
)

type InputModule struct{}

type Input struct {
	Pressed [keyCount]bool

	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	WindowWidth, WindowHeight int
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

// Events are polled by the GPU module in Prelude; this only samples keys.
func inputSystem(s *WindowState, input *Input) {
	for key, glfwKey := range keyToGlfw {
		input.set(key, s.windowGlfw.GetKey(glfwKey) == glfw.Press)
	}
	input.WindowWidth, input.WindowHeight = s.windowGlfw.GetSize()
}

// set records the key state sampled this frame and derives the edges.
func (input *Input) set(key int, down bool) {
	input.JustPressed[key] = down && !input.Pressed[key]
	input.JustReleased[key] = !down && input.Pressed[key]
	input.Pressed[key] = down
}

var keyToGlfw = map[int]glfw.Key{
	KeyA:      glfw.KeyA,
	KeyC:      glfw.KeyC,
	KeyR:      glfw.KeyR,
	Key1:      glfw.Key1,
	Key2:      glfw.Key2,
	Key3:      glfw.Key3,
	KeySpace:  glfw.KeySpace,
	KeyEscape: glfw.KeyEscape,
	KeyDown:   glfw.KeyDown,
	KeyUp:     glfw.KeyUp,
}
