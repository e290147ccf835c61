package spheredemo

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// GpuModule owns the wgpu device and the per-frame command encoder. It needs
// the WindowState from PlatformWindowModule.
type GpuModule struct {
	ClearColor wgpu.Color
}

// Frame is the surface texture and encoder of the frame being recorded.
// Render-stage systems record into Encoder and draw into View; both are nil
// when Active is false (surface lost, window minimized).
type Frame struct {
	Active     bool
	Encoder    *wgpu.CommandEncoder
	View       *wgpu.TextureView
	ClearColor wgpu.Color
	// Cleared is set by the first render pass that clears View.
	Cleared bool

	surfaceTexture *wgpu.Texture
	afterSubmit    []func()
}

// AfterSubmit runs fn once the frame's commands were submitted, e.g. to map
// a readback buffer.
func (f *Frame) AfterSubmit(fn func()) {
	f.afterSubmit = append(f.afterSubmit, fn)
}

// LoadOp is Clear for the first pass on View and Load for the rest.
func (f *Frame) LoadOp() wgpu.LoadOp {
	if f.Cleared {
		return wgpu.LoadOpLoad
	}
	f.Cleared = true
	return wgpu.LoadOpClear
}

func (mod GpuModule) Install(app *App, cmd *Commands) {
	ws, ok := Resource[WindowState](app)
	if !ok {
		panic("GpuModule requires PlatformWindowModule")
	}
	ensureSingleRenderer(app, string(RendererWGPU))

	gpuState := createGpuState(ws)
	app.onCleanup(gpuState.release)

	clear := mod.ClearColor
	if clear == (wgpu.Color{}) {
		clear = wgpu.Color{R: 0.02, G: 0.02, B: 0.05, A: 1.0}
	}

	cmd.AddResources(gpuState, &Frame{ClearColor: clear})
	cmd.UseSystem(
		System(windowEventsSystem).
			InStage(Prelude).
			RunAlways(),
	)
	cmd.UseSystem(
		System(beginFrameSystem).
			InStage(PreRender).
			RunAlways(),
	)
	cmd.UseSystem(
		System(endFrameSystem).
			InStage(PostRender).
			RunAlways(),
	)
}

func windowEventsSystem(ws *WindowState, gpuState *GpuState, cmd *Commands, log Logger) {
	glfw.PollEvents()

	if ws.ShouldClose() {
		log.Infof("window closed")
		cmd.Exit()
		return
	}
	if ws.resized {
		ws.resized = false
		if gpuState.resize(ws.WindowWidth, ws.WindowHeight) {
			log.Debugf("surface resized to %dx%d", ws.WindowWidth, ws.WindowHeight)
		}
	}
}

func beginFrameSystem(ws *WindowState, gpuState *GpuState, frame *Frame, log Logger) {
	frame.Active = false
	frame.Cleared = false
	if ws.WindowWidth <= 0 || ws.WindowHeight <= 0 {
		return
	}

	nextTexture, err := gpuState.surface.GetCurrentTexture()
	if err != nil {
		log.Warnf("GetCurrentTexture failed: %v", err)
		return
	}
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		nextTexture.Release()
		log.Warnf("CreateView failed: %v", err)
		return
	}
	encoder, err := gpuState.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		nextTexture.Release()
		log.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}

	frame.surfaceTexture = nextTexture
	frame.View = view
	frame.Encoder = encoder
	frame.Active = true
}

func endFrameSystem(gpuState *GpuState, frame *Frame, log Logger) {
	if !frame.Active {
		return
	}
	defer frame.release()

	// Nothing drew this frame: still clear so the swapchain image is defined.
	if !frame.Cleared {
		pass := frame.Encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:       frame.View,
				LoadOp:     frame.LoadOp(),
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: frame.ClearColor,
			}},
		})
		if err := pass.End(); err != nil {
			log.Errorf("clear pass End failed: %v", err)
		}
		pass.Release()
	}

	cmdBuffer, err := frame.Encoder.Finish(nil)
	if err != nil {
		log.Errorf("Encoder Finish failed: %v", err)
		return
	}
	defer cmdBuffer.Release()

	gpuState.queue.Submit(cmdBuffer)
	gpuState.surface.Present()

	for _, fn := range frame.afterSubmit {
		fn()
	}
}

func (f *Frame) release() {
	f.afterSubmit = nil
	if f.Encoder != nil {
		f.Encoder.Release()
	}
	if f.View != nil {
		f.View.Release()
	}
	if f.surfaceTexture != nil {
		f.surfaceTexture.Release()
	}
	f.Encoder = nil
	f.View = nil
	f.surfaceTexture = nil
	f.Active = false
}
