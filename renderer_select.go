package spheredemo

import (
	"time"
)

// RendererName identifies what produces the effect texture.
// Keep names aligned with ensureSingleRenderer tags.
type RendererName string

const (
	RendererWGPU RendererName = "wgpu"
	RendererCPU  RendererName = "cpu"
)

// HeadlessFrameDt is the fixed step of headless runs, one 60 Hz frame.
const HeadlessFrameDt = time.Second / 60

// NewWindowedApp assembles the interactive demo on the wgpu renderer:
// window, GPU, the effect kernels, the sphere and keyboard controls.
func NewWindowedApp(cfg Config) *App {
	builder := NewAppBuilder().
		UseModule(
			LoggingModule{Prefix: "spheredemo", Debug: cfg.Debug},
			TimeModule{MaxDt: cfg.MaxDt()},
			AnimationModule{Effect: cfg.EffectKind(), Intensity: cfg.Intensity, Fractal: cfg.Fractal},
			InputModule{},
			NewPlatformWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title),
			GpuModule{},
			ProceduralTextureModule{Resolution: uint32(cfg.Resolution)},
			SphereModule{Additive: cfg.Additive},
			CaptureModule{Dir: cfg.CaptureDir},
			ShaderReloadModule{Dir: cfg.ShaderDir},
			ControlsModule{},
			ProfilerModule{Interval: 5 * time.Second},
		)
	return builder.Build()
}

// NewHeadlessApp runs on the CPU renderer. It steps the animation frames
// times at HeadlessFrameDt, writes a render of the last frame to out and
// stops once the preview reaches PreviewDone.
func NewHeadlessApp(cfg Config, frames uint64, out string) *App {
	return NewAppBuilder().
		UseStates(PreviewWarmup, PreviewDone).
		UseModule(
			LoggingModule{Prefix: "spheredemo", Debug: cfg.Debug},
			TimeModule{FixedDt: HeadlessFrameDt, MaxDt: cfg.MaxDt()},
			AnimationModule{Effect: cfg.EffectKind(), Intensity: cfg.Intensity, Fractal: cfg.Fractal},
			PreviewModule{Frames: frames, Resolution: uint32(cfg.Resolution), Out: out},
		).
		Build()
}
