package spheredemo

import (
	"github.com/gekko3d/spheredemo/effect"
)

// Headless runs walk these states; the app ends on PreviewDone.
const (
	PreviewWarmup State = iota
	PreviewRender
	PreviewDone
)

// PreviewStage runs after PostRender so warmup sees the frame's final time.
var PreviewStage = Stage{Name: "Preview"}

// PreviewModule renders the active effect on the CPU after a number of
// frames. It needs no window or GPU and must be installed in an app using
// states PreviewWarmup..PreviewDone.
type PreviewModule struct {
	Frames     uint64
	Resolution uint32
	// Out is the TIFF path; empty skips writing.
	Out string
}

// Preview is the last CPU-rendered frame.
type Preview struct {
	Frames     uint64
	Resolution uint32
	Out        string
	Written    bool
	Time       float32
	Effect     effect.Effect
}

func (mod PreviewModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, string(RendererCPU))

	resolution := mod.Resolution
	if resolution == 0 {
		resolution = DefaultTextureResolution
	}
	cmd.AddResources(&Preview{Frames: mod.Frames, Resolution: resolution, Out: mod.Out})

	app.UseStage(PreviewStage, AfterStage(PostRender))
	cmd.UseSystem(System(previewWarmupSystem).InStage(PreviewStage).InState(OnExecute(PreviewWarmup)))
	cmd.UseSystem(System(previewSnapshotSystem).InStage(PreviewStage).InState(OnExit(PreviewWarmup)))
	cmd.UseSystem(System(previewRenderSystem).InStage(PreviewStage).InState(OnEnter(PreviewRender)))
}

func previewWarmupSystem(t *Time, p *Preview, cmd *Commands) {
	if t.Frame >= p.Frames {
		cmd.ChangeState(PreviewRender)
	}
}

// previewSnapshotSystem freezes the animation state the render will use.
func previewSnapshotSystem(t *Time, anim *Animation, p *Preview, log Logger) {
	p.Time = anim.State.Time()
	p.Effect = anim.Effect
	log.Debugf("warmup done after %d frames", t.Frame)
}

func previewRenderSystem(anim *Animation, p *Preview, cmd *Commands, log Logger) {
	defer cmd.ChangeState(PreviewDone)

	if p.Out == "" {
		return
	}
	img := effect.Render(p.Effect, anim.State, p.Resolution)
	if err := WriteTIFF(p.Out, img); err != nil {
		log.Errorf("preview: %v", err)
		return
	}
	p.Written = true
	log.Infof("wrote %s (%s, t=%.3f)", p.Out, p.Effect, p.Time)
}
