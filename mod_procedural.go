package spheredemo

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/spheredemo/effect"
	"github.com/gekko3d/spheredemo/layout"
)

const (
	DefaultTextureResolution = 512
	proceduralTextureFormat  = wgpu.TextureFormatRGBA16Float
)

// ProceduralTextureModule runs the active effect kernel into a square
// rgba16float storage texture every frame.
type ProceduralTextureModule struct {
	Resolution uint32
}

type computeKernel struct {
	effect    effect.Effect
	source    string
	table     layout.Table
	uniform   *wgpu.Buffer
	pipeline  *wgpu.ComputePipeline
	bindGroup *wgpu.BindGroup
}

// ProceduralTexture holds the storage texture and one compiled kernel per
// effect. The uniform buffer of each kernel is sized from its verified
// layout table.
type ProceduralTexture struct {
	Resolution uint32
	Texture    *wgpu.Texture
	View       *wgpu.TextureView

	gpu     *GpuState
	kernels map[effect.Effect]*computeKernel
}

func (mod ProceduralTextureModule) Install(app *App, cmd *Commands) {
	gpuState, ok := Resource[GpuState](app)
	if !ok {
		panic("ProceduralTextureModule requires GpuModule")
	}
	ensureProfiler(app)

	resolution := mod.Resolution
	if resolution == 0 {
		resolution = DefaultTextureResolution
	}
	texture, view := createStorageTexture("Procedural Texture", resolution, proceduralTextureFormat, gpuState)

	tex := &ProceduralTexture{
		Resolution: resolution,
		Texture:    texture,
		View:       view,
		gpu:        gpuState,
		kernels:    map[effect.Effect]*computeKernel{},
	}
	for _, e := range effect.All {
		if err := tex.Reload(e, e.Source()); err != nil {
			panic(err)
		}
	}
	app.onCleanup(tex.release)
	app.Logger().Infof("procedural texture %dx%d %v", resolution, resolution, proceduralTextureFormat)

	cmd.AddResources(tex)
	cmd.UseSystem(
		System(proceduralTextureSystem).
			InStage(Render).
			RunAlways(),
	)
}

// Reload compiles body as the kernel of e. The uniform struct the body reads
// is checked against the Go record first; on any error the running kernel
// is kept.
func (tex *ProceduralTexture) Reload(e effect.Effect, body string) error {
	src := e.Compose(body)
	table, err := e.Verify(src)
	if err != nil {
		return err
	}

	k, err := tex.buildKernel(e, src, table)
	if err != nil {
		return err
	}
	if old, ok := tex.kernels[e]; ok {
		old.release()
	}
	tex.kernels[e] = k
	return nil
}

func (tex *ProceduralTexture) buildKernel(e effect.Effect, src string, table layout.Table) (*computeKernel, error) {
	name := fmt.Sprintf("%s kernel", e)

	uniform, err := createUniformBuffer(e.UniformName(), table.Size, tex.gpu)
	if err != nil {
		return nil, err
	}
	pipeline, err := createComputePipeline(name, src, e.KernelName(), tex.gpu)
	if err != nil {
		uniform.Release()
		return nil, err
	}
	bindGroup, err := createBindGroup(name, pipeline.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: uniform, Offset: 0, Size: table.Size},
		{Binding: 1, TextureView: tex.View},
	}, tex.gpu.device)
	if err != nil {
		pipeline.Release()
		uniform.Release()
		return nil, err
	}

	return &computeKernel{
		effect:    e,
		source:    src,
		table:     table,
		uniform:   uniform,
		pipeline:  pipeline,
		bindGroup: bindGroup,
	}, nil
}

// Table is the verified uniform layout of e's kernel.
func (tex *ProceduralTexture) Table(e effect.Effect) (layout.Table, bool) {
	k, ok := tex.kernels[e]
	if !ok {
		return layout.Table{}, false
	}
	return k.table, true
}

// Records the uniform write and the dispatch of the active kernel. The
// write lands before the dispatch in the same submission.
func proceduralTextureSystem(anim *Animation, tex *ProceduralTexture, frame *Frame, prof *Profiler, log Logger) {
	if !frame.Active {
		return
	}
	defer prof.Begin("compute")()

	k, ok := tex.kernels[anim.Effect]
	if !ok {
		log.Errorf("no kernel for effect %s", anim.Effect)
		return
	}

	data := anim.Uniform()
	if uint64(len(data)) != k.table.Size {
		log.Errorf("%s uniform is %d bytes, layout wants %d; skipping dispatch", anim.Effect, len(data), k.table.Size)
		return
	}
	if err := tex.gpu.queue.WriteBuffer(k.uniform, 0, data); err != nil {
		log.Errorf("write %s uniform: %v", k.effect.UniformName(), err)
		return
	}

	pass := frame.Encoder.BeginComputePass(nil)
	pass.SetPipeline(k.pipeline)
	pass.SetBindGroup(0, k.bindGroup, nil)
	wgX, wgY := anim.Effect.Workgroups(tex.Resolution)
	pass.DispatchWorkgroups(wgX, wgY, 1)
	if err := pass.End(); err != nil {
		log.Errorf("%s compute pass End failed: %v", anim.Effect, err)
	}
	pass.Release()
}

func (k *computeKernel) release() {
	k.bindGroup.Release()
	k.pipeline.Release()
	k.uniform.Release()
}

func (tex *ProceduralTexture) release() {
	for _, k := range tex.kernels {
		k.release()
	}
	tex.View.Release()
	tex.Texture.Release()
}
