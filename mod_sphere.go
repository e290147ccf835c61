package spheredemo

import (
	"fmt"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/spheredemo/layout"
	"github.com/gekko3d/spheredemo/shaders"
	"github.com/gekko3d/spheredemo/uniforms"
)

// SphereModule draws a textured UV sphere showing the procedural texture.
type SphereModule struct {
	Radius   float32
	Stacks   int
	Slices   int
	Additive bool
}

type sphereVertex struct {
	Position [3]float32 `gekko:"layout" location:"0" format:"float3"`
	Normal   [3]float32 `gekko:"layout" location:"1" format:"float3"`
	UV       [2]float32 `gekko:"layout" location:"2" format:"float2"`
}

// SphereRenderer is the sphere mesh, its camera and its material.
type SphereRenderer struct {
	Position mgl32.Vec3
	// Spin in radians per second of shader time.
	Spin     float32
	FovY     float32
	Camera   uniforms.Camera
	Material uniforms.Material

	indexCount uint32

	vertexBuf   *wgpu.Buffer
	indexBuf    *wgpu.Buffer
	cameraBuf   *wgpu.Buffer
	materialBuf *wgpu.Buffer
	sampler     *wgpu.Sampler

	alphaPipeline    *wgpu.RenderPipeline
	additivePipeline *wgpu.RenderPipeline
	uniformGroup     *wgpu.BindGroup
	textureGroup     *wgpu.BindGroup
}

func (mod SphereModule) Install(app *App, cmd *Commands) {
	gpuState, ok := Resource[GpuState](app)
	if !ok {
		panic("SphereModule requires GpuModule")
	}
	tex, ok := Resource[ProceduralTexture](app)
	if !ok {
		panic("SphereModule requires ProceduralTextureModule")
	}
	if anim, ok := Resource[Animation](app); ok {
		anim.Additive = mod.Additive
	}
	ensureProfiler(app)
	claimUniform(app, "Camera", "sphere")
	claimUniform(app, "Material", "sphere")

	radius, stacks, slices := mod.Radius, mod.Stacks, mod.Slices
	if radius <= 0 {
		radius = 0.5
	}
	if stacks <= 0 {
		stacks = 32
	}
	if slices <= 0 {
		slices = 64
	}

	s, err := newSphereRenderer(radius, stacks, slices, tex, gpuState)
	if err != nil {
		panic(err)
	}
	app.onCleanup(s.release)

	cmd.AddResources(s)
	cmd.UseSystem(
		System(sphereSystem).
			InStage(Render).
			RunAlways(),
	)
}

func newSphereRenderer(radius float32, stacks, slices int, tex *ProceduralTexture, gpuState *GpuState) (*SphereRenderer, error) {
	cameraTable, err := layout.Verify(uniforms.Camera{}, shaders.SphereWGSL, "Camera")
	if err != nil {
		return nil, err
	}
	materialTable, err := layout.Verify(uniforms.Material{}, shaders.SphereWGSL, "Material")
	if err != nil {
		return nil, err
	}

	s := &SphereRenderer{
		Position: mgl32.Vec3{0, 0, -2},
		Spin:     0.3,
		FovY:     mgl32.DegToRad(60),
		Material: uniforms.DefaultMaterial(),
	}

	vertices, indices := SphereMesh(radius, stacks, slices)
	s.indexCount = uint32(len(indices))
	s.vertexBuf, s.indexBuf = createVertexIndexBuffers(vertexBytes(vertices), indices, gpuState.device)

	if s.cameraBuf, err = createUniformBuffer("Camera", cameraTable.Size, gpuState); err != nil {
		return nil, err
	}
	if s.materialBuf, err = createUniformBuffer("Material", materialTable.Size, gpuState); err != nil {
		return nil, err
	}
	if s.sampler, err = createSampler("linear", "clamp", gpuState.device); err != nil {
		return nil, fmt.Errorf("sphere sampler: %w", err)
	}

	s.alphaPipeline = createRenderPipeline("Sphere", shaders.SphereWGSL, sphereVertex{}, &wgpu.BlendState{
		Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorSrcAlpha, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha, Operation: wgpu.BlendOperationAdd},
		Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha, Operation: wgpu.BlendOperationAdd},
	}, gpuState)
	s.additivePipeline = createRenderPipeline("Sphere Additive", shaders.SphereWGSL, sphereVertex{}, &wgpu.BlendState{
		Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorSrcAlpha, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
		Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
	}, gpuState)

	// Both pipelines come from the same module, so their layouts match.
	if s.uniformGroup, err = createBindGroup("Sphere Uniforms", s.alphaPipeline.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: s.cameraBuf, Size: cameraTable.Size},
		{Binding: 1, Buffer: s.materialBuf, Size: materialTable.Size},
	}, gpuState.device); err != nil {
		return nil, err
	}
	if s.textureGroup, err = createBindGroup("Sphere Texture", s.alphaPipeline.GetBindGroupLayout(1), []wgpu.BindGroupEntry{
		{Binding: 0, TextureView: tex.View},
		{Binding: 1, Sampler: s.sampler},
	}, gpuState.device); err != nil {
		return nil, err
	}
	return s, nil
}

// SphereMesh builds a UV sphere centred at the origin. Triangles wind
// counter-clockwise seen from outside; texture v runs from the north pole.
func SphereMesh(radius float32, stacks, slices int) ([]sphereVertex, []uint32) {
	vertices := make([]sphereVertex, 0, (stacks+1)*(slices+1))
	for i := 0; i <= stacks; i++ {
		v := float32(i) / float32(stacks)
		theta := v * math32.Pi
		for j := 0; j <= slices; j++ {
			u := float32(j) / float32(slices)
			phi := u * 2 * math32.Pi
			n := mgl32.Vec3{
				math32.Sin(theta) * math32.Cos(phi),
				math32.Cos(theta),
				math32.Sin(theta) * math32.Sin(phi),
			}
			vertices = append(vertices, sphereVertex{
				Position: n.Mul(radius),
				Normal:   n,
				UV:       [2]float32{u, v},
			})
		}
	}

	indices := make([]uint32, 0, stacks*slices*6)
	row := uint32(slices + 1)
	for i := uint32(0); i < uint32(stacks); i++ {
		for j := uint32(0); j < uint32(slices); j++ {
			a := i*row + j
			b := a + row
			indices = append(indices, a, a+1, b, a+1, b+1, b)
		}
	}
	return vertices, indices
}

func vertexBytes(vertices []sphereVertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*int(unsafe.Sizeof(vertices[0])))
}

// glToWebGPU maps OpenGL clip depth [-1, 1] onto WebGPU's [0, 1].
var glToWebGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Update fills the camera and material records for the given aspect ratio,
// shader time and intensity.
func (s *SphereRenderer) Update(aspect float32, t float32, intensity float32) {
	proj := glToWebGPU.Mul4(mgl32.Perspective(s.FovY, aspect, 0.1, 100))
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, s.Position, mgl32.Vec3{0, 1, 0})
	model := mgl32.Translate3D(s.Position.X(), s.Position.Y(), s.Position.Z()).
		Mul4(mgl32.HomogRotate3DY(t * s.Spin))

	s.Camera.ViewProj = proj.Mul4(view)
	s.Camera.Model = model
	s.Material.Gain = intensity
}

func sphereSystem(anim *Animation, s *SphereRenderer, ws *WindowState, gpuState *GpuState, frame *Frame, prof *Profiler, log Logger) {
	if !frame.Active {
		return
	}
	defer prof.Begin("sphere")()

	s.Update(ws.Aspect(), anim.State.Time(), anim.Intensity)

	camera, err := layout.Encode(s.Camera)
	if err != nil {
		log.Errorf("encode camera: %v", err)
		return
	}
	material, err := layout.Encode(s.Material)
	if err != nil {
		log.Errorf("encode material: %v", err)
		return
	}
	if err := gpuState.queue.WriteBuffer(s.cameraBuf, 0, camera); err != nil {
		log.Errorf("write camera: %v", err)
		return
	}
	if err := gpuState.queue.WriteBuffer(s.materialBuf, 0, material); err != nil {
		log.Errorf("write material: %v", err)
		return
	}

	pipeline := s.alphaPipeline
	if anim.Additive {
		pipeline = s.additivePipeline
	}

	pass := frame.Encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       frame.View,
			LoadOp:     frame.LoadOp(),
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: frame.ClearColor,
		}},
	})
	defer pass.Release()

	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, s.uniformGroup, nil)
	pass.SetBindGroup(1, s.textureGroup, nil)
	pass.SetVertexBuffer(0, s.vertexBuf, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(s.indexBuf, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(s.indexCount, 1, 0, 0, 0)

	if err := pass.End(); err != nil {
		log.Errorf("sphere pass End failed: %v", err)
	}
}

func (s *SphereRenderer) release() {
	s.textureGroup.Release()
	s.uniformGroup.Release()
	s.additivePipeline.Release()
	s.alphaPipeline.Release()
	s.sampler.Release()
	s.materialBuf.Release()
	s.cameraBuf.Release()
	s.indexBuf.Release()
	s.vertexBuf.Release()
}
