package spheredemo

import (
	"testing"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphereMesh(t *testing.T) {
	const radius, stacks, slices = 0.5, 8, 16
	vertices, indices := SphereMesh(radius, stacks, slices)

	require.Len(t, vertices, (stacks+1)*(slices+1))
	require.Len(t, indices, stacks*slices*6)

	for _, v := range vertices {
		assert.InDelta(t, radius, mgl32.Vec3(v.Position).Len(), 1e-5)
		assert.InDelta(t, 1, mgl32.Vec3(v.Normal).Len(), 1e-5)
		assert.True(t, v.UV[0] >= 0 && v.UV[0] <= 1 && v.UV[1] >= 0 && v.UV[1] <= 1)
	}
	for _, i := range indices {
		assert.Less(t, int(i), len(vertices))
	}

	// every non-degenerate triangle faces outward
	for i := 0; i < len(indices); i += 3 {
		a := mgl32.Vec3(vertices[indices[i]].Position)
		b := mgl32.Vec3(vertices[indices[i+1]].Position)
		c := mgl32.Vec3(vertices[indices[i+2]].Position)
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Len() < 1e-6 {
			continue
		}
		centroid := a.Add(b).Add(c)
		assert.Greater(t, n.Dot(centroid), float32(0), "triangle %d", i/3)
	}
}

func TestVertexLayout(t *testing.T) {
	l := createVertexBufferLayout(sphereVertex{})
	assert.Equal(t, uint64(unsafe.Sizeof(sphereVertex{})), l.ArrayStride)
	require.Len(t, l.Attributes, 3)
	assert.Equal(t, uint64(12), l.Attributes[1].Offset)
	assert.Equal(t, uint32(2), l.Attributes[2].ShaderLocation)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, l.Attributes[2].Format)

	vertices, _ := SphereMesh(1, 2, 3)
	assert.Len(t, vertexBytes(vertices), len(vertices)*32)
}

func TestSphereRenderer_Update(t *testing.T) {
	s := &SphereRenderer{Position: mgl32.Vec3{0, 0, -2}, Spin: 0.3, FovY: mgl32.DegToRad(60)}
	s.Update(16.0/9.0, 0, 4.5)
	assert.Equal(t, float32(4.5), s.Material.Gain)

	// sphere center lands in the middle of the screen with depth in [0, 1]
	clip := mgl32.Mat4(s.Camera.ViewProj).Mul4(mgl32.Mat4(s.Camera.Model)).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	ndc := clip.Vec3().Mul(1 / clip.W())
	assert.InDelta(t, 0, ndc.X(), 1e-5)
	assert.InDelta(t, 0, ndc.Y(), 1e-5)
	assert.True(t, ndc.Z() > 0 && ndc.Z() < 1, "depth %v", ndc.Z())
}

func TestClientHelpers(t *testing.T) {
	assert.Equal(t, uint32(8), wgpuBytesPerPixel(wgpu.TextureFormatRGBA16Float))
	assert.Equal(t, uint32(4), wgpuBytesPerPixel(wgpu.TextureFormatBGRA8UnormSrgb))
	assert.Equal(t, uint32(4096), paddedBytesPerRow(512, wgpu.TextureFormatRGBA16Float))
	assert.Equal(t, uint32(256), paddedBytesPerRow(3, wgpu.TextureFormatRGBA16Float))
	assert.Equal(t, uint32(4096+256), paddedBytesPerRow(513, wgpu.TextureFormatRGBA16Float))
	assert.Equal(t, wgpu.AddressModeClampToEdge, wgpuWrapMode("clamp"))
	assert.Panics(t, func() { wgpuFilterMode("cubic") })
}
