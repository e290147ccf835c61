package spheredemo

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// copyBytesPerRowAlignment is wgpu's required row pitch for texture copies.
const copyBytesPerRowAlignment = 256

func parseFormat(name string) wgpu.VertexFormat {
	switch name {
	case "float2":
		return wgpu.VertexFormatFloat32x2
	case "float3":
		return wgpu.VertexFormatFloat32x3
	case "float4":
		return wgpu.VertexFormatFloat32x4
	default:
		panic("unsupported vertex layout format: " + name)
	}
}

func wgpuWrapMode(mode string) wgpu.AddressMode {
	switch mode {
	case "wrap":
		return wgpu.AddressModeRepeat
	case "mirror":
		return wgpu.AddressModeMirrorRepeat
	case "clamp":
		return wgpu.AddressModeClampToEdge
	default:
		panic(fmt.Sprintf("Unknown wrap mode: %s", mode))
	}
}

func wgpuFilterMode(mode string) wgpu.FilterMode {
	switch mode {
	case "nearest":
		return wgpu.FilterModeNearest
	case "linear":
		return wgpu.FilterModeLinear
	default:
		panic(fmt.Sprintf("Unknown filter mode: %s", mode))
	}
}

func createSampler(filter string, wrapMode string, device *wgpu.Device) (*wgpu.Sampler, error) {
	address := wgpuWrapMode(wrapMode)
	f := wgpuFilterMode(filter)
	mip := wgpu.MipmapFilterModeLinear
	if f == wgpu.FilterModeNearest {
		mip = wgpu.MipmapFilterModeNearest
	}
	return device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  address,
		AddressModeV:  address,
		AddressModeW:  address,
		MagFilter:     f,
		MinFilter:     f,
		MipmapFilter:  mip,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		Compare:       wgpu.CompareFunctionUndefined,
		MaxAnisotropy: 1,
	})
}

func wgpuBytesPerPixel(format wgpu.TextureFormat) uint32 {
	switch format {
	case wgpu.TextureFormatR8Unorm, wgpu.TextureFormatR8Snorm,
		wgpu.TextureFormatR8Uint, wgpu.TextureFormatR8Sint:
		return 1

	case wgpu.TextureFormatR16Uint, wgpu.TextureFormatR16Sint, wgpu.TextureFormatR16Float,
		wgpu.TextureFormatRG8Unorm, wgpu.TextureFormatRG8Snorm,
		wgpu.TextureFormatRG8Uint, wgpu.TextureFormatRG8Sint:
		return 2

	case wgpu.TextureFormatR32Float, wgpu.TextureFormatR32Uint, wgpu.TextureFormatR32Sint,
		wgpu.TextureFormatRG16Uint, wgpu.TextureFormatRG16Sint, wgpu.TextureFormatRG16Float,
		wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA8UnormSrgb,
		wgpu.TextureFormatRGBA8Snorm, wgpu.TextureFormatRGBA8Uint, wgpu.TextureFormatRGBA8Sint,
		wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb,
		wgpu.TextureFormatRGB10A2Uint, wgpu.TextureFormatRGB10A2Unorm,
		wgpu.TextureFormatRG11B10Ufloat, wgpu.TextureFormatRGB9E5Ufloat:
		return 4

	case wgpu.TextureFormatRG32Float, wgpu.TextureFormatRG32Uint, wgpu.TextureFormatRG32Sint,
		wgpu.TextureFormatRGBA16Uint, wgpu.TextureFormatRGBA16Sint, wgpu.TextureFormatRGBA16Float:
		return 8

	case wgpu.TextureFormatRGBA32Float, wgpu.TextureFormatRGBA32Uint, wgpu.TextureFormatRGBA32Sint:
		return 16
	}
	panic(fmt.Sprintf("Add missing texture format %v", format))
}

// paddedBytesPerRow rounds a row of width texels up to the copy alignment.
func paddedBytesPerRow(width uint32, format wgpu.TextureFormat) uint32 {
	unpadded := width * wgpuBytesPerPixel(format)
	return (unpadded + copyBytesPerRowAlignment - 1) &^ (copyBytesPerRowAlignment - 1)
}
