package effect

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/x448/float16"
)

// BytesPerTexel of the rgba16float storage texture.
const BytesPerTexel = 8

// Render runs the CPU reference of e over a resolution x resolution image.
// Row 0 of the image is texel row 0, matching the GPU texture.
func Render(e Effect, s *State, resolution uint32) *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, int(resolution), int(resolution)))
	for y := uint32(0); y < resolution; y++ {
		for x := uint32(0); x < resolution; x++ {
			img.SetNRGBA64(int(x), int(y), toColor(Shade(e, s, x, y, resolution)))
		}
	}
	return img
}

// DecodeRGBA16F converts rows of rgba16float texels, as copied out of the
// GPU texture, into an image. bytesPerRow may include row padding.
func DecodeRGBA16F(data []byte, width, height, bytesPerRow uint32) (*image.NRGBA64, error) {
	if bytesPerRow < width*BytesPerTexel {
		return nil, fmt.Errorf("bytesPerRow %d too small for width %d", bytesPerRow, width)
	}
	if need := uint64(bytesPerRow)*uint64(height-1) + uint64(width*BytesPerTexel); height > 0 && uint64(len(data)) < need {
		return nil, fmt.Errorf("readback holds %d bytes, need %d", len(data), need)
	}

	img := image.NewNRGBA64(image.Rect(0, 0, int(width), int(height)))
	for y := uint32(0); y < height; y++ {
		row := data[y*bytesPerRow:]
		for x := uint32(0); x < width; x++ {
			var c [4]float32
			for i := range c {
				bits := binary.LittleEndian.Uint16(row[x*BytesPerTexel+uint32(i)*2:])
				c[i] = float16.Frombits(bits).Float32()
			}
			img.SetNRGBA64(int(x), int(y), toColor(c))
		}
	}
	return img, nil
}

// EncodeRGBA16F is the inverse of DecodeRGBA16F for tightly packed rows.
func EncodeRGBA16F(texels [][4]float32) []byte {
	out := make([]byte, len(texels)*BytesPerTexel)
	for i, c := range texels {
		for j, v := range c {
			binary.LittleEndian.PutUint16(out[i*BytesPerTexel+j*2:], float16.Fromfloat32(v).Bits())
		}
	}
	return out
}

// toColor clamps HDR values into [0, 1].
func toColor(c [4]float32) color.NRGBA64 {
	q := func(v float32) uint16 {
		if math32.IsNaN(v) {
			return 0
		}
		return uint16(clamp(v, 0, 1)*0xffff + 0.5)
	}
	return color.NRGBA64{R: q(c[0]), G: q(c[1]), B: q(c[2]), A: q(c[3])}
}
