package uniforms

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
	"unsafe"
)

const FractalUniformsSize = 20

// FractalUniforms drives the fancyFractal2D kernel. All fields are f32,
// packed at offsets 0, 4, 8, 12 and 16.
type FractalUniforms struct {
	Time      float32 `wgsl:"time"`
	Intensity float32 `wgsl:"intensity"`
	Jitter    float32 `wgsl:"jitter"`
	Density   float32 `wgsl:"density"`
	Amount    float32 `wgsl:"amount"`
}

func DefaultFractalUniforms() FractalUniforms {
	return FractalUniforms{
		Time:      0,
		Intensity: 2.2,
		Jitter:    0,
		Density:   0,
		Amount:    1,
	}
}

func (u *FractalUniforms) Size() int {
	return int(unsafe.Sizeof(*u))
}

// SetParameters updates everything except Time.
func (u *FractalUniforms) SetParameters(intensity, jitter, density, amount float32) {
	u.Intensity = intensity
	u.Jitter = jitter
	u.Density = density
	u.Amount = amount
}

func (u *FractalUniforms) Advance(dt time.Duration) {
	u.Time += float32(dt.Seconds())
}

func (u FractalUniforms) Marshal() []byte {
	buf := make([]byte, FractalUniformsSize)
	for i, v := range [...]float32{u.Time, u.Intensity, u.Jitter, u.Density, u.Amount} {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func (u *FractalUniforms) Unmarshal(b []byte) error {
	if len(b) < FractalUniformsSize {
		return fmt.Errorf("uniforms: FractalUniforms needs %d bytes, got %d", FractalUniformsSize, len(b))
	}
	fields := [...]*float32{&u.Time, &u.Intensity, &u.Jitter, &u.Density, &u.Amount}
	for i, f := range fields {
		*f = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return nil
}
