// Package uniforms holds the host-side mirrors of the structs the WGSL
// kernels read. Each type has a canonical WGSL declaration in package
// shaders; the two are checked against each other by package layout.
package uniforms

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
	"unsafe"
)

// SphereParamsSize is the byte size of SphereParams on both host and GPU.
const SphereParamsSize = 4

// SphereParams is the uniform block visible to both Go and WGSL.
// Layout: time f32 at offset 0, 4 bytes, align 4.
type SphereParams struct {
	Time float32 `wgsl:"time"`
}

// Size returns the size of the struct in bytes.
func (p *SphereParams) Size() int {
	return int(unsafe.Sizeof(*p))
}

// SetTime stores v unchanged. Finiteness is checked by the caller.
func (p *SphereParams) SetTime(v float32) {
	p.Time = v
}

// Advance adds dt, in seconds, to Time.
func (p *SphereParams) Advance(dt time.Duration) {
	p.Time += float32(dt.Seconds())
}

// Marshal returns the 4 bytes uploaded to the uniform buffer.
func (p SphereParams) Marshal() []byte {
	buf := make([]byte, SphereParamsSize)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(p.Time))
	return buf
}

// Unmarshal reads the record back from GPU-visible bytes.
func (p *SphereParams) Unmarshal(b []byte) error {
	if len(b) < SphereParamsSize {
		return fmt.Errorf("uniforms: SphereParams needs %d bytes, got %d", SphereParamsSize, len(b))
	}
	p.Time = math.Float32frombits(binary.LittleEndian.Uint32(b))
	return nil
}
