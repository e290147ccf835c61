package effect

import (
	"time"

	"github.com/gekko3d/spheredemo/uniforms"
)

// State holds the authoritative uniform records. Only the host writes it;
// the GPU sees a copy taken by Uniform once per frame.
type State struct {
	Sphere  uniforms.SphereParams
	Fractal uniforms.FractalUniforms
}

func NewState() *State {
	return &State{Fractal: uniforms.DefaultFractalUniforms()}
}

// Advance moves both clocks forward by dt.
func (s *State) Advance(dt time.Duration) {
	s.Sphere.Advance(dt)
	s.Fractal.Advance(dt)
}

// Time is the current shader time in seconds.
func (s *State) Time() float32 {
	return s.Sphere.Time
}

// SetTime sets both clocks to v.
func (s *State) SetTime(v float32) {
	s.Sphere.SetTime(v)
	s.Fractal.Time = v
}

// Uniform returns the bytes to upload for e.
func (s *State) Uniform(e Effect) []byte {
	if e == Fractal {
		return s.Fractal.Marshal()
	}
	return s.Sphere.Marshal()
}

// UniformSize is len(s.Uniform(e)) without the allocation.
func UniformSize(e Effect) uint64 {
	if e == Fractal {
		return uniforms.FractalUniformsSize
	}
	return uniforms.SphereParamsSize
}
