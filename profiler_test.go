package spheredemo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfiler_Report(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewProfiler()
	p.now = func() time.Time { return now }
	p.Reset()

	for i := 0; i < 4; i++ {
		stop := p.Begin("compute")
		now = now.Add(2 * time.Millisecond)
		stop()
		stop = p.Begin("sphere")
		now = now.Add(3 * time.Millisecond)
		stop()
		p.Frame()
	}
	now = now.Add(180 * time.Millisecond) // 200ms total

	fps, summary := p.Report()
	assert.InDelta(t, 20.0, fps, 1e-9)
	assert.Equal(t, "compute=2ms sphere=3ms", summary)

	p.Reset()
	fps, summary = p.Report()
	assert.Equal(t, 0.0, fps)
	assert.Equal(t, "", summary)
}

func TestProfilerModule_ReusesExisting(t *testing.T) {
	app := NewAppBuilder().Build()
	existing := ensureProfiler(app)
	ProfilerModule{}.Install(app, app.Commands())

	got, ok := Resource[Profiler](app)
	assert.True(t, ok)
	assert.Same(t, existing, got)

	app.RunFrames(3)
	assert.Equal(t, 3, got.frames)
}
