package spheredemo

import (
	"time"
)

// DefaultMaxDt caps a single frame step so a stall (window drag, debugger)
// does not make the animation jump.
const DefaultMaxDt = 250 * time.Millisecond

// Time is the host clock that every frame's shader time is derived from.
type Time struct {
	Time    time.Time
	Dt      time.Duration
	Elapsed time.Duration
	Frame   uint64

	MaxDt   time.Duration
	FixedDt time.Duration
	now     func() time.Time
}

type TimeModule struct {
	// FixedDt, when set, replaces wall-clock deltas; used for captures
	// and tests that need reproducible frames.
	FixedDt time.Duration
	MaxDt   time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	maxDt := mod.MaxDt
	if maxDt <= 0 {
		maxDt = DefaultMaxDt
	}
	cmd.AddResources(&Time{
		Time:    time.Now(),
		Dt:      0,
		MaxDt:   maxDt,
		FixedDt: mod.FixedDt,
		now:     time.Now,
	})
	cmd.UseSystem(
		System(timeSystem).
			InStage(Prelude).
			RunAlways(),
	)
}

func timeSystem(timeResource *Time, log Logger) {
	if timeResource.FixedDt > 0 {
		timeResource.step(timeResource.FixedDt, log)
		return
	}

	now := timeResource.now()
	dt := now.Sub(timeResource.Time)
	timeResource.Time = now
	timeResource.step(dt, log)
}

// step validates dt before it reaches any uniform: negative deltas
// (clock going backwards) are dropped and long stalls are clamped.
func (t *Time) step(dt time.Duration, log Logger) {
	switch {
	case dt < 0:
		log.Warnf("clock went backwards by %v; holding time", -dt)
		dt = 0
	case t.MaxDt > 0 && dt > t.MaxDt:
		log.Debugf("frame took %v; clamping to %v", dt, t.MaxDt)
		dt = t.MaxDt
	}
	t.Dt = dt
	t.Elapsed += dt
	t.Frame++
}

// Seconds is Dt as float seconds.
func (t *Time) Seconds() float64 {
	return t.Dt.Seconds()
}
