package spheredemo

import (
	"sort"
	"strings"
	"time"
)

// Profiler accumulates CPU time per named scope between reports.
type Profiler struct {
	scopes map[string]time.Duration
	frames int
	since  time.Time
	now    func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		scopes: map[string]time.Duration{},
		since:  time.Now(),
		now:    time.Now,
	}
}

// Begin starts timing scope; call the returned func to stop.
func (p *Profiler) Begin(scope string) func() {
	start := p.now()
	return func() {
		p.scopes[scope] += p.now().Sub(start)
	}
}

// Frame counts one finished frame.
func (p *Profiler) Frame() {
	p.frames++
}

// Report summarizes FPS and average per-frame scope times since the last
// Reset, scopes sorted by name.
func (p *Profiler) Report() (fps float64, summary string) {
	elapsed := p.now().Sub(p.since)
	if elapsed > 0 {
		fps = float64(p.frames) / elapsed.Seconds()
	}
	names := make([]string, 0, len(p.scopes))
	for name := range p.scopes {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteString(" ")
		}
		avg := p.scopes[name]
		if p.frames > 0 {
			avg /= time.Duration(p.frames)
		}
		sb.WriteString(name + "=" + avg.String())
	}
	return fps, sb.String()
}

func (p *Profiler) Reset() {
	clear(p.scopes)
	p.frames = 0
	p.since = p.now()
}

type ProfilerModule struct {
	// Interval between log reports; zero disables logging.
	Interval time.Duration
}

func (mod ProfilerModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[Profiler](app); !ok {
		cmd.AddResources(NewProfiler())
	}
	interval := mod.Interval
	cmd.UseSystem(
		System(func(p *Profiler, log Logger) {
			p.Frame()
			if interval <= 0 || p.now().Sub(p.since) < interval {
				return
			}
			fps, summary := p.Report()
			log.Infof("fps=%.1f %s", fps, summary)
			p.Reset()
		}).
			InStage(Finale).
			RunAlways(),
	)
}

// ensureProfiler makes the Profiler resource available to GPU systems even
// when ProfilerModule is not installed.
func ensureProfiler(app *App) *Profiler {
	if p, ok := Resource[Profiler](app); ok {
		return p
	}
	p := NewProfiler()
	app.addResources(p)
	return p
}
