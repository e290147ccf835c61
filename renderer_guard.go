package spheredemo

import (
	"fmt"
)

// RendererTag marks that a GPU device owner has been installed into the App.
// Only one may be installed at a time.
type RendererTag struct {
	Name string
}

// UniformWriters records which module writes each uniform buffer. A uniform
// has exactly one host writer per frame.
type UniformWriters struct {
	owners map[string]string
}

// ensureSingleRenderer enforces a single renderer invariant.
// If a different renderer is already installed, it panics with a clear message.
func ensureSingleRenderer(app *App, name string) {
	if app == nil {
		panic("ensureSingleRenderer: app is nil")
	}
	if tag, ok := Resource[RendererTag](app); ok {
		if tag.Name != name {
			app.Logger().Errorf("Multiple renderers installed: %s and %s", tag.Name, name)
			panic(fmt.Sprintf("Multiple renderers installed: %s and %s", tag.Name, name))
		}
		return
	}
	app.addResources(&RendererTag{Name: name})
}

// claimUniform registers owner as the only writer of the named uniform and
// panics if another module already claimed it.
func claimUniform(app *App, uniform string, owner string) {
	writers, ok := Resource[UniformWriters](app)
	if !ok {
		writers = &UniformWriters{owners: map[string]string{}}
		app.addResources(writers)
	}
	if prev, taken := writers.owners[uniform]; taken && prev != owner {
		app.Logger().Errorf("uniform %s written by both %s and %s", uniform, prev, owner)
		panic(fmt.Sprintf("uniform %s written by both %s and %s", uniform, prev, owner))
	}
	writers.owners[uniform] = owner
}

// Owner returns the module that writes uniform.
func (w *UniformWriters) Owner(uniform string) (string, bool) {
	owner, ok := w.owners[uniform]
	return owner, ok
}
