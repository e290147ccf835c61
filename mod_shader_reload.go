package spheredemo

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/gekko3d/spheredemo/effect"
)

// ShaderReloadModule watches Dir for edited kernel files and swaps them in
// once their uniform layout checks out.
type ShaderReloadModule struct {
	Dir string
}

// ShaderReloader collects changed file paths from the watcher goroutine.
// GPU objects are only touched by the system draining it on the main thread.
type ShaderReloader struct {
	Dir string

	watcher *fsnotify.Watcher
	done    chan struct{}

	mu      sync.Mutex
	pending map[string]struct{}
}

func (mod ShaderReloadModule) Install(app *App, cmd *Commands) {
	if mod.Dir == "" {
		return
	}
	if _, ok := Resource[ProceduralTexture](app); !ok {
		panic("ShaderReloadModule requires ProceduralTextureModule")
	}

	r, err := NewShaderReloader(mod.Dir, app.Logger())
	if err != nil {
		// Reloading is a convenience; run with the embedded kernels.
		app.Logger().Warnf("shader reload disabled: %v", err)
		return
	}
	app.onCleanup(r.Close)

	cmd.AddResources(r)
	cmd.UseSystem(
		System(shaderReloadSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

func NewShaderReloader(dir string, log Logger) (*ShaderReloader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	r := &ShaderReloader{
		Dir:     dir,
		watcher: watcher,
		done:    make(chan struct{}),
		pending: map[string]struct{}{},
	}
	go r.watch(log)
	log.Infof("watching %s for shader changes", dir)
	return r, nil
}

func (r *ShaderReloader) watch(log Logger) {
	for {
		select {
		case <-r.done:
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if _, ok := kernelForFile(event.Name); !ok {
				continue
			}
			r.queue(event.Name)
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("shader watcher: %v", err)
		}
	}
}

// Close stops the watcher goroutine.
func (r *ShaderReloader) Close() {
	close(r.done)
	if r.watcher != nil {
		r.watcher.Close()
	}
}

func kernelForFile(path string) (effect.Effect, bool) {
	base := filepath.Base(path)
	for _, e := range effect.All {
		if e.FileName() == base {
			return e, true
		}
	}
	return 0, false
}

func shaderReloadSystem(r *ShaderReloader, tex *ProceduralTexture, log Logger) {
	r.drain(tex.Reload, log)
}

// queue marks path for reload. Editors often write a file in several
// events; those collapse into one pending entry.
func (r *ShaderReloader) queue(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[path] = struct{}{}
}

// take empties the pending set and returns its paths in sorted order.
func (r *ShaderReloader) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pending) == 0 {
		return nil
	}
	paths := slices.Sorted(maps.Keys(r.pending))
	clear(r.pending)
	return paths
}

// drain applies every pending change without blocking and returns how many
// kernels were swapped.
func (r *ShaderReloader) drain(reload func(effect.Effect, string) error, log Logger) int {
	swapped := 0
	for _, path := range r.take() {
		e, ok := kernelForFile(path)
		if !ok {
			continue
		}
		body, err := os.ReadFile(path)
		if err != nil {
			log.Warnf("reload %s: %v", path, err)
			continue
		}
		if err := reload(e, string(body)); err != nil {
			log.Errorf("reload %s rejected, keeping running kernel: %v", path, err)
			continue
		}
		swapped++
		log.Infof("reloaded %s kernel from %s", e, path)
	}
	return swapped
}
