package spheredemo

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/spheredemo/effect"
)

func TestKernelForFile(t *testing.T) {
	e, ok := kernelForFile("/tmp/shaders/fractal.wgsl")
	assert.True(t, ok)
	assert.Equal(t, effect.Fractal, e)

	_, ok = kernelForFile("sphere.wgsl")
	assert.False(t, ok, "render shader is not a kernel")
}

func TestShaderReloader_Drain(t *testing.T) {
	dir := t.TempDir()
	tunnel := filepath.Join(dir, "tunnel.wgsl")
	fractal := filepath.Join(dir, "fractal.wgsl")
	require.NoError(t, os.WriteFile(tunnel, []byte(effect.Tunnel.Source()), 0o644))
	require.NoError(t, os.WriteFile(fractal, []byte("broken"), 0o644))

	r := &ShaderReloader{Dir: dir, pending: map[string]struct{}{}}
	r.queue(tunnel)
	r.queue(tunnel)
	r.queue(fractal)
	r.queue(filepath.Join(dir, "missing", "effect_sphere.wgsl"))

	var reloaded []effect.Effect
	swapped := r.drain(func(e effect.Effect, body string) error {
		reloaded = append(reloaded, e)
		_, err := e.Verify(e.Compose(body))
		if err != nil {
			return err
		}
		if body == "broken" {
			return errors.New("compile error")
		}
		return nil
	}, NewNopLogger())

	assert.Equal(t, 1, swapped)
	assert.Equal(t, []effect.Effect{effect.Fractal, effect.Tunnel}, reloaded, "sorted by path, duplicates collapsed")
	assert.Equal(t, 0, r.drain(func(effect.Effect, string) error { return nil }, NewNopLogger()))
}

func TestShaderReloader_WatchesDirectory(t *testing.T) {
	dir := t.TempDir()
	r, err := NewShaderReloader(dir, NewNopLogger())
	require.NoError(t, err)
	defer r.Close()

	path := filepath.Join(dir, "tunnel.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(effect.Tunnel.Source()), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	var got []string
	require.Eventually(t, func() bool {
		got = append(got, r.take()...)
		return slices.Contains(got, path)
	}, 5*time.Second, 10*time.Millisecond, "no change event for tunnel.wgsl")
	assert.NotContains(t, got, filepath.Join(dir, "notes.txt"))
}

func TestShaderReloader_KeepsEveryChangedFile(t *testing.T) {
	r := &ShaderReloader{pending: map[string]struct{}{}}
	for i := 0; i < 100; i++ {
		r.queue("/shaders/tunnel.wgsl")
	}
	r.queue("/shaders/fractal.wgsl")
	r.queue("/shaders/effect_sphere.wgsl")

	assert.Equal(t, []string{"/shaders/effect_sphere.wgsl", "/shaders/fractal.wgsl", "/shaders/tunnel.wgsl"}, r.take())
	assert.Empty(t, r.take())
}
