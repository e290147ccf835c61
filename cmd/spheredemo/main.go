package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/gekko3d/spheredemo"
	"github.com/gekko3d/spheredemo/effect"
	"github.com/gekko3d/spheredemo/uniforms"
)

func init() {
	// glfw and the wgpu surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("spheredemo", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath = fs.String("config", "", "TOML config file")
		effectName = fs.String("effect", "", "effect: sphere, tunnel or fractal")
		resolution = fs.Int("resolution", 0, "procedural texture size in texels")
		width      = fs.Int("width", 0, "window width")
		height     = fs.Int("height", 0, "window height")
		debug      = fs.Bool("debug", false, "debug logging")
		shaderDir  = fs.String("shaders", "", "directory of kernel .wgsl files to hot-reload")
		headless   = fs.Bool("headless", false, "render on the CPU without a window")
		frames     = fs.Uint64("frames", 60, "headless: frames to step before rendering")
		out        = fs.String("out", "sphere.tiff", "headless: output TIFF")
		verify     = fs.Bool("verify", false, "print host and shader uniform layouts and exit")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *verify {
		return verifyLayouts(stdout, stderr)
	}

	cfg, err := spheredemo.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "effect":
			cfg.Effect = *effectName
		case "resolution":
			cfg.Resolution = *resolution
		case "width":
			cfg.Window.Width = *width
		case "height":
			cfg.Window.Height = *height
		case "debug":
			cfg.Debug = *debug
		case "shaders":
			cfg.ShaderDir = *shaderDir
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if *headless {
		app := spheredemo.NewHeadlessApp(cfg, *frames, *out)
		app.Run()
		if p, ok := spheredemo.Resource[spheredemo.Preview](app); ok && p.Out != "" && !p.Written {
			return 1
		}
		return 0
	}

	spheredemo.NewWindowedApp(cfg).Run()
	return 0
}

func verifyLayouts(stdout, stderr io.Writer) int {
	tables, err := uniforms.VerifyAll()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	for _, t := range tables {
		fmt.Fprintln(stdout, t)
	}
	for _, e := range effect.All {
		if _, err := e.Verify(e.Source()); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(stdout, "%s kernel %s: ok\n", e, e.KernelName())
	}
	return 0
}
