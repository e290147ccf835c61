package spheredemo

// PlatformWindowModule ensures a single shared GLFW window (WindowState) is created
// and made available as a resource for the GPU and input modules.
// Install is idempotent: if a WindowState resource already exists, it is reused.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

// NewPlatformWindow creates a module that provides a shared WindowState resource.
// If Width/Height are zero, sensible defaults are used.
func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Sphere Demo"
	}
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[WindowState](app); ok {
		// Already created by another module; keep the single window.
		return
	}

	ws := createWindowState(m.Width, m.Height, m.Title)
	app.addResources(ws)
	app.onCleanup(ws.release)
	app.Logger().Infof("window %dx%d %q", m.Width, m.Height, m.Title)
}

// ShouldClose reports whether the user asked to close the window.
func (s *WindowState) ShouldClose() bool {
	return s.windowGlfw.ShouldClose()
}

// Aspect is width/height, 1 for a degenerate window.
func (s *WindowState) Aspect() float32 {
	if s.WindowWidth <= 0 || s.WindowHeight <= 0 {
		return 1
	}
	return float32(s.WindowWidth) / float32(s.WindowHeight)
}
