// Package viewer runs the paper strip window: it builds the page and the
// strip once, then polls input, advances the spin and draws each frame.
package viewer

import (
	"fmt"
	"image"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/mobius-paper/internal/config"
	"github.com/Faultbox/mobius-paper/internal/engine/camera"
	"github.com/Faultbox/mobius-paper/internal/engine/debug"
	"github.com/Faultbox/mobius-paper/internal/engine/framebuffer"
	"github.com/Faultbox/mobius-paper/internal/engine/input"
	"github.com/Faultbox/mobius-paper/internal/engine/motion"
	"github.com/Faultbox/mobius-paper/internal/engine/renderer"
	"github.com/Faultbox/mobius-paper/internal/engine/scene"
	"github.com/Faultbox/mobius-paper/internal/engine/window"
	"github.com/Faultbox/mobius-paper/internal/logger"
)

// Title is the window title.
const Title = "Möbius Paper"

// Viewer is the running scene.
type Viewer struct {
	config *config.Config
	log    *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	scene    *scene.Scene

	camera *camera.OrbitCamera
	proj   camera.Projection
	spin   motion.Spin
	rates  motion.Rates

	shots *debug.Screenshots
}

// New builds the page and the strip, then opens the window and uploads
// them. Nothing is drawn until Run.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		config: cfg,
		log:    logger.Named("viewer"),
		input:  input.New(),
		rates:  Rates(cfg.Animation),
		shots:  debug.NewScreenshots(cfg.Window.ScreenshotDir, "mobius"),
	}
	v.camera, v.proj = NewCamera(cfg.Camera)

	am := NewAssets()
	defer am.Close()

	start := time.Now()
	page, err := BuildPage(cfg, am)
	if err != nil {
		return nil, err
	}
	v.log.Info("page rasterized",
		zap.Int("width", page.Width()),
		zap.Int("height", page.Height()),
		zap.Int("lines", len(page.Layout.Lines)),
		zap.Duration("took", time.Since(start)),
	)

	start = time.Now()
	mesh, err := BuildMesh(cfg)
	if err != nil {
		return nil, err
	}
	v.log.Info("strip generated",
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Duration("took", time.Since(start)),
	)

	v.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		HighDPI:    cfg.Window.HighDPI,
		MSAA:       cfg.Window.MSAA,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context from the window.
	w, h := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      w,
		Height:     h,
		ClearColor: [4]float32{1, 1, 1, 1},
		MSAA:       v.window.Multisampled(),
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	opts := scene.DefaultOptions()
	opts.Lights = Rig(cfg.Lighting)
	opts.ToneMapping = cfg.Lighting.ToneMapping
	opts.MaxAnisotropy = v.renderer.Caps().MaxAnisotropy

	v.scene, err = scene.New(page, mesh, opts)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}

	v.log.Info("viewer initialized")
	return v, nil
}

// Run draws frames until the window is closed or ESC is pressed.
func (v *Viewer) Run() error {
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting frame loop")

	for {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		frame := v.input.Update()
		if !v.handleInput(frame) {
			return nil
		}

		v.spin = motion.Advance(v.spin, dt)
		v.render()

		if frame.KeyPressed(sdl.SCANCODE_F12) {
			v.screenshot()
		}

		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dtMs", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
}

// handleInput applies one frame of input. It returns false to quit.
func (v *Viewer) handleInput(f *input.Frame) bool {
	if f.Quit || f.KeyPressed(sdl.SCANCODE_ESCAPE) {
		return false
	}
	if f.Resized {
		v.renderer.Resize(v.window.DrawableSize())
	}
	applyControls(v.camera, f)
	return true
}

// applyControls orbits on left-drag and zooms on the wheel.
func applyControls(cam *camera.OrbitCamera, f *input.Frame) {
	if f.DragX != 0 || f.DragY != 0 {
		cam.HandleDrag(f.DragX, f.DragY)
	}
	if f.Wheel != 0 {
		cam.HandleZoom(f.Wheel)
	}
}

func (v *Viewer) render() {
	v.renderer.Begin()

	x, y := v.spin.Angles(v.rates)
	w, h := v.renderer.Size()
	v.scene.Draw(scene.ModelMatrix(x, y), v.camera.ViewMatrix(), v.proj.Matrix(w, h), v.camera.Position())

	v.renderer.End()
}

// screenshot saves the frame. With a capture scale above one the scene is
// drawn again into an offscreen target that many times the window size.
func (v *Viewer) screenshot() {
	img, err := v.capture(v.config.Window.CaptureScale)
	if err != nil {
		v.log.Warn("offscreen capture unavailable, saving window", zap.Error(err))
		img = v.renderer.ReadPixels()
	}

	name, err := v.shots.Save(img)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", name), zap.Int("width", img.Bounds().Dx()))
}

func (v *Viewer) capture(scale int) (*image.RGBA, error) {
	if scale <= 1 {
		return v.renderer.ReadPixels(), nil
	}

	w, h := v.renderer.Size()
	cw, ch := framebuffer.ScaledSize(w, h, scale, framebuffer.MaxSize())
	fb, err := framebuffer.New(cw, ch)
	if err != nil {
		return nil, err
	}
	defer fb.Destroy()
	cw, ch = fb.Size()

	restore := fb.BindWithViewport()
	defer restore()

	v.renderer.Begin()
	x, y := v.spin.Angles(v.rates)
	v.scene.Draw(scene.ModelMatrix(x, y), v.camera.ViewMatrix(), v.proj.Matrix(cw, ch), v.camera.Position())

	return renderer.FlipRows(fb.ReadPixels(), cw, ch), nil
}

// Close releases resources in reverse creation order.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.scene != nil {
		v.scene.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
