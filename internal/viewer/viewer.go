// Package viewer implements the interactive window: the main loop, camera
// controls, mouse dragging and the key bindings that drive a simulation.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-softbody/internal/config"
	"github.com/Faultbox/midgard-softbody/internal/engine/camera"
	"github.com/Faultbox/midgard-softbody/internal/engine/debug"
	"github.com/Faultbox/midgard-softbody/internal/engine/input"
	"github.com/Faultbox/midgard-softbody/internal/engine/lighting"
	"github.com/Faultbox/midgard-softbody/internal/engine/picking"
	"github.com/Faultbox/midgard-softbody/internal/engine/renderer"
	"github.com/Faultbox/midgard-softbody/internal/engine/window"
	"github.com/Faultbox/midgard-softbody/internal/logger"
	"github.com/Faultbox/midgard-softbody/internal/physics"
	"github.com/Faultbox/midgard-softbody/internal/sim"
	"github.com/Faultbox/midgard-softbody/pkg/geom"
	"github.com/Faultbox/midgard-softbody/pkg/math"
)

const (
	title = "Midgard Softbody"

	pressureStep = 0.1
	// maxFrameTime clamps the wall-clock step after a stall.
	maxFrameTime = 0.1
)

var boundsColor = math.V3(0.9, 0.9, 0.2)

// Viewer is the interactive front end of a simulation.
type Viewer struct {
	cfg *config.Config
	sim *sim.Simulation

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	shots    *debug.Screenshots

	drag       *physics.Drag
	showBounds bool
	wantShot   bool
	running    bool

	log *zap.Logger
}

// New opens the window and prepares rendering for s.
func New(cfg *config.Config, s *sim.Simulation) (*Viewer, error) {
	v := &Viewer{
		cfg:   cfg,
		sim:   s,
		input: input.New(),
		shots: debug.NewScreenshots("screenshots", "softbody"),
		log:   logger.Named("viewer"),
	}

	var err error
	v.window, err = window.New(title, cfg.Graphics)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// the renderer needs the GL context the window created
	w, h := v.window.Size()
	v.renderer, err = renderer.New(renderer.Config{
		Width:     w,
		Height:    h,
		Wireframe: cfg.Graphics.Wireframe,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	v.renderer.LightDir = lighting.LightDirection(lighting.DefaultLongitude, lighting.DefaultLatitude)

	file := s.Scene()
	v.camera = camera.NewOrbitCamera(file.CameraTarget(), file.CameraDistance())
	if file.Camera.Pitch != 0 {
		v.camera.Pitch = float32(file.Camera.Pitch)
	}
	v.camera.Yaw = float32(file.Camera.Yaw)

	v.log.Info("viewer initialized", zap.Int("width", w), zap.Int("height", h))
	return v, nil
}

// Run starts the main loop and returns when the window is closed.
func (v *Viewer) Run() error {
	v.running = true

	last := time.Now()
	fpsTimer := last
	frames := 0

	v.log.Info("starting main loop")
	for v.running {
		now := time.Now()
		dt := min(float32(now.Sub(last).Seconds()), maxFrameTime)
		last = now

		if v.input.Update() {
			break
		}
		for _, e := range v.input.Events() {
			v.handleEvent(e)
		}

		v.sim.Advance(dt)
		v.render()
		v.window.SwapBuffers()

		frames++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(v.status(frames))
			frames = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

// Close releases the renderer and the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func (v *Viewer) status(fps int) string {
	state := "running"
	if v.sim.Paused() {
		state = "paused"
	}
	return fmt.Sprintf("%s | %d fps | frame %d | %s | %d contacts",
		title, fps, v.sim.Frame(), state, v.sim.Solver().CollisionCount())
}

func (v *Viewer) handleEvent(e input.Event) {
	switch e.Type {
	case input.EventWindowResize:
		v.renderer.Resize(v.window.Resize())

	case input.EventKeyDown:
		if !e.Repeat {
			v.handleKey(e.Key)
		}

	case input.EventMouseDown:
		if e.Button == sdl.BUTTON_LEFT && e.Mods.Has(input.ModShift) {
			v.startDrag(e.MouseX, e.MouseY)
		}

	case input.EventMouseUp:
		if e.Button == sdl.BUTTON_LEFT {
			v.stopDrag()
		}

	case input.EventMouseMove:
		switch {
		case v.drag != nil:
			v.drag.Update(v.rayAt(e.MouseX, e.MouseY))
		case v.input.IsButtonHeld(sdl.BUTTON_LEFT), v.input.IsButtonHeld(sdl.BUTTON_RIGHT):
			v.camera.HandleDrag(float32(e.DX), float32(e.DY))
		}

	case input.EventMouseWheel:
		v.camera.HandleZoom(float32(e.Wheel))
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_SPACE:
		paused := v.sim.TogglePause()
		v.log.Info("pause", zap.Bool("paused", paused))
	case sdl.SCANCODE_N:
		if v.sim.Paused() {
			v.sim.Step()
		}
	case sdl.SCANCODE_R:
		v.stopDrag()
		v.sim.Reset()
	case sdl.SCANCODE_G:
		v.sim.ToggleGravity()
	case sdl.SCANCODE_EQUALS, sdl.SCANCODE_KP_PLUS:
		v.sim.AdjustPressure(pressureStep)
	case sdl.SCANCODE_MINUS, sdl.SCANCODE_KP_MINUS:
		v.sim.AdjustPressure(-pressureStep)
	case sdl.SCANCODE_LEFTBRACKET:
		v.sim.ShiftCollisionLevel(-1)
	case sdl.SCANCODE_RIGHTBRACKET:
		v.sim.ShiftCollisionLevel(1)
	case sdl.SCANCODE_W:
		v.renderer.SetWireframe(!v.renderer.Wireframe())
	case sdl.SCANCODE_B:
		v.showBounds = !v.showBounds
	case sdl.SCANCODE_F:
		v.fitCamera()
	case sdl.SCANCODE_F12:
		v.wantShot = true
	}
}

// rayAt builds the world ray under a cursor position given in window
// coordinates.
func (v *Viewer) rayAt(x, y int) geom.Ray {
	px, py := v.window.ToPixels(x, y)
	w, h := v.window.Size()
	inv := v.camera.ViewProjection(v.renderer.Aspect()).Inverse()
	return picking.ScreenToRay(px, py, float32(w), float32(h), inv)
}

func (v *Viewer) startDrag(x, y int) {
	ray := v.rayAt(x, y)
	hit, ok := picking.PickMesh(ray, v.sim.Meshes())
	if !ok {
		return
	}
	b, ok := v.sim.Solver().BodyByMesh(hit.Mesh)
	if !ok || b.Mass() == 0 {
		return
	}
	d, err := physics.StartDrag(b, hit.Face, hit.Distance)
	if err != nil {
		v.log.Warn("drag", zap.Error(err))
		return
	}
	v.drag = d
	v.renderer.Highlight = b.Mesh()
	v.log.Debug("drag started",
		zap.String("body", b.Name()),
		zap.Int32("face", hit.Face),
		zap.Float32("distance", hit.Distance))
}

func (v *Viewer) stopDrag() {
	v.drag = nil
	v.renderer.Highlight = nil
}

func (v *Viewer) fitCamera() {
	box := geom.Empty()
	for _, b := range v.sim.Bodies() {
		if b.Enabled() && b.Mass() > 0 {
			box = box.ExpandBox(b.AABB())
		}
	}
	if !box.IsEmpty() {
		v.camera.FitToBounds(box)
	}
}

// screenshot reads the frame just drawn, before the buffer swap.
func (v *Viewer) screenshot() {
	v.wantShot = false
	pixels, w, h := v.renderer.ReadPixels()
	name, err := v.shots.Save(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", name))
}

func (v *Viewer) render() {
	v.renderer.Begin(v.camera.ViewProjection(v.renderer.Aspect()))
	v.renderer.Draw(v.sim.Meshes())
	if v.showBounds {
		boxes := make([]geom.AABB, 0, len(v.sim.Bodies()))
		for _, b := range v.sim.Bodies() {
			if b.Enabled() {
				boxes = append(boxes, b.AABB())
			}
		}
		v.renderer.DrawLines(debug.BoxesLines(boxes), boundsColor)
	}
	v.renderer.End()
	if v.wantShot {
		v.screenshot()
	}
}
