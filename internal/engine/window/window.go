// Package window opens the viewer's SDL2 window and OpenGL context and
// tracks the drawable size the renderer and mouse picking work in.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-softbody/internal/config"
	"github.com/Faultbox/midgard-softbody/internal/logger"
)

func init() {
	// GL calls must stay on the main thread
	runtime.LockOSThread()
}

// glAttributes requests a double-buffered 4.1 core context with a depth
// buffer. 4.1 is the newest core profile macOS offers.
var glAttributes = []struct {
	attr  sdl.GLattr
	value int
}{
	{sdl.GL_CONTEXT_MAJOR_VERSION, 4},
	{sdl.GL_CONTEXT_MINOR_VERSION, 1},
	{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
	{sdl.GL_DOUBLEBUFFER, 1},
	{sdl.GL_DEPTH_SIZE, 24},
}

// Window is the SDL window with its GL context.
type Window struct {
	sdl *sdl.Window
	ctx sdl.GLContext

	// drawable size in pixels and its ratio to window coordinates,
	// refreshed by Resize
	width, height  int
	scaleX, scaleY float32

	log *zap.Logger
}

// New opens a resizable window sized and configured from cfg.
func New(title string, cfg config.GraphicsConfig) (*Window, error) {
	log := logger.Named("window")

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}
	for _, a := range glAttributes {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			log.Warn("GL attribute rejected", zap.Int("attr", int(a.attr)), zap.Error(err))
		}
	}

	win, err := sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), flags(cfg))
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}
	ctx, err := win.GLCreateContext()
	if err != nil {
		win.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if err := sdl.GLSetSwapInterval(swapInterval(cfg)); err != nil {
		log.Warn("swap interval not applied", zap.Bool("vsync", cfg.VSync), zap.Error(err))
	}

	w := &Window{sdl: win, ctx: ctx, log: log}
	w.Resize()
	log.Info("window created",
		zap.Int("width", w.width),
		zap.Int("height", w.height),
		zap.Float32("pixel_scale", w.scaleX),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)
	return w, nil
}

func flags(cfg config.GraphicsConfig) uint32 {
	f := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		f |= sdl.WINDOW_FULLSCREEN
	}
	return f
}

func swapInterval(cfg config.GraphicsConfig) int {
	if cfg.VSync {
		return 1
	}
	return 0
}

// pixelScale is the ratio of drawable pixels to window coordinates on each
// axis. It is 1 on an axis whose window extent is not positive.
func pixelScale(winW, winH, drawW, drawH int32) (float32, float32) {
	ratio := func(draw, win int32) float32 {
		if win <= 0 || draw <= 0 {
			return 1
		}
		return float32(draw) / float32(win)
	}
	return ratio(drawW, winW), ratio(drawH, winH)
}

// Resize re-reads the drawable size after a window resize or a move to a
// display with another pixel density and returns it.
func (w *Window) Resize() (int, int) {
	drawW, drawH := w.sdl.GLGetDrawableSize()
	winW, winH := w.sdl.GetSize()
	w.width, w.height = int(drawW), int(drawH)
	w.scaleX, w.scaleY = pixelScale(winW, winH, drawW, drawH)
	w.log.Debug("drawable resized", zap.Int("width", w.width), zap.Int("height", w.height))
	return w.width, w.height
}

// Size is the drawable size in pixels as of the last Resize.
func (w *Window) Size() (int, int) {
	return w.width, w.height
}

// ToPixels converts a cursor position in window coordinates, as SDL mouse
// events report it, to drawable pixels.
func (w *Window) ToPixels(x, y int) (float32, float32) {
	return float32(x) * w.scaleX, float32(y) * w.scaleY
}

// SwapBuffers presents the frame.
func (w *Window) SwapBuffers() {
	w.sdl.GLSwap()
}

// SetTitle replaces the title bar text.
func (w *Window) SetTitle(title string) {
	w.sdl.SetTitle(title)
}

// Close destroys the context and the window and shuts SDL down.
func (w *Window) Close() {
	w.log.Info("closing window")
	if w.ctx != nil {
		sdl.GLDeleteContext(w.ctx)
	}
	if w.sdl != nil {
		w.sdl.Destroy()
	}
	sdl.Quit()
}
