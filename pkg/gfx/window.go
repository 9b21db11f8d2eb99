package gfx

import (
	"errors"
	"fmt"

	"github.com/kjkrol/glscene/internal/platform"
)

type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
	Hidden    bool
	// MaxFPS caps the frame loop; zero leaves pacing to VSync.
	MaxFPS int
}

func (w WindowConfig) convert() platform.WindowConfig {
	return platform.WindowConfig{
		Width:     w.Width,
		Height:    w.Height,
		Title:     w.Title,
		Resizable: w.Resizable,
		VSync:     w.VSync,
		Hidden:    w.Hidden,
	}
}

// Window owns the platform window and its OpenGL context.
type Window struct {
	platformWinWrapper platform.PlatformWindowWrapper
	conf               WindowConfig
	width              int
	height             int
	closed             bool
}

func NewWindow(conf WindowConfig) (*Window, error) {
	if conf.Width <= 0 || conf.Height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrWindowCreate, conf.Width, conf.Height)
	}
	wrapper, err := platform.NewPlatformWindowWrapper(conf.convert())
	if err != nil {
		switch {
		case errors.Is(err, platform.ErrInit):
			return nil, fmt.Errorf("%w: %w", ErrContextInit, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrWindowCreate, err)
		}
	}
	Logger().Info("window created", "width", conf.Width, "height", conf.Height, "title", conf.Title)
	return newWindow(wrapper, conf), nil
}

func newWindow(wrapper platform.PlatformWindowWrapper, conf WindowConfig) *Window {
	w := &Window{
		platformWinWrapper: wrapper,
		conf:               conf,
		width:              conf.Width,
		height:             conf.Height,
	}
	if fw, fh := wrapper.FramebufferSize(); fw > 0 && fh > 0 {
		w.width, w.height = fw, fh
	}
	return w
}

// Size returns the framebuffer size in pixels.
func (w *Window) Size() (int, int) {
	if w == nil {
		return 0, 0
	}
	return w.width, w.height
}

func (w *Window) Show() {
	w.platformWinWrapper.Show()
}

func (w *Window) PollEvents() {
	w.platformWinWrapper.PollEvents()
}

func (w *Window) ShouldClose() bool {
	return w.platformWinWrapper.ShouldClose()
}

func (w *Window) SetShouldClose(value bool) {
	w.platformWinWrapper.SetShouldClose(value)
}

func (w *Window) SwapBuffers() {
	w.platformWinWrapper.SwapBuffers()
}

func (w *Window) KeyState(key Key) KeyState {
	return w.platformWinWrapper.KeyState(key)
}

// ElapsedTime returns seconds since the window was created.
func (w *Window) ElapsedTime() float64 {
	return w.platformWinWrapper.ElapsedTime()
}

func (w *Window) Close() {
	if w == nil || w.closed {
		return
	}
	w.platformWinWrapper.Close()
	w.closed = true
	Logger().Info("window closed")
}
