package platform

import "errors"

var (
	ErrInit         = errors.New("platform: initialization failed")
	ErrWindowCreate = errors.New("platform: window creation failed")
)

type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
	Hidden    bool
}

// PlatformWindowWrapper is a window with a current OpenGL context. All
// methods must be called from the thread that created it.
type PlatformWindowWrapper interface {
	Show()
	Close()
	PollEvents()
	NextEvent() (Event, bool)
	ShouldClose() bool
	SetShouldClose(value bool)
	SwapBuffers()
	KeyState(key Key) KeyState
	ElapsedTime() float64
	FramebufferSize() (width, height int)
}
