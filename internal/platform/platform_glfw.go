package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type glfwWindowWrapper struct {
	window *glfw.Window
	queue  *eventQueue
	start  float64
}

var glfwKeys = map[glfw.Key]Key{
	glfw.KeyEscape: KeyEscape,
	glfw.KeyEnter:  KeyEnter,
	glfw.KeySpace:  KeySpace,
	glfw.KeyLeft:   KeyLeft,
	glfw.KeyRight:  KeyRight,
	glfw.KeyUp:     KeyUp,
	glfw.KeyDown:   KeyDown,
	glfw.KeyQ:      KeyQ,
}

var keysGLFW = func() map[Key]glfw.Key {
	out := make(map[Key]glfw.Key, len(glfwKeys))
	for g, k := range glfwKeys {
		out[k] = g
	}
	return out
}()

// NewPlatformWindowWrapper initializes GLFW, opens a window with an
// OpenGL 3.3 core context and makes that context current.
func NewPlatformWindowWrapper(conf WindowConfig) (PlatformWindowWrapper, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfwBool(conf.Resizable))
	glfw.WindowHint(glfw.Visible, glfwBool(!conf.Hidden))

	window, err := glfw.CreateWindow(conf.Width, conf.Height, conf.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("%w: %w", ErrWindowCreate, err)
	}
	window.MakeContextCurrent()
	if conf.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &glfwWindowWrapper{
		window: window,
		queue:  newEventQueue(0),
		start:  glfw.GetTime(),
	}
	window.SetKeyCallback(w.onKey)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.queue.push(Resize{Width: width, Height: height})
	})
	window.SetCloseCallback(func(_ *glfw.Window) {
		w.queue.push(CloseRequest{})
	})
	return w, nil
}

func (w *glfwWindowWrapper) onKey(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, _ glfw.ModifierKey) {
	k := glfwKeys[key]
	label := glfw.GetKeyName(key, scancode)
	switch action {
	case glfw.Press:
		w.queue.push(KeyPress{Key: k, Label: label})
	case glfw.Release:
		w.queue.push(KeyRelease{Key: k, Label: label})
	}
}

func (w *glfwWindowWrapper) Show() {
	w.window.Show()
}

func (w *glfwWindowWrapper) Close() {
	if w.window == nil {
		return
	}
	w.window.Destroy()
	w.window = nil
	glfw.Terminate()
}

func (w *glfwWindowWrapper) PollEvents() {
	glfw.PollEvents()
}

func (w *glfwWindowWrapper) NextEvent() (Event, bool) {
	return w.queue.pop()
}

func (w *glfwWindowWrapper) ShouldClose() bool {
	return w.window.ShouldClose()
}

func (w *glfwWindowWrapper) SetShouldClose(value bool) {
	w.window.SetShouldClose(value)
}

func (w *glfwWindowWrapper) SwapBuffers() {
	w.window.SwapBuffers()
}

func (w *glfwWindowWrapper) KeyState(key Key) KeyState {
	g, ok := keysGLFW[key]
	if !ok {
		return Released
	}
	if w.window.GetKey(g) == glfw.Release {
		return Released
	}
	return Pressed
}

func (w *glfwWindowWrapper) ElapsedTime() float64 {
	return glfw.GetTime() - w.start
}

func (w *glfwWindowWrapper) FramebufferSize() (int, int) {
	return w.window.GetFramebufferSize()
}

func glfwBool(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}
