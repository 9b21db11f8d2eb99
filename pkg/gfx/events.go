package gfx

import "github.com/kjkrol/glscene/internal/platform"

type Event interface{}

type KeyPress struct {
	Key   Key
	Label string
}
type KeyRelease struct {
	Key   Key
	Label string
}
type Resize struct {
	Width, Height int
}
type CloseRequest struct{}
type UnexpectedEvent struct{}

type Key = platform.Key

const (
	KeyUnknown = platform.KeyUnknown
	KeyEscape  = platform.KeyEscape
	KeyEnter   = platform.KeyEnter
	KeySpace   = platform.KeySpace
	KeyLeft    = platform.KeyLeft
	KeyRight   = platform.KeyRight
	KeyUp      = platform.KeyUp
	KeyDown    = platform.KeyDown
	KeyQ       = platform.KeyQ
)

type KeyState = platform.KeyState

const (
	Released = platform.Released
	Pressed  = platform.Pressed
)

func convert(event platform.Event) Event {
	switch e := event.(type) {
	case platform.KeyPress:
		return KeyPress{Key: e.Key, Label: e.Label}
	case platform.KeyRelease:
		return KeyRelease{Key: e.Key, Label: e.Label}
	case platform.Resize:
		return Resize{Width: e.Width, Height: e.Height}
	case platform.CloseRequest:
		return CloseRequest{}
	default:
		return UnexpectedEvent{}
	}
}
