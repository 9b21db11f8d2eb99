package gfx

import (
	"context"
	"runtime"
)

// TickFunc renders one frame. elapsed is the window's ElapsedTime at the
// start of the frame.
type TickFunc func(elapsed float64) error

// Run drives the frame loop on the calling goroutine until the window is
// asked to close, ctx is done or tick fails. Each iteration polls the
// platform, hands queued events to handle, closes on Escape, calls tick and
// swaps buffers.
func (w *Window) Run(ctx context.Context, tick TickFunc, handle func(Event), strategy EventsConsumerStrategy) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if strategy == nil {
		strategy = DrainAll()
	}
	if handle == nil {
		handle = func(Event) {}
	}
	poll := func() (Event, bool) {
		platformEvent, ok := w.platformWinWrapper.NextEvent()
		if !ok {
			return nil, false
		}
		return convert(platformEvent), true
	}
	dispatch := func(event Event) {
		if e, ok := event.(Resize); ok && e.Width > 0 && e.Height > 0 {
			w.width, w.height = e.Width, e.Height
		}
		handle(event)
	}
	limiter := newFrameLimiter(w.conf.MaxFPS)

	frames := 0
	for !w.ShouldClose() {
		select {
		case <-ctx.Done():
			Logger().Info("frame loop cancelled", "frames", frames)
			return nil
		default:
		}

		w.PollEvents()
		strategy.Consume(poll, dispatch)
		if w.KeyState(KeyEscape) == Pressed {
			w.SetShouldClose(true)
		}

		limiter.wait()
		if tick != nil {
			if err := tick(w.ElapsedTime()); err != nil {
				return err
			}
		}
		w.SwapBuffers()
		frames++
	}
	Logger().Info("frame loop finished", "frames", frames)
	return nil
}
