package gfx

import "time"

// frameLimiter caps the frame rate of the loop. A zero interval disables it
// and leaves pacing to the swap interval.
type frameLimiter struct {
	interval  time.Duration
	nextFrame time.Time
	now       func() time.Time
	sleep     func(time.Duration)
}

func newFrameLimiter(maxFPS int) *frameLimiter {
	l := &frameLimiter{now: time.Now, sleep: time.Sleep}
	if maxFPS > 0 {
		l.interval = time.Second / time.Duration(maxFPS)
	}
	return l
}

func (l *frameLimiter) wait() {
	if l.interval <= 0 {
		return
	}
	now := l.now()
	if l.nextFrame.IsZero() {
		l.nextFrame = now.Add(l.interval)
		return
	}
	if d := l.nextFrame.Sub(now); d > 0 {
		l.sleep(d)
		now = now.Add(d)
	}
	l.nextFrame = now.Add(l.interval)
}
