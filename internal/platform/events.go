package platform

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

type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyQ
)

type KeyState uint8

const (
	Released KeyState = iota
	Pressed
)

// eventQueue buffers events delivered by platform callbacks until the
// frame loop drains them.
type eventQueue struct {
	events []Event
	limit  int
}

func newEventQueue(limit int) *eventQueue {
	if limit <= 0 {
		limit = 1024
	}
	return &eventQueue{limit: limit}
}

// push drops the event when the queue is full.
func (q *eventQueue) push(e Event) bool {
	if len(q.events) >= q.limit {
		return false
	}
	q.events = append(q.events, e)
	return true
}

func (q *eventQueue) pop() (Event, bool) {
	if len(q.events) == 0 {
		return nil, false
	}
	e := q.events[0]
	q.events[0] = nil
	q.events = q.events[1:]
	if len(q.events) == 0 {
		q.events = q.events[:0:0]
	}
	return e, true
}

func (q *eventQueue) len() int {
	return len(q.events)
}
