package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueueFIFO(t *testing.T) {
	q := newEventQueue(4)
	q.push(KeyPress{Key: KeyEscape})
	q.push(Resize{Width: 10, Height: 20})
	q.push(CloseRequest{})

	e, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, KeyPress{Key: KeyEscape}, e)
	e, ok = q.pop()
	require.True(t, ok)
	assert.Equal(t, Resize{Width: 10, Height: 20}, e)
	e, ok = q.pop()
	require.True(t, ok)
	assert.Equal(t, CloseRequest{}, e)

	_, ok = q.pop()
	assert.False(t, ok)
	assert.Zero(t, q.len())
}

func TestEventQueueDropsWhenFull(t *testing.T) {
	q := newEventQueue(2)
	assert.True(t, q.push(KeyPress{}))
	assert.True(t, q.push(KeyRelease{}))
	assert.False(t, q.push(CloseRequest{}))
	assert.Equal(t, 2, q.len())
}

func TestEventQueueDefaultLimit(t *testing.T) {
	q := newEventQueue(0)
	for i := 0; i < 1024; i++ {
		require.True(t, q.push(Resize{Width: i}))
	}
	assert.False(t, q.push(Resize{}))
}
