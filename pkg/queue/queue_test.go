package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryQueue(t *testing.T) {
	q := NewInMemoryQueue(4)
	assert.Equal(t, 0, q.Size())

	q.Enqueue("a")
	q.Enqueue("b")
	assert.Equal(t, 2, q.Size())

	items := q.ReadAllMessages()
	assert.Equal(t, []interface{}{"a", "b"}, items)
	assert.Equal(t, 0, q.Size())
}

func TestInMemoryQueueDropsWhenFull(t *testing.T) {
	q := NewInMemoryQueue(2)
	q.Enqueue(1)
	q.Enqueue(2)
	q.Enqueue(3)

	assert.Equal(t, 2, q.Size())
	assert.Equal(t, []interface{}{1, 2}, q.ReadAllMessages())
}

func TestInMemoryQueueClear(t *testing.T) {
	q := NewInMemoryQueue(4)
	q.Enqueue("a")
	q.Clear()
	assert.Equal(t, 0, q.Size())
	assert.Nil(t, q.ReadAllMessages())
}
