package queue

import "sync"

// InMemoryQueue implements a bounded in-memory queue. Enqueue drops
// the item when the queue is full rather than blocking a caller.
type InMemoryQueue struct {
	ch   chan interface{}
	lock sync.Mutex
}

// NewInMemoryQueue creates a new queue with the given capacity.
func NewInMemoryQueue(capacity int) *InMemoryQueue {
	return &InMemoryQueue{
		ch: make(chan interface{}, capacity),
	}
}

// Enqueue adds an item to the end of the queue.
func (q *InMemoryQueue) Enqueue(item interface{}) {
	q.lock.Lock()
	defer q.lock.Unlock()
	select {
	case q.ch <- item:
	default:
		// full; drop
	}
}

// Size returns the current size of the queue.
func (q *InMemoryQueue) Size() int {
	return len(q.ch)
}

// ReadAllMessages drains and returns all pending items.
func (q *InMemoryQueue) ReadAllMessages() []interface{} {
	q.lock.Lock()
	defer q.lock.Unlock()
	var items []interface{}
	for len(q.ch) > 0 {
		items = append(items, <-q.ch)
	}
	return items
}

// Clear discards all pending items.
func (q *InMemoryQueue) Clear() {
	q.lock.Lock()
	defer q.lock.Unlock()
	for len(q.ch) > 0 {
		<-q.ch
	}
}
