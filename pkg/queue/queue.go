package queue

// Queue is a basic FIFO queue for cross-component handoff.
type Queue interface {
	Enqueue(item interface{})
	Size() int
	ReadAllMessages() []interface{}
	Clear()
}
