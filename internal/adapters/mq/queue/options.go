package queue

// Option configures NewInMemoryQueue.
type Option func(*options)

type options struct {
	capacity int
}

// WithCapacity sets the maximum capacity of the queue.
func WithCapacity(capacity int) Option {
	return func(o *options) {
		if capacity > 0 {
			o.capacity = capacity
		}
	}
}
