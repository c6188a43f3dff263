package queue

import "errors"

// ErrRejected is returned when an item could not be enqueued.
var ErrRejected = errors.New("queue rejected item")
