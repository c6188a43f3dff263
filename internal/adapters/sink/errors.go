package sink

import "errors"

// Sentinel kinds for sink errors.
var (
	ErrNoParent          = errors.New("output parent directory does not exist")
	ErrUnknownFormat     = errors.New("unknown output format")
	ErrUnknownCompressor = errors.New("unknown compression codec")
)
