package repository

import "github.com/okian/pdxcrime/pkg/logger"

// Option applies a configuration option to the FSStore.
type Option func(*FSStore)

// WithLogger sets the logger used for fetch events.
func WithLogger(l logger.Logger) Option {
	return func(s *FSStore) {
		if l != nil {
			s.log = l
		}
	}
}
