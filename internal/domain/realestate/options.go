package realestate

import (
	"github.com/okian/pdxcrime/internal/domain/layout"
	"github.com/okian/pdxcrime/pkg/logger"
)

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.log = l
		}
	}
}

// WithLayouts replaces the embedded column layouts.
func WithLayouts(t *layout.Table) Option {
	return func(n *Normalizer) {
		if t != nil {
			n.layouts = t
		}
	}
}

// WithRepair turns the RepairYear gap fill on or off. It is on by default.
func WithRepair(enabled bool) Option {
	return func(n *Normalizer) {
		n.repair = enabled
	}
}
