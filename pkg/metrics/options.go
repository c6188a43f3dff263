package metrics

import (
	"maps"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager.
type Option func(*Manager)

// WithMetricsEnabled turns recording on or off. A disabled manager still
// registers its metrics, so an exported textfile keeps its shape.
func WithMetricsEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithConstLabels adds labels carried by every series, such as the run id.
// Empty keys and values are skipped.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		for k, v := range labels {
			if k == "" || v == "" {
				continue
			}
			if m.constLabels == nil {
				m.constLabels = make(prometheus.Labels, len(labels))
			}
			m.constLabels[k] = v
		}
	}
}

// WithPrometheusRegistry registers the metrics on r instead of the default
// registerer.
func WithPrometheusRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// labels returns a copy of the manager's constant labels.
func (m *Manager) labels() prometheus.Labels {
	return maps.Clone(m.constLabels)
}
