// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "inclusion_emulator"

// Prometheus records the outcome of emulated candidate inclusion.
// It uses its own registry so several instances can coexist.
type Prometheus struct {
	registry          *prometheus.Registry
	fragmentsAccepted prometheus.Counter
	fragmentsRejected *prometheus.CounterVec
	revalidations     *prometheus.CounterVec
}

// NewPrometheus creates and registers the emulator collectors.
func NewPrometheus() (metrics *Prometheus, err error) {
	metrics = &Prometheus{
		registry: prometheus.NewRegistry(),
	}
	collectorsToRegister := make(map[string]prometheus.Collector)

	metrics.fragmentsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fragments_accepted_total",
		Help:      "candidates accepted as fragments of a speculative chain",
	})
	collectorsToRegister["fragments accepted counter"] = metrics.fragmentsAccepted

	metrics.fragmentsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fragments_rejected_total",
		Help:      "candidates rejected when extending a speculative chain, by reason",
	}, []string{"reason"})
	collectorsToRegister["fragments rejected counter"] = metrics.fragmentsRejected

	metrics.revalidations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "revalidations_total",
		Help:      "fragments revalidated against newer constraints, by result",
	}, []string{"result"})
	collectorsToRegister["revalidations counter"] = metrics.revalidations

	for collectorName, collectorToRegister := range collectorsToRegister {
		err = metrics.registry.Register(collectorToRegister)
		if err != nil && !errors.As(err, &prometheus.AlreadyRegisteredError{}) {
			return nil, fmt.Errorf("cannot register %s: %w", collectorName, err)
		}
	}

	return metrics, nil
}

// FragmentAccepted increments the accepted fragments counter.
func (m *Prometheus) FragmentAccepted() {
	m.fragmentsAccepted.Inc()
}

// FragmentRejected increments the rejected fragments counter for the reason given.
func (m *Prometheus) FragmentRejected(reason string) {
	m.fragmentsRejected.WithLabelValues(reason).Inc()
}

// Revalidated increments the revalidations counter for the result given.
func (m *Prometheus) Revalidated(result string) {
	m.revalidations.WithLabelValues(result).Inc()
}

// Gatherer returns the registry holding the emulator collectors.
func (m *Prometheus) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteToTextfile writes the current metrics to the file at path in the
// Prometheus text format, for the node exporter textfile collector.
func (m *Prometheus) WriteToTextfile(path string) error {
	err := prometheus.WriteToTextfile(path, m.registry)
	if err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
