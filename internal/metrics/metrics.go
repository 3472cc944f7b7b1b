// Package metrics exposes Prometheus instrumentation for the security
// operations service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Incident lifecycle metrics
	IncidentsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secops_incidents_created_total",
			Help: "Total number of incidents created",
		},
		[]string{"source", "severity"},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secops_incident_status_transitions_total",
			Help: "Total number of incident status transitions",
		},
		[]string{"status"},
	)

	// Posture metrics
	PostureComputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secops_posture_computations_total",
			Help: "Total number of posture score computations",
		},
		[]string{"outcome"},
	)

	// Threat signal intake metrics
	ThreatSignals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secops_threat_signals_total",
			Help: "Total number of threat signals processed",
		},
		[]string{"outcome"},
	)
)
