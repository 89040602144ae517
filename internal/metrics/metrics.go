// Package metrics содержит счётчики Prometheus сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
)

const namespace = "executive_coach"

// Metrics — счётчики вызовов внешних API, решений доступа и уведомлений.
type Metrics struct {
	upstreamCalls *prometheus.CounterVec
	gateDecisions *prometheus.CounterVec
	notices       *prometheus.CounterVec
}

// New регистрирует счётчики в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_calls_total",
			Help:      "Calls to third-party APIs by provider and outcome.",
		}, []string{"provider", "outcome"}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_gate_decisions_total",
			Help:      "Access gate evaluations by resulting state.",
		}, []string{"state"}),
		notices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trial_notices_total",
			Help:      "Trial notices fired by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.upstreamCalls, m.gateDecisions, m.notices)
	return m
}

// ObserveUpstream учитывает вызов провайдера; исход определяется видом ошибки.
// Ошибки, возникшие без ответа провайдера с ошибкой, не учитываются.
func (m *Metrics) ObserveUpstream(provider string, err error) {
	if apperr.IsLocal(err) {
		return
	}
	m.upstreamCalls.WithLabelValues(provider, apperr.Kind(err)).Inc()
}

// ObserveGate учитывает решение шлюза доступа.
func (m *Metrics) ObserveGate(state string) {
	m.gateDecisions.WithLabelValues(state).Inc()
}

// ObserveNotice учитывает показанное уведомление.
func (m *Metrics) ObserveNotice(kind string) {
	m.notices.WithLabelValues(kind).Inc()
}
