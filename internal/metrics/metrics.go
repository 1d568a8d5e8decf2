// Package metrics holds the Prometheus collectors of the client. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	eventsPublished *prometheus.CounterVec
	handlerPanics   *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	purchases       *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arcade",
			Name:      "events_published_total",
			Help:      "Events published on the broker, by topic.",
		}, []string{"topic"}),
		handlerPanics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arcade",
			Name:      "event_handler_panics_total",
			Help:      "Subscriber panics recovered by the broker, by topic.",
		}, []string{"topic"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arcade",
			Name:      "navigation_transitions_total",
			Help:      "Navigation requests, by target screen and result.",
		}, []string{"target", "result"}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arcade",
			Name:      "purchases_total",
			Help:      "Purchase transactions, by currency and outcome.",
		}, []string{"currency", "outcome"}),
	}
	reg.MustRegister(m.eventsPublished, m.handlerPanics, m.transitions, m.purchases)
	return m
}

func (m *Metrics) EventPublished(topic string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(topic).Inc()
}

func (m *Metrics) HandlerPanicked(topic string) {
	if m == nil {
		return
	}
	m.handlerPanics.WithLabelValues(topic).Inc()
}

func (m *Metrics) Transition(target string, accepted bool) {
	if m == nil {
		return
	}
	result := "accepted"
	if !accepted {
		result = "ignored"
	}
	m.transitions.WithLabelValues(target, result).Inc()
}

func (m *Metrics) Purchase(currency, outcome string) {
	if m == nil {
		return
	}
	m.purchases.WithLabelValues(currency, outcome).Inc()
}
