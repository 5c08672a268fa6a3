// Package metrics defines the Prometheus collectors recorded by the Solr client.
package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StatusTransportError labels requests that never received a response.
const StatusTransportError = "transport_error"

// Client holds the per-request collectors.
type Client struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewClient creates the client collectors and registers them on reg.
// Collectors already registered by another client are reused.
func NewClient(reg prometheus.Registerer) (*Client, error) {
	m := &Client{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solr",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total Solr requests by handler, method and status.",
		}, []string{"handler", "method", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "solr",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Solr request duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"handler", "method"}),
	}
	if err := RegisterOrReuse(reg, &m.Requests); err != nil {
		return nil, err
	}
	if err := RegisterOrReuse(reg, &m.Duration); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe records one finished request. status is the HTTP status code,
// or 0 when the request failed before a response arrived.
func (m *Client) Observe(handler, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := StatusTransportError
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.Requests.WithLabelValues(handler, method, label).Inc()
	m.Duration.WithLabelValues(handler, method).Observe(d.Seconds())
}

// RegisterOrReuse registers a collector or reuses an existing one.
func RegisterOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("solr: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("solr: register metric: %w", err)
	}
	return nil
}
