package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/stockcheck/pkg/domain"
	"github.com/aretw0/stockcheck/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Store operation results used as the "result" label.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// StoreMetrics counts and times value store calls.
type StoreMetrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewStoreMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcheck_store_operations_total",
				Help: "Total number of value store calls, by operation and result",
			},
			[]string{"op", "result"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockcheck_store_duration_seconds",
				Help:    "Latency of value store calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Operations, m.Duration)
	}
	return m
}

// Instrument returns a middleware that records every call in m.
func Instrument(m *StoreMetrics) Middleware {
	return func(next ports.ValueStore) ports.ValueStore {
		return &instrumented{next: next, metrics: m}
	}
}

type instrumented struct {
	next    ports.ValueStore
	metrics *StoreMetrics
}

func (s *instrumented) observe(op string, start time.Time, err error) {
	result := ResultOK
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		result = ResultNotFound
	case err != nil:
		result = ResultError
	}
	s.metrics.Operations.WithLabelValues(op, result).Inc()
	s.metrics.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *instrumented) Get(ctx context.Context, name string) (value string, err error) {
	start := time.Now()
	defer func() { s.observe("get", start, err) }()
	return s.next.Get(ctx, name)
}

func (s *instrumented) Set(ctx context.Context, name, value string) (err error) {
	start := time.Now()
	defer func() { s.observe("set", start, err) }()
	return s.next.Set(ctx, name, value)
}

func (s *instrumented) EnsureSeeded(ctx context.Context, names []string) (err error) {
	start := time.Now()
	defer func() { s.observe("seed", start, err) }()
	return s.next.EnsureSeeded(ctx, names)
}

func (s *instrumented) Snapshot(ctx context.Context) (rows map[string]string, err error) {
	start := time.Now()
	defer func() { s.observe("snapshot", start, err) }()
	return s.next.Snapshot(ctx)
}
