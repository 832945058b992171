// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics owns the Prometheus registry and the instruments every layer
records into.

A private registry is used instead of the global default so tests can build
isolated instances and assert on counters with 'testutil'.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stager"

// Outcome labels for entry actions.
const (
	OutcomeApplied  = "applied"
	OutcomeIgnored  = "ignored"
	OutcomeRejected = "rejected"
)

// Session lifecycle events.
const (
	SessionOpened    = "opened"
	SessionSubmitted = "submitted"
	SessionDiscarded = "discarded"
)

// Metrics holds the registry and the application instruments.
type Metrics struct {
	registry *prometheus.Registry

	// EntryActions counts dispatched data entry actions by name and outcome.
	EntryActions *prometheus.CounterVec

	// EntrySessions counts session lifecycle events.
	EntrySessions *prometheus.CounterVec

	// BulkRows counts rows persisted by bulk dataset creation.
	BulkRows prometheus.Counter

	// UploadedBytes counts bytes written to object storage.
	UploadedBytes prometheus.Counter

	httpDuration *prometheus.HistogramVec
}

// New builds a registry with the Go runtime and process collectors plus the
// application instruments.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		EntryActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entry_actions_total",
			Help:      "Data entry actions dispatched, by action and outcome.",
		}, []string{"action", "outcome"}),
		EntrySessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entry_sessions_total",
			Help:      "Data entry session lifecycle events.",
		}, []string{"event"}),
		BulkRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_rows_total",
			Help:      "Rows persisted through bulk dataset creation.",
		}),
		UploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Bytes written to object storage.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(m.EntryActions, m.EntrySessions, m.BulkRows, m.UploadedBytes, m.httpDuration)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// # HTTP Instrumentation

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (writer *statusWriter) WriteHeader(code int) {
	writer.status = code
	writer.ResponseWriter.WriteHeader(code)
}

// Middleware observes request latency labelled by chi route pattern, so
// "/api/v1/entry/{id}" is one series regardless of the id.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		startTime := time.Now()
		recorder := &statusWriter{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(recorder, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		m.httpDuration.
			WithLabelValues(request.Method, route, strconv.Itoa(recorder.status)).
			Observe(time.Since(startTime).Seconds())
	})
}
