// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stager/internal/platform/metrics"
)

/*
TestMetrics_Counters verifies instruments are isolated per instance.
*/
func TestMetrics_Counters(t *testing.T) {
	first := metrics.New()
	second := metrics.New()

	first.EntryActions.WithLabelValues("add_empty_row", metrics.OutcomeApplied).Inc()
	first.EntryActions.WithLabelValues("add_empty_row", metrics.OutcomeApplied).Inc()
	first.BulkRows.Add(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(first.EntryActions.WithLabelValues("add_empty_row", metrics.OutcomeApplied)))
	assert.Equal(t, 3.0, testutil.ToFloat64(first.BulkRows))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.BulkRows))
}

/*
TestMetrics_Middleware verifies route patterns label the histogram and the
handler exposes it.
*/
func TestMetrics_Middleware(t *testing.T) {
	m := metrics.New()

	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/entry/{id}", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})
	router.Handle("/metrics", m.Handler())

	for _, id := range []string{"a", "b"} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/entry/"+id, nil))
		require.Equal(t, http.StatusNoContent, recorder.Code)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.Contains(t, body, `stager_http_request_duration_seconds_count{method="GET",route="/entry/{id}",status="204"} 2`)
	assert.Contains(t, body, "go_goroutines")
}
