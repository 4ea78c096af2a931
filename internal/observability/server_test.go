// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

package observability_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgrid/authd/internal/observability"
)

func startServer(t *testing.T, ready observability.ReadinessChecker) *observability.Server {
	t.Helper()
	srv := observability.NewServer("127.0.0.1:0", ready)
	_, err := srv.Start()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, srv.Stop(ctx))
	})
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // local test server
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestLiveness(t *testing.T) {
	srv := startServer(t, nil)

	status, body := get(t, "http://"+srv.Addr()+"/healthz/liveness")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok\n", body)
}

func TestReadiness(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv := startServer(t, func() bool { return true })

		status, body := get(t, "http://"+srv.Addr()+"/healthz/readiness")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ok\n", body)
	})

	t.Run("not ready", func(t *testing.T) {
		srv := startServer(t, func() bool { return false })

		status, body := get(t, "http://"+srv.Addr()+"/healthz/readiness")
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "not ready\n", body)
	})

	t.Run("nil checker defaults to ready", func(t *testing.T) {
		srv := startServer(t, nil)

		status, _ := get(t, "http://"+srv.Addr()+"/healthz/readiness")
		assert.Equal(t, http.StatusOK, status)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := startServer(t, nil)

	srv.Metrics().RegistrationsTotal.WithLabelValues("ok").Inc()
	srv.Metrics().LoginsTotal.WithLabelValues("unauthorized").Inc()

	status, body := get(t, "http://"+srv.Addr()+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "authd_registrations_total")
	assert.Contains(t, body, "authd_logins_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestStartTwiceFails(t *testing.T) {
	srv := startServer(t, nil)

	_, err := srv.Start()
	assert.Error(t, err)
}

func TestStopWithoutStart(t *testing.T) {
	srv := observability.NewServer("127.0.0.1:0", nil)
	assert.NoError(t, srv.Stop(context.Background()))
}

func TestCounters(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())

	m.TokenValidationsTotal.WithLabelValues("ok").Inc()
	m.TokenValidationsTotal.WithLabelValues("ok").Inc()
	m.TokenValidationsTotal.WithLabelValues("unauthorized").Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.TokenValidationsTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TokenValidationsTotal.WithLabelValues("unauthorized")))
}
