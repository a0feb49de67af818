package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fraddriso20022/internal/address"
	"fraddriso20022/internal/config"
	"fraddriso20022/internal/metrics"
	"fraddriso20022/internal/middleware"
	"fraddriso20022/internal/storage"
	"fraddriso20022/internal/storage/memory"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMemoryEnv(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "0")
	t.Setenv("STORAGE", "memory")
}

func TestNewServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := address.NewService(memory.New(), metrics.New(reg))
	cfg := &config.Config{AppPort: "8080", AppEnv: "test"}

	router := newServer(cfg, svc, middleware.NewRateLimiter(100, 100), reg)
	require.NotNil(t, router)

	t.Run("Health Check", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "OK")
	})

	t.Run("Metrics", func(t *testing.T) {
		svc.ToISO(address.FrenchAddress{}, address.KindIndividual)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "fraddr_conversions_total")
	})
}

func TestRun(t *testing.T) {
	origServe := serve
	defer func() { serve = origServe }()

	t.Run("ServerStopsCleanly", func(t *testing.T) {
		setMemoryEnv(t)
		serve = func(srv *http.Server) error { return http.ErrServerClosed }

		assert.NoError(t, run(context.Background()))
	})

	t.Run("ServerError", func(t *testing.T) {
		setMemoryEnv(t)
		serve = func(srv *http.Server) error { return errors.New("bind failed") }

		assert.EqualError(t, run(context.Background()), "bind failed")
	})

	t.Run("ShutdownOnCancel", func(t *testing.T) {
		setMemoryEnv(t)
		serve = origServe
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.NoError(t, run(ctx))
	})

	t.Run("StorageError", func(t *testing.T) {
		setMemoryEnv(t)
		origOpen := openStorage
		defer func() { openStorage = origOpen }()
		openStorage = func(ctx context.Context, cfg *config.Config) (address.Repository, storage.CloseFunc, error) {
			return nil, nil, errors.New("storage offline")
		}

		assert.EqualError(t, run(context.Background()), "storage offline")
	})

	t.Run("ConfigError", func(t *testing.T) {
		t.Setenv("STORAGE", "postgres")
		t.Setenv("DB_HOST", "")

		assert.ErrorIs(t, run(context.Background()), config.ErrInvalidConfig)
	})
}
