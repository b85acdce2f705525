// Package handler provides HTTP handlers for all API endpoints.
// The dataset is loaded once at startup and served from memory; encoded
// responses are cached with ETags.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/albapepper/scoracle-quiz/internal/api/respond"
	"github.com/albapepper/scoracle-quiz/internal/cache"
	"github.com/albapepper/scoracle-quiz/internal/config"
	"github.com/albapepper/scoracle-quiz/internal/dataset"
)

// Crests resolves team crests on demand.
type Crests interface {
	Resolve(ctx context.Context, identifier string) string
	IsDefault(url string) bool
}

// HealthChecker is implemented by database-backed stores.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps are the handler collaborators. Store may be nil when the backend has
// nothing to ping.
type Deps struct {
	Data   *dataset.Dataset
	Cache  *cache.Cache
	Crests Crests
	Store  HealthChecker
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	data   *dataset.Dataset
	cache  *cache.Cache
	crests Crests
	store  HealthChecker
	cfg    *config.Config
	logger *slog.Logger

	mu   sync.Mutex
	rand *rand.Rand
}

// New creates a Handler with shared dependencies.
func New(deps Deps, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		data:   deps.Data,
		cache:  deps.Cache,
		crests: deps.Crests,
		store:  deps.Store,
		cfg:    cfg,
		logger: logger,
		rand:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5c0ac1e)),
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, and the loaded dataset.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.Uncached(w, http.StatusOK, map[string]interface{}{
		"name":    "Scoracle Quiz API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"dataset": map[string]interface{}{
			"stage":   h.data.Stage(),
			"players": h.data.Len(),
		},
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.Uncached(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckStore verifies the dataset store.
// @Summary Store health check
// @Description Pings the Postgres or SQLite store. File stores always report healthy.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/store [get]
func (h *Handler) HealthCheckStore(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respond.Uncached(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"store":     h.cfg.StoreBackend,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.store.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("store health check failed", "error", err)
		respond.Uncached(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"store":     h.cfg.StoreBackend,
			"error":     "Store connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.Uncached(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"store":     h.cfg.StoreBackend,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.Uncached(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// serveCached answers from the cache when it can, otherwise encodes the
// value build returns and caches it. build returns false after writing its
// own error response.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, build func() (interface{}, bool)) {
	if data, etag, ok := h.cache.Get(key); ok {
		respond.Cached(w, r, data, etag, ttl, true)
		return
	}

	v, ok := build()
	if !ok {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encode response failed", "key", key, "error", err)
		respond.Error(w, r, respond.CodeInternal, "Failed to encode response")
		return
	}
	etag := h.cache.Set(key, raw, ttl)
	respond.Cached(w, r, raw, etag, ttl, false)
}
