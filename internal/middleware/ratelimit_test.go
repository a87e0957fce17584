package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avelar/linkshort/internal/middleware"
	"github.com/avelar/linkshort/internal/ratelimit"
	"github.com/avelar/linkshort/internal/store"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockLimiter struct {
	allowed bool
	err     error
}

func (m *mockLimiter) Allow(_ context.Context, _ string) (bool, error) {
	return m.allowed, m.err
}

func setupLimitedAPI(t *testing.T, policy *ratelimit.Policy) *chi.Mux {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))

	limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), policy)
	api.UseMiddleware(middleware.PolicyRateLimiter(
		api, limiter, ratelimit.NewOperationScopeResolver(), zap.NewNop()))

	return routerWithOps(api, router)
}

func routerWithOps(api huma.API, router *chi.Mux) *chi.Mux {
	huma.Register(api, huma.Operation{
		Method: http.MethodGet,
		Path:   "/open",
	}, func(_ context.Context, _ *struct{}) (*testOutput, error) {
		return &testOutput{Body: "ok"}, nil
	})

	huma.Register(api, huma.Operation{
		Method: http.MethodGet,
		Path:   "/custom",
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{{Window: 15 * time.Minute, Max: 5}},
			},
		},
	}, func(_ context.Context, _ *struct{}) (*testOutput, error) {
		return &testOutput{Body: "ok"}, nil
	})

	huma.Register(api, huma.Operation{
		Method: http.MethodGet,
		Path:   "/custom-sibling",
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{{Window: 15 * time.Minute, Max: 5}},
			},
		},
	}, func(_ context.Context, _ *struct{}) (*testOutput, error) {
		return &testOutput{Body: "ok"}, nil
	})

	huma.Register(api, huma.Operation{
		Method: http.MethodGet,
		Path:   "/unlimited",
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, func(_ context.Context, _ *struct{}) (*testOutput, error) {
		return &testOutput{Body: "ok"}, nil
	})

	return router
}

func get(router *chi.Mux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("User-Agent", "TestAgent/1.0")
	req.Header.Set("X-Real-IP", "192.168.1.1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestPolicyRateLimiter(t *testing.T) {
	t.Run("enforces custom endpoint limits", func(t *testing.T) {
		router := setupLimitedAPI(t, ratelimit.NewPolicy())

		for i := range 5 {
			w := get(router, "/custom")
			assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		}

		w := get(router, "/custom")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("shares the custom budget across endpoints", func(t *testing.T) {
		router := setupLimitedAPI(t, ratelimit.NewPolicy())

		// Both endpoints declare the same limit, so a client draws from
		// one budget no matter how it splits its requests.
		paths := []string{"/custom", "/custom-sibling", "/custom", "/custom-sibling", "/custom"}
		for i, path := range paths {
			w := get(router, path)
			assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		}

		w := get(router, "/custom-sibling")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("enforces policy limits on plain endpoints", func(t *testing.T) {
		policy := ratelimit.NewPolicy().Set(ratelimit.ScopeGlobal,
			ratelimit.LimitConfig{Window: time.Minute, Max: 2})
		router := setupLimitedAPI(t, policy)

		for range 2 {
			w := get(router, "/open")
			assert.Equal(t, http.StatusOK, w.Code)
		}

		w := get(router, "/open")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("skips disabled endpoints", func(t *testing.T) {
		policy := ratelimit.NewPolicy().Set(ratelimit.ScopeGlobal,
			ratelimit.LimitConfig{Window: time.Minute, Max: 1})
		router := setupLimitedAPI(t, policy)

		for range 10 {
			w := get(router, "/unlimited")
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("tracks clients independently", func(t *testing.T) {
		router := setupLimitedAPI(t, ratelimit.NewPolicy())

		for range 5 {
			w := get(router, "/custom")
			require.Equal(t, http.StatusOK, w.Code)
		}

		w := get(router, "/custom")
		require.Equal(t, http.StatusTooManyRequests, w.Code)

		// Different client IP keeps its own budget.
		req := httptest.NewRequest(http.MethodGet, "/custom", nil)
		req.Header.Set("User-Agent", "TestAgent/1.0")
		req.Header.Set("X-Real-IP", "10.0.0.2")

		w2 := httptest.NewRecorder()
		router.ServeHTTP(w2, req)

		assert.Equal(t, http.StatusOK, w2.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("passes allowed requests through", func(t *testing.T) {
		router := chi.NewMux()
		api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
		api.UseMiddleware(middleware.RateLimiter(api, &mockLimiter{allowed: true}))

		huma.Get(api, "/test", func(_ context.Context, _ *struct{}) (*testOutput, error) {
			return &testOutput{Body: "ok"}, nil
		})

		w := get(router, "/test")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects denied requests with 429", func(t *testing.T) {
		router := chi.NewMux()
		api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
		api.UseMiddleware(middleware.RateLimiter(api, &mockLimiter{allowed: false}))

		huma.Get(api, "/test", func(_ context.Context, _ *struct{}) (*testOutput, error) {
			return &testOutput{Body: "ok"}, nil
		})

		w := get(router, "/test")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("fails with 500 on limiter errors", func(t *testing.T) {
		router := chi.NewMux()
		api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
		api.UseMiddleware(middleware.RateLimiter(api, &mockLimiter{err: errors.New("store down")}))

		huma.Get(api, "/test", func(_ context.Context, _ *struct{}) (*testOutput, error) {
			return &testOutput{Body: "ok"}, nil
		})

		w := get(router, "/test")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
