package health_test

import (
	"context"
	"errors"
	"testing"

	"github.com/avelar/linkshort/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	err error
}

func (s stubChecker) Ping(_ context.Context) error {
	return s.err
}

func TestHealthCheck(t *testing.T) {
	t.Run("reports ok when all dependencies are healthy", func(t *testing.T) {
		handler := health.NewHandler(stubChecker{}, stubChecker{})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body.Status)
		assert.Equal(t, "healthy", resp.Body.Redis)
		assert.Equal(t, "healthy", resp.Body.Postgres)
	})

	t.Run("degrades when redis is down", func(t *testing.T) {
		handler := health.NewHandler(stubChecker{err: errors.New("down")}, stubChecker{})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "degraded", resp.Body.Status)
		assert.Equal(t, "unhealthy", resp.Body.Redis)
		assert.Equal(t, "healthy", resp.Body.Postgres)
	})

	t.Run("degrades when postgres is down", func(t *testing.T) {
		handler := health.NewHandler(stubChecker{}, stubChecker{err: errors.New("down")})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "degraded", resp.Body.Status)
		assert.Equal(t, "healthy", resp.Body.Redis)
		assert.Equal(t, "unhealthy", resp.Body.Postgres)
	})
}
