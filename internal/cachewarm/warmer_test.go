package cachewarm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avelar/linkshort/internal/cachewarm"
	"github.com/avelar/linkshort/internal/shortener"
	"github.com/avelar/linkshort/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type brokenCache struct{}

func (brokenCache) GetURL(_ context.Context, _ shortener.Code) (string, error) {
	return "", errors.New("cache down")
}

func (brokenCache) GetCode(_ context.Context, _ string) (shortener.Code, error) {
	return "", errors.New("cache down")
}

func (brokenCache) Put(_ context.Context, _ *shortener.Mapping) error {
	return errors.New("cache down")
}

func TestWarmer_Handle(t *testing.T) {
	t.Run("populates both cache directions", func(t *testing.T) {
		cache := store.NewMemoryCache()
		warmer := cachewarm.NewWarmer(cache, zap.NewNop())

		event := &cachewarm.MappingCreatedEvent{
			Code:      "t8TE6w",
			LongURL:   "https://example.com/page",
			CreatedAt: time.Now(),
		}

		err := warmer.Handle(context.Background(), event)
		require.NoError(t, err)

		longURL, err := cache.GetURL(context.Background(), "t8TE6w")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/page", longURL)

		code, err := cache.GetCode(context.Background(), "https://example.com/page")
		require.NoError(t, err)
		assert.Equal(t, shortener.Code("t8TE6w"), code)
	})

	t.Run("propagates cache failures for redelivery", func(t *testing.T) {
		warmer := cachewarm.NewWarmer(brokenCache{}, zap.NewNop())

		event := &cachewarm.MappingCreatedEvent{
			Code:    "t8TE6w",
			LongURL: "https://example.com/page",
		}

		assert.Error(t, warmer.Handle(context.Background(), event))
	})
}
