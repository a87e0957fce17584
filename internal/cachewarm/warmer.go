package cachewarm

import (
	"context"
	"fmt"

	"github.com/avelar/linkshort/internal/shortener"
	"go.uber.org/zap"
)

// Warmer populates the mapping cache from MappingCreatedEvents. Losing an
// event is harmless: the store stays authoritative and the resolve path
// repairs the cache on its next miss.
type Warmer struct {
	cache  shortener.Cache
	logger *zap.Logger
}

// NewWarmer creates a cache warmer writing into the given cache.
func NewWarmer(cache shortener.Cache, logger *zap.Logger) *Warmer {
	return &Warmer{
		cache:  cache,
		logger: logger,
	}
}

// Handle caches the mapping announced by the event.
func (w *Warmer) Handle(ctx context.Context, event *MappingCreatedEvent) error {
	mapping := &shortener.Mapping{
		Code:      shortener.Code(event.Code),
		LongURL:   event.LongURL,
		CreatedAt: event.CreatedAt,
	}

	if err := w.cache.Put(ctx, mapping); err != nil {
		return fmt.Errorf("warm cache for code %s: %w", event.Code, err)
	}

	w.logger.Debug("warmed cache",
		zap.String("code", event.Code),
	)

	return nil
}
