package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// maxCollisionAttempts bounds the salted re-derivation loop in Shorten.
const maxCollisionAttempts = 5

// Service orchestrates shortening and resolution over a durable store and a
// lookaside cache. The store is authoritative; the cache is a rebuildable
// projection of it, so every cache failure degrades to a store round-trip
// instead of failing the request.
type Service struct {
	store  Store
	cache  Cache
	logger *zap.Logger
}

// NewService creates a resolution service over the given store and cache.
func NewService(store Store, cache Cache, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Shorten returns the short code for a long URL, creating and durably
// persisting the mapping on first sight. The same long URL always yields the
// same code.
func (s *Service) Shorten(ctx context.Context, longURL string) (Code, error) {
	// Forward dedup index: a cached code means the mapping is already durable.
	code, err := s.cache.GetCode(ctx, longURL)
	if err == nil {
		return code, nil
	}

	if !errors.Is(err, ErrNotFound) {
		s.logger.Warn("cache lookup failed, falling through to store", zap.Error(err))
	}

	for attempt := 0; attempt < maxCollisionAttempts; attempt++ {
		mapping := &Mapping{
			Code:      GenerateSaltedCode(longURL, attempt),
			LongURL:   longURL,
			CreatedAt: time.Now(),
		}

		err := s.store.Insert(ctx, mapping)
		if errors.Is(err, ErrCodeCollision) {
			s.logger.Warn("short code collision, re-deriving with salt",
				zap.String("code", string(mapping.Code)),
				zap.Int("attempt", attempt),
			)

			continue
		}

		if err != nil {
			return "", fmt.Errorf("persist mapping: %w", err)
		}

		// The mapping is durable; cache population is best-effort.
		if err := s.cache.Put(ctx, mapping); err != nil {
			s.logger.Warn("cache population failed", zap.Error(err))
		}

		return mapping.Code, nil
	}

	return "", fmt.Errorf("derive code for url after %d attempts: %w",
		maxCollisionAttempts, ErrCodeCollision)
}

// Resolve returns the long URL for a short code, serving from the cache when
// possible and repopulating it after a store fallback. ErrNotFound is
// returned when no mapping exists anywhere.
func (s *Service) Resolve(ctx context.Context, code Code) (string, error) {
	longURL, err := s.cache.GetURL(ctx, code)
	if err == nil {
		return longURL, nil
	}

	if !errors.Is(err, ErrNotFound) {
		s.logger.Warn("cache lookup failed, falling through to store", zap.Error(err))
	}

	mapping, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("lookup mapping: %w", err)
	}

	// Repopulate so the next resolve for this code is a cache hit.
	if err := s.cache.Put(ctx, mapping); err != nil {
		s.logger.Warn("cache repopulation failed", zap.Error(err))
	}

	return mapping.LongURL, nil
}
