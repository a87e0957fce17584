package shortener

import (
	"context"
	"errors"
	"time"
)

// Code represents a short URL code.
type Code string

// Mapping associates a long URL with its derived short code.
type Mapping struct {
	Code      Code
	LongURL   string
	CreatedAt time.Time
}

// ErrNotFound is returned when no mapping exists for the requested key.
var ErrNotFound = errors.New("mapping not found")

// ErrCodeCollision is returned when a code already maps to a different long URL.
var ErrCodeCollision = errors.New("short code collision")

// Store is the durable system of record for mappings.
//
// Insert must be safe under duplicate-insert races: inserting a mapping that
// already exists with the same long URL succeeds, while inserting a code that
// maps to a different long URL returns ErrCodeCollision.
type Store interface {
	Insert(ctx context.Context, m *Mapping) error
	GetByCode(ctx context.Context, code Code) (*Mapping, error)
}

// Cache is a volatile lookaside over the store. It indexes mappings in both
// directions: code to long URL for resolution, and long URL to code so that
// repeated shorten requests skip the store entirely.
//
// A miss is reported as ErrNotFound; any other error means the cache itself
// failed and callers are expected to fall through to the store.
type Cache interface {
	GetURL(ctx context.Context, code Code) (string, error)
	GetCode(ctx context.Context, longURL string) (Code, error)
	Put(ctx context.Context, m *Mapping) error
}
