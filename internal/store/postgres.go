package store

import (
	"context"
	"errors"

	"github.com/avelar/linkshort/internal/shortener"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a PostgreSQL implementation of shortener.Store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed mapping store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert persists a mapping. The primary key on code makes concurrent inserts
// of the same mapping idempotent; a code already held by a different long URL
// is reported as shortener.ErrCodeCollision.
func (p *PostgresStore) Insert(ctx context.Context, m *shortener.Mapping) error {
	query := `
		INSERT INTO mappings (code, long_url, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query,
		string(m.Code),
		m.LongURL,
		m.CreatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 1 {
		return nil
	}

	// Conflict: decide between an idempotent duplicate and a real collision.
	existing, err := p.GetByCode(ctx, m.Code)
	if err != nil {
		return err
	}

	if existing.LongURL == m.LongURL {
		return nil
	}

	return shortener.ErrCodeCollision
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Mapping, error) {
	query := `
		SELECT code, long_url, created_at
		FROM mappings
		WHERE code = $1
	`

	var m shortener.Mapping

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(
		&m.Code,
		&m.LongURL,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &m, nil
}

// Compile-time check.
var _ shortener.Store = (*PostgresStore)(nil)
