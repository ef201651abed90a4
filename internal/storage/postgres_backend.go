package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const upsertCollectionQuery = `
	INSERT INTO collections (name, data, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
`

// PostgresBackend хранит коллекции в таблице collections.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend создаёт новый экземпляр PostgresBackend.
func NewPostgresBackend(pool *pgxpool.Pool) *PostgresBackend {
	return &PostgresBackend{pool: pool}
}

func (b *PostgresBackend) Read(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := b.pool.QueryRow(ctx, `SELECT data FROM collections WHERE name = $1`, name).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to read collection %s: %w", name, err)
	}
	return data, nil
}

func (b *PostgresBackend) Write(ctx context.Context, name string, data []byte) error {
	if _, err := b.pool.Exec(ctx, upsertCollectionQuery, name, data); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", name, err)
	}
	return nil
}

// WriteBatch записывает коллекции в одной транзакции.
func (b *PostgresBackend) WriteBatch(ctx context.Context, docs map[string][]byte) error {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for name, data := range docs {
		if _, err := tx.Exec(ctx, upsertCollectionQuery, name, data); err != nil {
			return fmt.Errorf("failed to write collection %s: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit collections: %w", err)
	}
	return nil
}
