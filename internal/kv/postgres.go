package kv

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresKV stores values in the kv_store table, one row per key.
type PostgresKV struct {
	db *sql.DB
}

func NewPostgresKV(db *sql.DB) *PostgresKV {
	return &PostgresKV{db: db}
}

func (p *PostgresKV) Load(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `SELECT value FROM kv_store WHERE key = $1`
	var value []byte
	err := p.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (p *PostgresKV) Save(ctx context.Context, key string, value []byte) error {
	const query = `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	_, err := p.db.ExecContext(ctx, query, key, value)
	return err
}

func (p *PostgresKV) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM kv_store WHERE key = $1`
	_, err := p.db.ExecContext(ctx, query, key)
	return err
}
