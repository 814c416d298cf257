package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/campusmap/internal/core/domain"
	"github.com/samirrijal/campusmap/internal/pkg/metrics"
)

// SlotRepo implements ports.SlotStore on the kv_slots table.
type SlotRepo struct {
	db *DB
}

func NewSlotRepo(db *DB) *SlotRepo {
	return &SlotRepo{db: db}
}

func (r *SlotRepo) Get(ctx context.Context, key string) ([]byte, error) {
	defer metrics.ObserveSlot("postgres", "get", time.Now())

	var value []byte
	err := r.db.Pool.QueryRow(ctx, `SELECT value FROM kv_slots WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSlotEmpty
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (r *SlotRepo) Set(ctx context.Context, key string, value []byte) error {
	defer metrics.ObserveSlot("postgres", "set", time.Now())

	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO kv_slots (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, value)
	return err
}

func (r *SlotRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM kv_slots WHERE key = $1`, key)
	return err
}

func (r *SlotRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
