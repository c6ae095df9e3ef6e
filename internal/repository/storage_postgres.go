package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/rocketcart/internal/db"
	"github.com/nikolayk812/rocketcart/internal/domain"
	"github.com/nikolayk812/rocketcart/internal/port"
)

type postgresStorage struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) port.Storage {
	return &postgresStorage{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewPostgresWithTx(tx pgx.Tx) port.Storage {
	return &postgresStorage{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (s *postgresStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	entry, err := s.q.GetEntry(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("key[%s]: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("q.GetEntry: %w", err)
	}

	return entry.Value, nil
}

func (s *postgresStorage) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := withTx(ctx, s.pool, s.q, func(q *db.Queries) (struct{}, error) {
		if err := q.LockKey(ctx, key); err != nil {
			return struct{}{}, fmt.Errorf("q.LockKey: %w", err)
		}

		err := q.PutEntry(ctx, db.PutEntryParams{
			Key:   key,
			Value: value,
		})
		if err != nil {
			return struct{}{}, fmt.Errorf("q.PutEntry: %w", err)
		}

		return struct{}{}, nil
	})

	return err
}
