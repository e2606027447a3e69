package db

import (
	"context"
	"fmt"

	"fintrack-server/src/services"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgx satisfied by both *pgxpool.Pool and pgx.Tx, so
// every query function here works inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements services.Store on postgres. Atomic units are real
// database transactions; account rows touched by a balance adjustment are
// locked with SELECT ... FOR UPDATE so concurrent mutations against the same
// account serialize.
type Store struct {
	pool *pgxpool.Pool
	db   DBTX
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

func (s *Store) Atomic(ctx context.Context, fn func(services.Store) error) error {
	if s.pool == nil {
		// Already transaction-bound; nested units join the outer one.
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
