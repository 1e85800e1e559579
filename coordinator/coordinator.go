// Package coordinator implements the exclusive-access wrapper around the
// persistent store. Every mutating path in the system runs through
// PerformTransaction, which guarantees transactions never interleave.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"article-store/domain"
	"article-store/repository"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is satisfied by *pgxpool.Pool and by pgxmock pools.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Runner is the transaction primitive the services depend on.
type Runner interface {
	// PerformTransaction runs body inside a serialized transaction. Commit
	// happens once, after body returns nil; any error aborts the commit and
	// propagates unchanged after being logged.
	PerformTransaction(ctx context.Context, tag string, body func(ctx context.Context, store repository.Store) error) error

	// Read returns a pool-bound store for read-only access. Reads bypass the
	// serialized path entirely.
	Read() repository.Store
}

// Coordinator serializes all storage writes behind one mutex. The mutex is
// the single serialization point: writes execute strictly one at a time per
// store instance even when callers invoke concurrently.
type Coordinator struct {
	db     TxBeginner
	read   repository.Store
	logger *slog.Logger

	mu sync.Mutex

	// tagLoggers reuses a pre-labelled logger per operation tag.
	tagMu      sync.Mutex
	tagLoggers map[string]*slog.Logger
}

// New creates a coordinator over the given pool-like handle. The handle must
// also be a driver.Querier for the read path; pgxpool.Pool satisfies both.
func New(db TxBeginner, read repository.Store, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		db:         db,
		read:       read,
		logger:     logger,
		tagLoggers: make(map[string]*slog.Logger),
	}
}

// Read returns the non-serialized read-only store.
func (c *Coordinator) Read() repository.Store {
	return c.read
}

// PerformTransaction implements Runner.
func (c *Coordinator) PerformTransaction(ctx context.Context, tag string, body func(ctx context.Context, store repository.Store) error) error {
	log := c.taggedLogger(tag)

	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.Begin(ctx)
	if err != nil {
		log.ErrorContext(ctx, "failed to begin transaction", "error", err)
		return fmt.Errorf("%w: begin: %v", domain.ErrStorageFailure, err)
	}

	store := repository.NewStore(tx, log)

	if err := body(ctx, store); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.ErrorContext(ctx, "failed to rollback transaction", "error", rbErr)
		}
		log.ErrorContext(ctx, "transaction aborted", "error", err)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		log.ErrorContext(ctx, "failed to commit transaction", "error", err)
		return fmt.Errorf("%w: commit: %v", domain.ErrStorageFailure, err)
	}

	return nil
}

// Perform runs body inside a serialized transaction and returns its value.
func Perform[T any](ctx context.Context, r Runner, tag string, body func(ctx context.Context, store repository.Store) (T, error)) (T, error) {
	var result T

	err := r.PerformTransaction(ctx, tag, func(ctx context.Context, store repository.Store) error {
		var bodyErr error
		result, bodyErr = body(ctx, store)
		return bodyErr
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}

func (c *Coordinator) taggedLogger(tag string) *slog.Logger {
	c.tagMu.Lock()
	defer c.tagMu.Unlock()

	if log, ok := c.tagLoggers[tag]; ok {
		return log
	}

	log := c.logger.With("operation", tag)
	c.tagLoggers[tag] = log

	return log
}
