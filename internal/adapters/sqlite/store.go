// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/taskgraph/internal/ports/secondary"
)

// executor is the subset of *sql.DB and *sql.Tx the repositories need.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements secondary.Store over a SQLite database. Writes and reads
// go through separate pools so a read transaction never holds the write lock.
type Store struct {
	db     *sql.DB
	reader *sql.DB
}

// NewStore creates a Store that reads and writes through one pool. The
// database must already carry the schema.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, reader: db}
}

// NewStoreWithReader creates a Store that runs WithReadTx on reader, a pool
// opened with db.OpenReader on the same file as writer.
func NewStoreWithReader(writer, reader *sql.DB) *Store {
	return &Store{db: writer, reader: reader}
}

// WithTx runs fn inside one transaction and commits if fn succeeds.
// Any error from fn rolls back every write made through the repositories.
func (s *Store) WithTx(ctx context.Context, fn func(secondary.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(newTxRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// WithReadTx runs fn inside a transaction that is always rolled back, so
// every read inside fn sees one snapshot. The driver ignores TxOptions, so
// the reader pool's DSN decides whether BEGIN takes the write lock.
func (s *Store) WithReadTx(ctx context.Context, fn func(secondary.Repositories) error) error {
	tx, err := s.reader.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback()

	return fn(newTxRepositories(tx))
}

// txRepositories binds every repository to one transaction.
type txRepositories struct {
	lists   *ListRepository
	items   *ItemRepository
	deps    *DependencyRepository
	history *HistoryRepository
	log     *LogWriterAdapter
}

func newTxRepositories(tx *sql.Tx) *txRepositories {
	history := newHistoryRepository(tx)
	return &txRepositories{
		lists:   newListRepository(tx),
		items:   newItemRepository(tx),
		deps:    newDependencyRepository(tx),
		history: history,
		log:     NewLogWriterAdapter(history),
	}
}

func (r *txRepositories) Lists() secondary.ListRepository             { return r.lists }
func (r *txRepositories) Items() secondary.ItemRepository             { return r.items }
func (r *txRepositories) Dependencies() secondary.DependencyRepository { return r.deps }
func (r *txRepositories) History() secondary.HistoryRepository         { return r.history }
func (r *txRepositories) Log() secondary.HistoryWriter                 { return r.log }

var _ secondary.Store = (*Store)(nil)
