package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/naipofo/librucmd/internal/logger"
	"github.com/naipofo/librucmd/internal/store/sqlite/sqlbatch"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Store keeps a snapshot of one loaded dataset.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

var defaultFlushOptions = sqlbatch.FlushOptions{
	MaxStatementsPerChunk: 500,
	MaxBytesPerChunk:      1 << 20,
}

func New(db *sql.DB) *Store {
	return &Store{db: db, log: logger.Get()}
}

// Open opens dsn with the pure-Go sqlite driver. The pool is pinned to a
// single connection so ":memory:" databases are shared by every query.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}
	return New(db), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) flushBatch(ctx context.Context, label string, batch *sqlbatch.Batch) error {
	if batch == nil || batch.Empty() {
		s.log.Debug().Str("batch", label).Msg("batch is empty")
		return nil
	}
	s.log.Debug().
		Str("batch", label).
		Int("tables", len(batch.Tables())).
		Int("statements", batch.TotalStatementCount()).
		Int("bytes", batch.TotalByteSize()).
		Msg("flushing batch")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := batch.FlushInOrder(ctx, tx, defaultFlushOptions); err != nil {
		return err
	}
	return tx.Commit()
}
