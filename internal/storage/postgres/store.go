package postgres

// Package postgres provides a pgx-backed ledger store. The ledger keeps its
// single-document shape: the whole account collection is one JSONB row,
// encoded and decoded with the same codec as the file store. Update cycles
// take a transaction-scoped advisory lock so read-modify-write sequences are
// serialized across every connection, not just this process.
//
// The expected schema lives under db/migrations.

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tinoosan/bank/internal/bank"
	"github.com/tinoosan/bank/internal/errs"
)

// ledgerLockKey identifies the advisory lock guarding the ledger row.
const ledgerLockKey = 7278551

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// Load returns the current persisted ledger. A missing row reads as an empty
// ledger.
func (s *Store) Load(ctx context.Context) (bank.Ledger, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `select doc from ledger where id = 1`).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return bank.NewLedger(), nil
	}
	if err != nil {
		return bank.Ledger{}, fmt.Errorf("%w: load ledger: %v", errs.ErrStorage, err)
	}
	l, err := bank.DecodeLedger(doc)
	if err != nil {
		return bank.Ledger{}, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	return l, nil
}

// Save replaces the ledger document in one statement.
func (s *Store) Save(ctx context.Context, l bank.Ledger) error {
	doc, err := bank.EncodeLedger(l)
	if err != nil {
		return fmt.Errorf("%w: encode ledger: %v", errs.ErrStorage, err)
	}
	if _, err := s.pool.Exec(ctx, `
		insert into ledger (id, doc) values (1, $1)
		on conflict (id) do update set doc = excluded.doc, updated_at = now()
	`, doc); err != nil {
		return fmt.Errorf("%w: save ledger: %v", errs.ErrStorage, err)
	}
	return nil
}

// Update runs one load-mutate-save cycle inside a transaction holding the
// ledger advisory lock. If fn returns an error the transaction rolls back and
// the error is returned as-is.
func (s *Store) Update(ctx context.Context, fn func(*bank.Ledger) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", errs.ErrStorage, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `select pg_advisory_xact_lock($1)`, ledgerLockKey); err != nil {
		return fmt.Errorf("%w: acquire ledger lock: %v", errs.ErrStorage, err)
	}
	var doc []byte
	err = tx.QueryRow(ctx, `select doc from ledger where id = 1`).Scan(&doc)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: load ledger: %v", errs.ErrStorage, err)
	}
	l, err := bank.DecodeLedger(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	if err := fn(&l); err != nil {
		return err
	}
	out, err := bank.EncodeLedger(l)
	if err != nil {
		return fmt.Errorf("%w: encode ledger: %v", errs.ErrStorage, err)
	}
	if _, err := tx.Exec(ctx, `
		insert into ledger (id, doc) values (1, $1)
		on conflict (id) do update set doc = excluded.doc, updated_at = now()
	`, out); err != nil {
		return fmt.Errorf("%w: save ledger: %v", errs.ErrStorage, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", errs.ErrStorage, err)
	}
	return nil
}
