package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"tracker/internal/core"
	"tracker/internal/ledger"

	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// SQLiteRepository is a ledger.Store backed by SQLite. With MemoryDSN every
// repository owns a separate database that disappears on Close.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	closed  atomic.Bool
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dsn string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// An in-memory database exists per connection, so pin exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

// NewSeededRepository opens a repository and fills it with seed, in order.
func NewSeededRepository(ctx context.Context, dsn string, seed []core.Transaction) (*SQLiteRepository, error) {
	repo, err := NewSQLiteRepository(dsn)
	if err != nil {
		return nil, err
	}
	if _, err := repo.Replace(ctx, seed); err != nil {
		repo.Close()
		return nil, fmt.Errorf("seed transactions: %w", err)
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	return r.db.Close()
}

// Prepend implements ledger.Prepender
func (r *SQLiteRepository) Prepend(ctx context.Context, tx core.Transaction) (uint64, error) {
	if r.closed.Load() {
		return 0, ledger.ErrClosed
	}
	var version int64
	err := r.inTx(ctx, func(q *Queries) error {
		if err := q.InsertTransaction(ctx, toParams(tx)); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		var err error
		version, err = q.BumpVersion(ctx)
		if err != nil {
			return fmt.Errorf("bump version: %w", err)
		}
		slog.DebugContext(ctx, "Transaction saved to SQLite",
			"id", tx.ID,
			"type", tx.Type,
			"category", tx.Category,
			"version", version)
		return nil
	})
	return uint64(version), err
}

// Replace implements ledger.Replacer
func (r *SQLiteRepository) Replace(ctx context.Context, txs []core.Transaction) (uint64, error) {
	if r.closed.Load() {
		return 0, ledger.ErrClosed
	}
	var version int64
	err := r.inTx(ctx, func(q *Queries) error {
		if err := q.DeleteTransactions(ctx); err != nil {
			return fmt.Errorf("delete transactions: %w", err)
		}
		// Rows are listed newest first, so insert the tail first.
		for i := len(txs) - 1; i >= 0; i-- {
			if err := q.InsertTransaction(ctx, toParams(txs[i])); err != nil {
				return fmt.Errorf("insert transaction %s: %w", txs[i].ID, err)
			}
		}
		var err error
		version, err = q.BumpVersion(ctx)
		if err != nil {
			return fmt.Errorf("bump version: %w", err)
		}
		return nil
	})
	return uint64(version), err
}

// Snapshot implements ledger.Reader
func (r *SQLiteRepository) Snapshot(ctx context.Context) (ledger.Snapshot, error) {
	if r.closed.Load() {
		return ledger.Snapshot{}, ledger.ErrClosed
	}
	var snap ledger.Snapshot
	err := r.inTx(ctx, func(q *Queries) error {
		version, err := q.GetVersion(ctx)
		if err != nil {
			return fmt.Errorf("get version: %w", err)
		}
		rows, err := q.ListTransactions(ctx)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		snap.Version = uint64(version)
		snap.Transactions = make([]core.Transaction, 0, len(rows))
		for _, row := range rows {
			tx, err := fromRow(row)
			if err != nil {
				return err
			}
			snap.Transactions = append(snap.Transactions, tx)
		}
		return nil
	})
	return snap, err
}

// Count returns the number of stored transactions.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	if r.closed.Load() {
		return 0, ledger.ErrClosed
	}
	n, err := r.queries.CountTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(r.queries.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func toParams(tx core.Transaction) InsertTransactionParams {
	return InsertTransactionParams{
		ID:          tx.ID,
		Amount:      tx.Amount.String(),
		Description: tx.Description,
		Category:    tx.Category,
		TxDate:      tx.Date.String(),
		TxType:      string(tx.Type),
	}
}

func fromRow(row Transaction) (core.Transaction, error) {
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount of %s: %w", row.ID, err)
	}
	var date core.Date
	if row.TxDate != "" {
		date, err = core.ParseDate(row.TxDate)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("parse date of %s: %w", row.ID, err)
		}
	}
	return core.Transaction{
		ID:          row.ID,
		Amount:      amount,
		Description: row.Description,
		Category:    row.Category,
		Date:        date,
		Type:        core.TransactionType(row.TxType),
	}, nil
}
