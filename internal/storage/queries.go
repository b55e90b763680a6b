package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Transaction is a row of the transactions table.
type Transaction struct {
	Seq         int64
	ID          string
	Amount      string
	Description string
	Category    string
	TxDate      string
	TxType      string
}

type InsertTransactionParams struct {
	ID          string
	Amount      string
	Description string
	Category    string
	TxDate      string
	TxType      string
}

const insertTransaction = `
INSERT INTO transactions (id, amount, description, category, tx_date, tx_type)
VALUES (?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertTransaction(ctx context.Context, arg InsertTransactionParams) error {
	_, err := q.db.ExecContext(ctx, insertTransaction,
		arg.ID,
		arg.Amount,
		arg.Description,
		arg.Category,
		arg.TxDate,
		arg.TxType,
	)
	return err
}

const listTransactions = `
SELECT seq, id, amount, description, category, tx_date, tx_type
FROM transactions
ORDER BY seq DESC
`

func (q *Queries) ListTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.Seq,
			&i.ID,
			&i.Amount,
			&i.Description,
			&i.Category,
			&i.TxDate,
			&i.TxType,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteTransactions = `DELETE FROM transactions`

func (q *Queries) DeleteTransactions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteTransactions)
	return err
}

const countTransactions = `SELECT COUNT(*) FROM transactions`

func (q *Queries) CountTransactions(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTransactions)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const bumpVersion = `
UPDATE ledger_meta SET version = version + 1 WHERE id = 1
RETURNING version
`

func (q *Queries) BumpVersion(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, bumpVersion)
	var version int64
	err := row.Scan(&version)
	return version, err
}

const getVersion = `SELECT version FROM ledger_meta WHERE id = 1`

func (q *Queries) GetVersion(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, getVersion)
	var version int64
	err := row.Scan(&version)
	return version, err
}
