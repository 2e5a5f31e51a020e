package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bankimport/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner.
// Expected column order: id, account_id, date, payee, memo, amount, created_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var payee, memo sql.NullString

	if err := s.Scan(
		&tx.ID, &tx.AccountID, &tx.Date, &payee, &memo, &tx.Amount, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Payee = payee.String
	tx.Memo = memo.String
	tx.Date = tx.Date.UTC()

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.account_id, t.date, t.payee, t.memo, t.amount, t.created_at
`

// importLockKey serialises concurrent imports into the same account.
func importLockKey(accountID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("import"))
	h.Write([]byte{0})
	h.Write(accountID[:])

	return int64(h.Sum64())
}

// CreateRange inserts txs in a single database transaction. Nothing is
// written unless every row is.
func (s *Store) CreateRange(ctx context.Context, txs []*transaction.Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning import tx: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(txs[0].AccountID)); err != nil {
		return 0, fmt.Errorf("acquiring import lock: %w", err)
	}

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO transactions (id, account_id, date, payee, memo, amount, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		if _, err := stmt.ExecContext(ctx,
			tx.ID,
			tx.AccountID,
			tx.Date,
			tx.Payee,
			tx.Memo,
			tx.Amount,
			tx.CreatedAt,
		); err != nil {
			return 0, fmt.Errorf("creating transaction %s: %w", tx.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}

	return len(txs), nil
}

func (s *Store) QueryByAccountAndDateRange(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.deleted_at IS NULL AND t.account_id = $1 AND t.date >= $2 AND t.date <= $3
		ORDER BY t.date ASC, t.created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}
