package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bankimport/internal/profile"
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

const selectProfileColumns = `
	id, name, account_id, format, header_row, delimiter, text_qualifier, encoding, sheet,
	date_format, number_format, date_column, payee_column, memo_column,
	amount_mode, amount_column, credit_column, credit_flag_column, credit_flag_value, amount_cleanup_pattern
`

// scanProfile reads an import_profiles row. Optional text columns are NULL-able.
func scanProfile(s scanner) (*profile.Profile, error) {
	var p profile.Profile

	var format, mode string

	var qualifier, encoding, sheet, payee, memo, credit, flagCol, flagVal, cleanup sql.NullString

	if err := s.Scan(
		&p.ID, &p.Name, &p.AccountID, &format, &p.HeaderRow, &p.Delimiter, &qualifier, &encoding, &sheet,
		&p.DateFormat, &p.NumberFormat, &p.DateColumn, &payee, &memo,
		&mode, &p.AmountColumn, &credit, &flagCol, &flagVal, &cleanup,
	); err != nil {
		return nil, err
	}

	p.Format = profile.Format(format)
	p.AmountMode = profile.AmountMode(mode)
	p.TextQualifier = qualifier.String
	p.Encoding = encoding.String
	p.Sheet = sheet.String
	p.PayeeColumn = payee.String
	p.MemoColumn = memo.String
	p.CreditColumn = credit.String
	p.CreditFlagColumn = flagCol.String
	p.CreditFlagValue = flagVal.String
	p.AmountCleanupPattern = cleanup.String

	return &p, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	query := `SELECT ` + selectProfileColumns + `
		FROM import_profiles
		WHERE id = $1 AND deleted_at IS NULL`

	p, err := scanProfile(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profile.ErrNotFound
		}

		return nil, fmt.Errorf("getting profile: %w", err)
	}

	return p, nil
}

func (s *Store) List(ctx context.Context) ([]*profile.Profile, error) {
	query := `SELECT ` + selectProfileColumns + `
		FROM import_profiles
		WHERE deleted_at IS NULL
		ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*profile.Profile

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}

		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profiles: %w", err)
	}

	return profiles, nil
}
