package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PortfolioEntry is one user-owned holding.
type PortfolioEntry struct {
	ID            int       `json:"id"`
	Address       string    `json:"address"`
	PurchasePrice float64   `json:"purchase_price"`
	CurrentValue  float64   `json:"current_value"`
	PurchaseDate  time.Time `json:"purchase_date"`
	Notes         string    `json:"notes,omitempty"`
}

// PortfolioInput is a new holding before it has an id.
type PortfolioInput struct {
	Address       string
	PurchasePrice float64
	CurrentValue  float64
	PurchaseDate  time.Time
	Notes         string
}

func (s *Store) ListPortfolio(ctx context.Context, userID int) ([]PortfolioEntry, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT id, address, purchase_price, current_value, purchase_date, notes
        FROM portfolios
        WHERE user_id = $1
        ORDER BY purchase_date DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PortfolioEntry
	for rows.Next() {
		var e PortfolioEntry
		var notes sql.NullString
		if err := rows.Scan(&e.ID, &e.Address, &e.PurchasePrice, &e.CurrentValue, &e.PurchaseDate, &notes); err != nil {
			return nil, err
		}
		e.Notes = notes.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// InsertPortfolioEntries bulk-inserts holdings in a single multi-VALUES
// statement and returns the stored rows.
func (s *Store) InsertPortfolioEntries(ctx context.Context, userID int, entries []PortfolioInput) ([]PortfolioEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	var (
		placeholders []string
		args         []any
	)
	i := 1
	for _, e := range entries {
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)", i, i+1, i+2, i+3, i+4, i+5))
		args = append(args, userID, e.Address, e.PurchasePrice, e.CurrentValue, e.PurchaseDate, nullString(e.Notes))
		i += 6
	}

	query := `
        INSERT INTO portfolios (user_id, address, purchase_price, current_value, purchase_date, notes)
        VALUES ` + strings.Join(placeholders, ",") + `
        RETURNING id, address, purchase_price, current_value, purchase_date, notes`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PortfolioEntry
	for rows.Next() {
		var e PortfolioEntry
		var notes sql.NullString
		if err := rows.Scan(&e.ID, &e.Address, &e.PurchasePrice, &e.CurrentValue, &e.PurchaseDate, &notes); err != nil {
			return nil, err
		}
		e.Notes = notes.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePortfolioEntry(ctx context.Context, userID, entryID int, in PortfolioInput) (PortfolioEntry, error) {
	var e PortfolioEntry
	var notes sql.NullString
	err := s.DB.QueryRowContext(ctx, `
        UPDATE portfolios
        SET address = $1, purchase_price = $2, current_value = $3, purchase_date = $4, notes = $5
        WHERE id = $6 AND user_id = $7
        RETURNING id, address, purchase_price, current_value, purchase_date, notes`,
		in.Address, in.PurchasePrice, in.CurrentValue, in.PurchaseDate, nullString(in.Notes), entryID, userID,
	).Scan(&e.ID, &e.Address, &e.PurchasePrice, &e.CurrentValue, &e.PurchaseDate, &notes)
	if errors.Is(err, sql.ErrNoRows) {
		return PortfolioEntry{}, ErrNotFound
	}
	e.Notes = notes.String
	return e, err
}

func (s *Store) DeletePortfolioEntry(ctx context.Context, userID, entryID int) error {
	res, err := s.DB.ExecContext(ctx, `
        DELETE FROM portfolios WHERE id = $1 AND user_id = $2`,
		entryID, userID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
