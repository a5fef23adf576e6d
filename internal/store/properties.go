package store

import (
	"context"
	"encoding/json"
)

// AddFavorite bookmarks a property snapshot. Inserting the same
// (user, property id) pair again is a no-op.
func (s *Store) AddFavorite(ctx context.Context, userID int, propertyID string, propertyData json.RawMessage) error {
	_, err := s.DB.ExecContext(ctx, `
        INSERT INTO favorite_properties (user_id, property_id, property_data)
        VALUES ($1, $2, $3::jsonb)
        ON CONFLICT (user_id, property_id) DO NOTHING`,
		userID, propertyID, string(propertyData),
	)
	return err
}

func (s *Store) ListFavorites(ctx context.Context, userID int) ([]json.RawMessage, error) {
	return s.listPropertyData(ctx, `
        SELECT property_data FROM favorite_properties
        WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (s *Store) DeleteFavorite(ctx context.Context, userID int, propertyID string) error {
	res, err := s.DB.ExecContext(ctx, `
        DELETE FROM favorite_properties WHERE user_id = $1 AND property_id = $2`,
		userID, propertyID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveProperty records a "saved during search" snapshot. Unlike favorites
// there is no uniqueness constraint; the same listing can be saved again.
func (s *Store) SaveProperty(ctx context.Context, userID int, propertyID string, propertyData json.RawMessage) (int, error) {
	var id int
	err := s.DB.QueryRowContext(ctx, `
        INSERT INTO saved_properties (user_id, property_id, property_data)
        VALUES ($1, $2, $3::jsonb)
        RETURNING id`,
		userID, propertyID, string(propertyData),
	).Scan(&id)
	return id, err
}

func (s *Store) ListSavedProperties(ctx context.Context, userID int) ([]json.RawMessage, error) {
	return s.listPropertyData(ctx, `
        SELECT property_data FROM saved_properties
        WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (s *Store) listPropertyData(ctx context.Context, query string, userID int) ([]json.RawMessage, error) {
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []json.RawMessage{}
	for rows.Next() {
		var data json.RawMessage
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, rows.Err()
}
