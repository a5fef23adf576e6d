package store

import (
	"context"
	"encoding/json"
	"time"
)

// Analysis is a saved AI comparison: the property snapshots it covered plus
// the generated text. Immutable once saved.
type Analysis struct {
	ID           int             `json:"id"`
	PropertyData json.RawMessage `json:"property_data"`
	AnalysisText string          `json:"analysis_text"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (s *Store) ListAnalyses(ctx context.Context, userID int) ([]Analysis, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT id, property_data, analysis_text, created_at
        FROM property_analyses
        WHERE user_id = $1
        ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		var a Analysis
		if err := rows.Scan(&a.ID, &a.PropertyData, &a.AnalysisText, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) SaveAnalysis(ctx context.Context, userID int, propertyData json.RawMessage, analysisText string) (int, error) {
	var id int
	err := s.DB.QueryRowContext(ctx, `
        INSERT INTO property_analyses (user_id, property_data, analysis_text)
        VALUES ($1, $2::jsonb, $3)
        RETURNING id`,
		userID, string(propertyData), analysisText,
	).Scan(&id)
	return id, err
}

func (s *Store) DeleteAnalysis(ctx context.Context, userID, analysisID int) error {
	res, err := s.DB.ExecContext(ctx, `
        DELETE FROM property_analyses WHERE id = $1 AND user_id = $2`,
		analysisID, userID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
