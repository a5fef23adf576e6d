package store

import (
	"context"
	"database/sql"
	"time"
)

// DashboardStats are the headline counters on the dashboard page.
type DashboardStats struct {
	SavedDeals  int `json:"savedDeals"`
	AnalysesRun int `json:"analysesRun"`
}

// PriceTrendPoint is a month's average favorited-property price.
type PriceTrendPoint struct {
	Month time.Time `json:"month"`
	Price float64   `json:"price"`
}

// ActivityItem is one row of the recent-activity feed.
type ActivityItem struct {
	Type      string    `json:"type"`
	Property  string    `json:"property"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Store) DashboardStats(ctx context.Context, userID int) (DashboardStats, error) {
	var st DashboardStats
	err := s.DB.QueryRowContext(ctx, `
        SELECT
            (SELECT COUNT(*) FROM favorite_properties WHERE user_id = $1),
            (SELECT COUNT(*) FROM property_analyses WHERE user_id = $1)`,
		userID,
	).Scan(&st.SavedDeals, &st.AnalysesRun)
	return st, err
}

// PriceTrends averages favorited property prices per month, newest first,
// up to six months.
func (s *Store) PriceTrends(ctx context.Context, userID int) ([]PriceTrendPoint, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT DATE_TRUNC('month', created_at) AS month,
               AVG((property_data->>'price')::numeric) AS avg_price
        FROM favorite_properties
        WHERE user_id = $1 AND property_data->>'price' IS NOT NULL
        GROUP BY DATE_TRUNC('month', created_at)
        ORDER BY month DESC
        LIMIT 6`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PriceTrendPoint
	for rows.Next() {
		var p PriceTrendPoint
		if err := rows.Scan(&p.Month, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RecentActivity unions saved analyses and favorites into one feed, newest
// first, capped at ten.
func (s *Store) RecentActivity(ctx context.Context, userID int) ([]ActivityItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
        (SELECT 'analysis' AS type, property_data->0->>'address' AS property, created_at AS ts
         FROM property_analyses WHERE user_id = $1)
        UNION ALL
        (SELECT 'favorite' AS type, property_data->>'address' AS property, created_at AS ts
         FROM favorite_properties WHERE user_id = $1)
        ORDER BY ts DESC
        LIMIT 10`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActivityItem
	for rows.Next() {
		var it ActivityItem
		var property sql.NullString
		if err := rows.Scan(&it.Type, &property, &it.Timestamp); err != nil {
			return nil, err
		}
		it.Property = property.String
		out = append(out, it)
	}
	return out, rows.Err()
}
