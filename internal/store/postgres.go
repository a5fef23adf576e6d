package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotFound is returned when an owner-scoped update or delete touched
// zero rows.
var ErrNotFound = errors.New("not found")

type Store struct{ DB *sql.DB }

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id              SERIAL PRIMARY KEY,
            email           TEXT NOT NULL UNIQUE,
            password_hash   TEXT NOT NULL,
            name            TEXT NOT NULL,
            analysis_count  INTEGER NOT NULL DEFAULT 0,
            is_premium      BOOLEAN NOT NULL DEFAULT FALSE,
            subscription_id TEXT,
            created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE TABLE IF NOT EXISTS property_analyses (
            id            SERIAL PRIMARY KEY,
            user_id       INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            property_data JSONB NOT NULL,
            analysis_text TEXT NOT NULL,
            created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_user ON property_analyses(user_id, created_at DESC);`,
		`CREATE TABLE IF NOT EXISTS favorite_properties (
            id            SERIAL PRIMARY KEY,
            user_id       INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            property_id   TEXT NOT NULL,
            property_data JSONB NOT NULL,
            created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_favorites_user_property ON favorite_properties(user_id, property_id);`,
		`CREATE TABLE IF NOT EXISTS saved_properties (
            id            SERIAL PRIMARY KEY,
            user_id       INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            property_id   TEXT NOT NULL,
            property_data JSONB NOT NULL,
            created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_saved_user ON saved_properties(user_id, created_at DESC);`,
		`CREATE TABLE IF NOT EXISTS portfolios (
            id             SERIAL PRIMARY KEY,
            user_id        INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            address        TEXT NOT NULL,
            purchase_price NUMERIC NOT NULL,
            current_value  NUMERIC NOT NULL,
            purchase_date  DATE NOT NULL,
            notes          TEXT,
            created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_portfolios_user ON portfolios(user_id, purchase_date DESC);`,
		`CREATE TABLE IF NOT EXISTS search_snapshots (
            id             SERIAL PRIMARY KEY,
            provider       TEXT NOT NULL,
            endpoint       TEXT NOT NULL,
            city           TEXT NOT NULL,
            state_code     TEXT NOT NULL,
            payload        JSONB NOT NULL,
            payload_sha256 TEXT NOT NULL,
            fetched_at     TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_location ON search_snapshots(state_code, city, fetched_at DESC);`,
	}
	for _, q := range stmts {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
