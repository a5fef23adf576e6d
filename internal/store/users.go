package store

import (
	"context"
	"database/sql"
	"errors"
)

// ErrQuotaExhausted is returned by ConsumeAnalysisCredit when a free user
// has no credits left.
var ErrQuotaExhausted = errors.New("analysis quota exhausted")

// User is the persisted account record. PasswordHash never leaves this
// package's callers as part of an API response.
type User struct {
	ID             int    `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	PasswordHash   string `json:"-"`
	AnalysisCount  int    `json:"analysis_count"`
	IsPremium      bool   `json:"is_premium"`
	SubscriptionID string `json:"-"`
}

// Usage is the quota-relevant slice of a user row.
type Usage struct {
	AnalysisCount int  `json:"analysis_count"`
	IsPremium     bool `json:"is_premium"`
}

func (s *Store) CreateUser(ctx context.Context, email, passwordHash, name string) (User, error) {
	var u User
	err := s.DB.QueryRowContext(ctx, `
        INSERT INTO users (email, password_hash, name)
        VALUES ($1, $2, $3)
        RETURNING id, email, name`,
		email, passwordHash, name,
	).Scan(&u.ID, &u.Email, &u.Name)
	return u, err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	var subID sql.NullString
	err := s.DB.QueryRowContext(ctx, `
        SELECT id, email, name, password_hash, analysis_count, is_premium, subscription_id
        FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.AnalysisCount, &u.IsPremium, &subID)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	u.SubscriptionID = subID.String
	return u, err
}

func (s *Store) UserByID(ctx context.Context, id int) (User, error) {
	var u User
	var subID sql.NullString
	err := s.DB.QueryRowContext(ctx, `
        SELECT id, email, name, password_hash, analysis_count, is_premium, subscription_id
        FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.AnalysisCount, &u.IsPremium, &subID)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	u.SubscriptionID = subID.String
	return u, err
}

// ConsumeAnalysisCredit is the quota gate's single atomic statement: it
// increments the counter only while the user is premium or still under the
// free limit. Zero rows means either an exhausted quota or a missing user;
// the follow-up read tells them apart.
func (s *Store) ConsumeAnalysisCredit(ctx context.Context, userID, limit int) (Usage, error) {
	var u Usage
	err := s.DB.QueryRowContext(ctx, `
        UPDATE users
        SET analysis_count = analysis_count + 1
        WHERE id = $1 AND (is_premium OR analysis_count < $2)
        RETURNING analysis_count, is_premium`,
		userID, limit,
	).Scan(&u.AnalysisCount, &u.IsPremium)
	if errors.Is(err, sql.ErrNoRows) {
		err = s.DB.QueryRowContext(ctx,
			`SELECT analysis_count, is_premium FROM users WHERE id = $1`, userID,
		).Scan(&u.AnalysisCount, &u.IsPremium)
		if errors.Is(err, sql.ErrNoRows) {
			return Usage{}, ErrNotFound
		}
		if err != nil {
			return Usage{}, err
		}
		return u, ErrQuotaExhausted
	}
	return u, err
}

// IncrementAnalysisCount bumps the counter unconditionally and returns the
// new usage. Kept as an independently callable operation for the client's
// explicit increment endpoint.
func (s *Store) IncrementAnalysisCount(ctx context.Context, userID int) (Usage, error) {
	var u Usage
	err := s.DB.QueryRowContext(ctx, `
        UPDATE users
        SET analysis_count = analysis_count + 1
        WHERE id = $1
        RETURNING analysis_count, is_premium`,
		userID,
	).Scan(&u.AnalysisCount, &u.IsPremium)
	if errors.Is(err, sql.ErrNoRows) {
		return Usage{}, ErrNotFound
	}
	return u, err
}

// UpgradeToPremiumByEmail flips the premium flag and records the
// subscription id. Flat assignment, safe to replay.
func (s *Store) UpgradeToPremiumByEmail(ctx context.Context, email, subscriptionID string) error {
	_, err := s.DB.ExecContext(ctx, `
        UPDATE users
        SET is_premium = TRUE, subscription_id = $1
        WHERE email = $2`,
		nullString(subscriptionID), email,
	)
	return err
}
