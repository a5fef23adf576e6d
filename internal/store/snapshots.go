package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// InsertSearchSnapshot archives one raw provider payload for a search,
// keyed by location. Write-behind only; nothing reads it on the hot path.
func (s *Store) InsertSearchSnapshot(ctx context.Context, provider, endpoint, city, stateCode string, payload []byte) error {
	sum := sha256.Sum256(payload)
	_, err := s.DB.ExecContext(ctx, `
        INSERT INTO search_snapshots (provider, endpoint, city, state_code, payload, payload_sha256)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		provider, endpoint, city, stateCode, string(payload), hex.EncodeToString(sum[:]),
	)
	return err
}
