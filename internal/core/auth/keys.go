package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IssuedKey is a newly created API key. Key is shown once and never stored.
type IssuedKey struct {
	APIKeyID string
	UKPRN    int
	Name     string
	Key      string
}

// IssueAPIKey generates a key for ukprn under the given secret and stores
// its HMAC.
func IssueAPIKey(ctx context.Context, q Queries, secretID string, secret []byte, ukprn int, name string) (*IssuedKey, error) {
	if ukprn <= 0 {
		return nil, fmt.Errorf("ukprn must be positive, got %d", ukprn)
	}

	key, err := GenerateAPIKey(secretID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate api key id: %w", err)
	}

	issued := &IssuedKey{APIKeyID: id.String(), UKPRN: ukprn, Name: name, Key: key}
	if _, err := q.ExecContext(ctx, "insert-api-key", issued.APIKeyID, ukprn, name, ComputeHMAC(secret, key), time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("store api key: %w", err)
	}
	return issued, nil
}

// RevokeAPIKey marks a key revoked. Revoking twice is a no-op.
func RevokeAPIKey(ctx context.Context, q Queries, apiKeyID string) error {
	if _, err := q.ExecContext(ctx, "revoke-api-key", time.Now().UTC(), apiKeyID); err != nil {
		return fmt.Errorf("revoke api key %s: %w", apiKeyID, err)
	}
	return nil
}
