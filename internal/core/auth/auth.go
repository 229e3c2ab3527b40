// Package auth authenticates validation API callers with HMAC API keys.
//
// A key is bound to one provider (UKPRN). The server keeps only the HMAC of
// each key; the secrets live in the environment and are looked up by the
// secret ID embedded in the key.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// MetadataKey is the gRPC metadata entry carrying the API key.
const MetadataKey = "x-api-key"

// lastUsedThrottle bounds how often last_used_at is written per key.
const lastUsedThrottle = time.Minute

type contextKey string

const ukprnKey = contextKey("ukprn")

// Queries is the named-query surface auth needs. Implemented by *db.Queries.
type Queries interface {
	GetContext(ctx context.Context, name string, dest interface{}, args ...interface{}) error
	ExecContext(ctx context.Context, name string, args ...interface{}) (sql.Result, error)
}

// Authenticator validates API keys against the api_keys table.
type Authenticator struct {
	secrets map[string][]byte
	queries Queries
	now     func() time.Time
}

// NewAuthenticator creates an authenticator over secret ID -> secret bytes.
func NewAuthenticator(secrets map[string][]byte, queries Queries) *Authenticator {
	return &Authenticator{
		secrets: secrets,
		queries: queries,
		now:     time.Now,
	}
}

type apiKeyRow struct {
	APIKeyID   string       `db:"api_key_id"`
	UKPRN      int          `db:"ukprn"`
	KeyHash    []byte       `db:"key_hash"`
	RevokedAt  sql.NullTime `db:"revoked_at"`
	LastUsedAt sql.NullTime `db:"last_used_at"`
}

// Authenticate returns the UKPRN the key is bound to.
func (a *Authenticator) Authenticate(ctx context.Context, apiKey string) (int, error) {
	secretID, _, err := ParseAPIKey(apiKey)
	if err != nil {
		return 0, err
	}

	secret, ok := a.secrets[secretID]
	if !ok {
		return 0, ErrUnknownKey
	}

	hash := ComputeHMAC(secret, apiKey)
	var row apiKeyRow
	err = a.queries.GetContext(ctx, "get-api-key-by-hash", &row, hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInvalidKey
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrKeyStore, err)
	}
	// The stored digest must match exactly, whatever the store's comparison.
	if !VerifyHMAC(row.KeyHash, hash) {
		return 0, ErrInvalidKey
	}

	if row.RevokedAt.Valid {
		return 0, ErrKeyRevoked
	}

	if now := a.now().UTC(); shouldUpdateLastUsed(row.LastUsedAt, now) {
		// Best effort; a failed write must not reject a valid key.
		_, _ = a.queries.ExecContext(ctx, "update-last-used", now, row.APIKeyID)
	}

	return row.UKPRN, nil
}

func shouldUpdateLastUsed(lastUsed sql.NullTime, now time.Time) bool {
	if !lastUsed.Valid {
		return true
	}
	return now.Sub(lastUsed.Time) > lastUsedThrottle
}

// UnaryInterceptor authenticates every unary call and stores the caller's
// UKPRN in the context. Health checks pass through unauthenticated.
func (a *Authenticator) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if isHealthCheck(info.FullMethod) {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		apiKeys := md.Get(MetadataKey)
		if len(apiKeys) == 0 {
			return nil, status.Error(codes.Unauthenticated, ErrMissingKey.Error())
		}

		ukprn, err := a.Authenticate(ctx, apiKeys[0])
		if err != nil {
			return nil, status.Error(errorCode(err), err.Error())
		}

		return handler(WithUKPRN(ctx, ukprn), req)
	}
}

func errorCode(err error) codes.Code {
	switch {
	case errors.Is(err, ErrKeyRevoked):
		return codes.PermissionDenied
	case errors.Is(err, ErrKeyStore):
		return codes.Unavailable
	default:
		return codes.Unauthenticated
	}
}

func isHealthCheck(method string) bool {
	return method == "/grpc.health.v1.Health/Check" || method == "/grpc.health.v1.Health/Watch"
}

// WithUKPRN returns ctx carrying an authenticated provider UKPRN.
func WithUKPRN(ctx context.Context, ukprn int) context.Context {
	return context.WithValue(ctx, ukprnKey, ukprn)
}

// UKPRNFromContext returns the authenticated UKPRN, if any.
func UKPRNFromContext(ctx context.Context) (int, bool) {
	ukprn, ok := ctx.Value(ukprnKey).(int)
	return ukprn, ok
}
