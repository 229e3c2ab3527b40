// Package config provides configuration management for ilrkeeper commands.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/solatis/ilrkeeper/internal/predicates"
	"github.com/solatis/ilrkeeper/internal/rules"
)

// Config is the full ilrkeeper configuration.
type Config struct {
	Validation    ValidationConfig
	ReferenceData ReferenceDataConfig
	ValidationAPI ValidationAPIConfig
}

// ValidationConfig tunes the rule engine.
type ValidationConfig struct {
	Workers                int
	CollectionYearStart    time.Time // zero selects the year containing today
	StartDateLookbackYears int
	StartDateOperator      string
	DisabledRules          []string
}

// ReferenceDataConfig locates the reference data some rules consult.
// An empty DatabaseURL disables the rules reading learning aims and
// contracts; ULN_03 still runs when RedisAddr is set.
type ReferenceDataConfig struct {
	DatabaseURL string
	RedisAddr   string
	ULNSetKey   string
}

// ValidationAPIConfig holds configuration for the gRPC validation API service.
type ValidationAPIConfig struct {
	Host           string
	Port           int
	MaxConnections int
	RequestTimeout time.Duration
	MaxLearners    int
	MetricsAddr    string
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		Validation: ValidationConfig{
			Workers:                4,
			StartDateLookbackYears: 10,
			StartDateOperator:      predicates.OpBefore.String(),
		},
		ReferenceData: ReferenceDataConfig{
			ULNSetKey: "ilr:uln",
		},
		ValidationAPI: ValidationAPIConfig{
			Host:           "0.0.0.0",
			Port:           50051,
			MaxConnections: 1000,
			RequestTimeout: 60 * time.Second,
			MaxLearners:    50000,
			MetricsAddr:    "",
		},
	}
}

// RulesConfig converts the validation section into rule configuration.
func (c ValidationConfig) RulesConfig() (rules.Config, error) {
	cfg := rules.DefaultConfig()
	if !c.CollectionYearStart.IsZero() {
		cfg.CollectionYearStart = predicates.Day(c.CollectionYearStart)
	}
	cfg.StartDateLookbackYears = c.StartDateLookbackYears
	if c.StartDateOperator != "" {
		op, err := predicates.ParseDateOperator(c.StartDateOperator)
		if err != nil {
			return rules.Config{}, fmt.Errorf("validation.start_date_operator: %w", err)
		}
		cfg.StartDateOperator = op
	}
	cfg.DisabledRules = append([]string(nil), c.DisabledRules...)
	return cfg, nil
}

// HMACSecrets extracts HMAC secrets from environment variables.
// Supports ILR_HMAC_SECRET (single) and ILR_HMAC_SECRET_N (rotation).
// Returns map of secret_id -> decoded secret bytes.
// Secret IDs are UUIDv7 (32 hex chars without hyphens) matching API key format.
func HMACSecrets() (map[string][]byte, error) {
	secrets := make(map[string][]byte)

	// Format: <secret_id>:<base64_secret>
	if val := os.Getenv("ILR_HMAC_SECRET"); val != "" {
		secretID, decoded, err := ParseHMACSecretWithID(val)
		if err != nil {
			return nil, fmt.Errorf("ILR_HMAC_SECRET: %w", err)
		}
		secrets[secretID] = decoded
	}

	// Numbered secrets keep old and new keys valid during rotation.
	for i := 1; ; i++ {
		key := fmt.Sprintf("ILR_HMAC_SECRET_%d", i)
		val := os.Getenv(key)
		if val == "" {
			break
		}
		secretID, decoded, err := ParseHMACSecretWithID(val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if _, exists := secrets[secretID]; exists {
			return nil, fmt.Errorf("duplicate secret_id '%s' found in environment variables (check ILR_HMAC_SECRET and ILR_HMAC_SECRET_* for conflicts)", secretID)
		}
		secrets[secretID] = decoded
	}

	return secrets, nil
}

// ParseHMACSecret decodes a base64-encoded HMAC secret.
func ParseHMACSecret(envValue string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(envValue))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 encoding: %w", err)
	}
	if len(decoded) < 32 {
		return nil, fmt.Errorf("secret must be at least 32 bytes, got %d", len(decoded))
	}
	return decoded, nil
}

// ParseHMACSecretWithID parses secret_id:base64_secret format.
// Secret ID must be 32 lowercase hex chars (UUIDv7 without hyphens).
func ParseHMACSecretWithID(envValue string) (secretID string, secret []byte, err error) {
	parts := strings.SplitN(strings.TrimSpace(envValue), ":", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("format must be <secret_id>:<base64_secret>")
	}

	secretID = parts[0]
	if len(secretID) != 32 {
		return "", nil, fmt.Errorf("secret_id must be 32 hex chars (UUIDv7 without hyphens)")
	}
	for _, c := range secretID {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return "", nil, fmt.Errorf("secret_id must be hex chars only")
		}
	}

	secret, err = ParseHMACSecret(parts[1])
	if err != nil {
		return "", nil, err
	}
	return secretID, secret, nil
}
