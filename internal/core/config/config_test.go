package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/solatis/ilrkeeper/internal/rules"
)

func TestHMACSecrets(t *testing.T) {
	// Clean environment
	os.Unsetenv("ILR_HMAC_SECRET")
	os.Unsetenv("ILR_HMAC_SECRET_1")
	os.Unsetenv("ILR_HMAC_SECRET_2")

	t.Run("single secret", func(t *testing.T) {
		os.Setenv("ILR_HMAC_SECRET", "0123456789abcdef0123456789abcdef:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		defer os.Unsetenv("ILR_HMAC_SECRET")

		secrets, err := HMACSecrets()
		if err != nil {
			t.Fatalf("HMACSecrets failed: %v", err)
		}
		if len(secrets) != 1 {
			t.Errorf("expected 1 secret, got %d", len(secrets))
		}
		if _, ok := secrets["0123456789abcdef0123456789abcdef"]; !ok {
			t.Errorf("secret_id not found in map")
		}
	})

	t.Run("multiple numbered secrets", func(t *testing.T) {
		os.Setenv("ILR_HMAC_SECRET_1", "0123456789abcdef0123456789abcdef:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		os.Setenv("ILR_HMAC_SECRET_2", "fedcba9876543210fedcba9876543210:YW5vdGhlcnNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		defer os.Unsetenv("ILR_HMAC_SECRET_1")
		defer os.Unsetenv("ILR_HMAC_SECRET_2")

		secrets, err := HMACSecrets()
		if err != nil {
			t.Fatalf("HMACSecrets failed: %v", err)
		}
		if len(secrets) != 2 {
			t.Errorf("expected 2 secrets, got %d", len(secrets))
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		os.Setenv("ILR_HMAC_SECRET", "invalid_format")
		defer os.Unsetenv("ILR_HMAC_SECRET")

		_, err := HMACSecrets()
		if err == nil {
			t.Error("expected error for invalid format")
		}
	})

	t.Run("invalid secret_id length", func(t *testing.T) {
		os.Setenv("ILR_HMAC_SECRET", "short:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		defer os.Unsetenv("ILR_HMAC_SECRET")

		_, err := HMACSecrets()
		if err == nil {
			t.Error("expected error for short secret_id")
		}
	})

	t.Run("non-hex secret_id", func(t *testing.T) {
		os.Setenv("ILR_HMAC_SECRET", "0123456789abcdefGHIJKLMNOPQRSTUV:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		defer os.Unsetenv("ILR_HMAC_SECRET")

		_, err := HMACSecrets()
		if err == nil {
			t.Error("expected error for non-hex secret_id")
		}
	})

	t.Run("duplicate secret_id in numbered secrets", func(t *testing.T) {
		os.Setenv("ILR_HMAC_SECRET_1", "0123456789abcdef0123456789abcdef:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		os.Setenv("ILR_HMAC_SECRET_2", "0123456789abcdef0123456789abcdef:YW5vdGhlcnNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		defer os.Unsetenv("ILR_HMAC_SECRET_1")
		defer os.Unsetenv("ILR_HMAC_SECRET_2")

		_, err := HMACSecrets()
		if err == nil {
			t.Error("expected error for duplicate secret_id")
		}
	})

	t.Run("duplicate secret_id between single and numbered", func(t *testing.T) {
		os.Setenv("ILR_HMAC_SECRET", "0123456789abcdef0123456789abcdef:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		os.Setenv("ILR_HMAC_SECRET_1", "0123456789abcdef0123456789abcdef:YW5vdGhlcnNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		defer os.Unsetenv("ILR_HMAC_SECRET")
		defer os.Unsetenv("ILR_HMAC_SECRET_1")

		_, err := HMACSecrets()
		if err == nil {
			t.Error("expected error for duplicate secret_id between ILR_HMAC_SECRET and ILR_HMAC_SECRET_1")
		}
	})
}

func TestLoadConfig(t *testing.T) {
	// Clean environment
	os.Unsetenv("ILR_VALIDATION_API_HOST")
	os.Unsetenv("ILR_VALIDATION_API_PORT")
	os.Unsetenv("ILR_VALIDATION_WORKERS")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.ValidationAPI.Host != "0.0.0.0" {
			t.Errorf("expected host 0.0.0.0, got %s", cfg.ValidationAPI.Host)
		}
		if cfg.ValidationAPI.Port != 50051 {
			t.Errorf("expected port 50051, got %d", cfg.ValidationAPI.Port)
		}
		if cfg.ValidationAPI.MaxConnections != 1000 {
			t.Errorf("expected max_connections 1000, got %d", cfg.ValidationAPI.MaxConnections)
		}
		if cfg.ValidationAPI.RequestTimeout != 60*time.Second {
			t.Errorf("expected timeout 60s, got %v", cfg.ValidationAPI.RequestTimeout)
		}
		if cfg.ValidationAPI.MaxLearners != 50000 {
			t.Errorf("expected max_learners 50000, got %d", cfg.ValidationAPI.MaxLearners)
		}
		if cfg.Validation.Workers != 4 {
			t.Errorf("expected workers 4, got %d", cfg.Validation.Workers)
		}
		if !cfg.Validation.CollectionYearStart.IsZero() {
			t.Errorf("expected no collection year start, got %v", cfg.Validation.CollectionYearStart)
		}
		if cfg.ReferenceData.ULNSetKey != "ilr:uln" {
			t.Errorf("expected uln_set_key ilr:uln, got %s", cfg.ReferenceData.ULNSetKey)
		}
	})

	t.Run("environment override", func(t *testing.T) {
		os.Setenv("ILR_VALIDATION_API_PORT", "9999")
		os.Setenv("ILR_VALIDATION_API_HOST", "127.0.0.1")
		os.Setenv("ILR_VALIDATION_WORKERS", "16")
		defer os.Unsetenv("ILR_VALIDATION_API_PORT")
		defer os.Unsetenv("ILR_VALIDATION_API_HOST")
		defer os.Unsetenv("ILR_VALIDATION_WORKERS")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.ValidationAPI.Port != 9999 {
			t.Errorf("expected port 9999, got %d", cfg.ValidationAPI.Port)
		}
		if cfg.ValidationAPI.Host != "127.0.0.1" {
			t.Errorf("expected host 127.0.0.1, got %s", cfg.ValidationAPI.Host)
		}
		if cfg.Validation.Workers != 16 {
			t.Errorf("expected workers 16, got %d", cfg.Validation.Workers)
		}
	})

	t.Run("collection year start", func(t *testing.T) {
		os.Setenv("ILR_VALIDATION_COLLECTION_YEAR_START", "2025-08-01")
		defer os.Unsetenv("ILR_VALIDATION_COLLECTION_YEAR_START")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		want := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
		if !cfg.Validation.CollectionYearStart.Equal(want) {
			t.Errorf("expected %v, got %v", want, cfg.Validation.CollectionYearStart)
		}

		rc, err := cfg.Validation.RulesConfig()
		if err != nil {
			t.Fatalf("RulesConfig failed: %v", err)
		}
		if !rc.CollectionYearStart.Equal(want) {
			t.Errorf("rules config start %v, want %v", rc.CollectionYearStart, want)
		}
		if rc.StartDateLookbackYears != 10 {
			t.Errorf("expected look-back 10, got %d", rc.StartDateLookbackYears)
		}
	})

	t.Run("malformed collection year start", func(t *testing.T) {
		os.Setenv("ILR_VALIDATION_COLLECTION_YEAR_START", "01/08/2025")
		defer os.Unsetenv("ILR_VALIDATION_COLLECTION_YEAR_START")

		_, err := LoadConfig("")
		if err == nil {
			t.Error("expected error for non ISO date")
		}
	})

	t.Run("unknown date operator", func(t *testing.T) {
		os.Setenv("ILR_VALIDATION_START_DATE_OPERATOR", "sometime")
		defer os.Unsetenv("ILR_VALIDATION_START_DATE_OPERATOR")

		_, err := LoadConfig("")
		if err == nil {
			t.Error("expected error for unknown operator")
		}
	})

	t.Run("disabled rules from comma separated env", func(t *testing.T) {
		os.Setenv("ILR_VALIDATION_DISABLED_RULES", "R06,R59, ULN_03")
		defer os.Unsetenv("ILR_VALIDATION_DISABLED_RULES")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		want := []string{"R06", "R59", "ULN_03"}
		got := cfg.Validation.DisabledRules
		if len(got) != len(want) {
			t.Fatalf("disabled rules = %q, want %q", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("disabled rule %d = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("unknown disabled rule", func(t *testing.T) {
		os.Setenv("ILR_VALIDATION_DISABLED_RULES", "R06,R600")
		defer os.Unsetenv("ILR_VALIDATION_DISABLED_RULES")

		_, err := LoadConfig("")
		if !errors.Is(err, rules.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for misspelled rule, got %v", err)
		}
	})

	t.Run("invalid port range", func(t *testing.T) {
		os.Setenv("ILR_VALIDATION_API_PORT", "70000")
		defer os.Unsetenv("ILR_VALIDATION_API_PORT")

		_, err := LoadConfig("")
		if err == nil {
			t.Error("expected error for port > 65535")
		}
	})

	t.Run("invalid negative values", func(t *testing.T) {
		os.Setenv("ILR_VALIDATION_API_MAX_CONNECTIONS", "-1")
		defer os.Unsetenv("ILR_VALIDATION_API_MAX_CONNECTIONS")

		_, err := LoadConfig("")
		if err == nil {
			t.Error("expected error for negative max_connections")
		}
	})

	t.Run("max learners above hard limit", func(t *testing.T) {
		os.Setenv("ILR_VALIDATION_API_MAX_LEARNERS", "100001")
		defer os.Unsetenv("ILR_VALIDATION_API_MAX_LEARNERS")

		_, err := LoadConfig("")
		if err == nil {
			t.Error("expected error for max_learners above MaxLearnersPerMessage")
		}
	})
}

func TestParseHMACSecret(t *testing.T) {
	t.Run("valid base64", func(t *testing.T) {
		secret, err := ParseHMACSecret("dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		if err != nil {
			t.Fatalf("ParseHMACSecret failed: %v", err)
		}
		if len(secret) < 32 {
			t.Errorf("secret too short: %d bytes", len(secret))
		}
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := ParseHMACSecret("not-valid-base64!!!")
		if err == nil {
			t.Error("expected error for invalid base64")
		}
	})

	t.Run("secret too short", func(t *testing.T) {
		_, err := ParseHMACSecret("c2hvcnQ=") // "short" in base64
		if err == nil {
			t.Error("expected error for secret < 32 bytes")
		}
	})
}

func TestParseHMACSecretWithID(t *testing.T) {
	t.Run("valid format", func(t *testing.T) {
		secretID, secret, err := ParseHMACSecretWithID("0123456789abcdef0123456789abcdef:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		if err != nil {
			t.Fatalf("ParseHMACSecretWithID failed: %v", err)
		}
		if secretID != "0123456789abcdef0123456789abcdef" {
			t.Errorf("unexpected secret_id: %s", secretID)
		}
		if len(secret) == 0 {
			t.Error("secret should not be empty")
		}
	})

	t.Run("missing colon", func(t *testing.T) {
		_, _, err := ParseHMACSecretWithID("0123456789abcdef0123456789abcdef")
		if err == nil {
			t.Error("expected error for missing colon")
		}
	})

	t.Run("invalid secret_id length", func(t *testing.T) {
		_, _, err := ParseHMACSecretWithID("tooshort:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		if err == nil {
			t.Error("expected error for short secret_id")
		}
	})

	t.Run("non-hex chars in secret_id", func(t *testing.T) {
		_, _, err := ParseHMACSecretWithID("0123456789abcdefGHIJKLMNOPQRSTUV:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		if err == nil {
			t.Error("expected error for non-hex secret_id")
		}
	})
}
