package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/solatis/ilrkeeper/internal/predicates"
	"github.com/solatis/ilrkeeper/internal/rules"
	"github.com/solatis/ilrkeeper/internal/types"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*Config, error) {
	v := New()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return FromViper(v)
}

// New returns a viper instance with defaults and ILR_ environment binding.
// Commands bind their flags to it before calling FromViper.
func New() *viper.Viper {
	d := Default()
	v := viper.New()

	v.SetDefault("validation.workers", d.Validation.Workers)
	v.SetDefault("validation.collection_year_start", "")
	v.SetDefault("validation.start_date_lookback_years", d.Validation.StartDateLookbackYears)
	v.SetDefault("validation.start_date_operator", d.Validation.StartDateOperator)
	v.SetDefault("validation.disabled_rules", []string{})

	v.SetDefault("reference_data.db_url", "")
	v.SetDefault("reference_data.redis_addr", "")
	v.SetDefault("reference_data.uln_set_key", d.ReferenceData.ULNSetKey)

	v.SetDefault("validation_api.host", d.ValidationAPI.Host)
	v.SetDefault("validation_api.port", d.ValidationAPI.Port)
	v.SetDefault("validation_api.max_connections", d.ValidationAPI.MaxConnections)
	v.SetDefault("validation_api.request_timeout", d.ValidationAPI.RequestTimeout.String())
	v.SetDefault("validation_api.max_learners", d.ValidationAPI.MaxLearners)
	v.SetDefault("validation_api.metrics_addr", d.ValidationAPI.MetricsAddr)

	v.SetEnvPrefix("ILR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	// Secrets must come from the environment, never from a config file.
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &Config{
		Validation: ValidationConfig{
			Workers:                v.GetInt("validation.workers"),
			StartDateLookbackYears: v.GetInt("validation.start_date_lookback_years"),
			StartDateOperator:      v.GetString("validation.start_date_operator"),
			DisabledRules:          splitRuleNames(v.GetStringSlice("validation.disabled_rules")),
		},
		ReferenceData: ReferenceDataConfig{
			DatabaseURL: v.GetString("reference_data.db_url"),
			RedisAddr:   v.GetString("reference_data.redis_addr"),
			ULNSetKey:   v.GetString("reference_data.uln_set_key"),
		},
		ValidationAPI: ValidationAPIConfig{
			Host:           v.GetString("validation_api.host"),
			Port:           v.GetInt("validation_api.port"),
			MaxConnections: v.GetInt("validation_api.max_connections"),
			RequestTimeout: v.GetDuration("validation_api.request_timeout"),
			MaxLearners:    v.GetInt("validation_api.max_learners"),
			MetricsAddr:    v.GetString("validation_api.metrics_addr"),
		},
	}

	if s := strings.TrimSpace(v.GetString("validation.collection_year_start")); s != "" {
		start, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return nil, fmt.Errorf("validation.collection_year_start must be YYYY-MM-DD, got %q", s)
		}
		cfg.Validation.CollectionYearStart = start
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateConfig checks ranges and enumerations before any component starts.
func validateConfig(cfg *Config) error {
	if cfg.Validation.Workers <= 0 {
		return fmt.Errorf("validation.workers must be positive, got %d", cfg.Validation.Workers)
	}
	if cfg.Validation.StartDateLookbackYears < 0 {
		return fmt.Errorf("validation.start_date_lookback_years must not be negative, got %d", cfg.Validation.StartDateLookbackYears)
	}
	if _, err := predicates.ParseDateOperator(cfg.Validation.StartDateOperator); err != nil {
		return fmt.Errorf("validation.start_date_operator: %w", err)
	}
	if err := rules.CheckRuleNames(cfg.Validation.DisabledRules); err != nil {
		return fmt.Errorf("validation.disabled_rules: %w", err)
	}

	api := cfg.ValidationAPI
	if api.Port <= 0 || api.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", api.Port)
	}
	if api.MaxConnections <= 0 {
		return fmt.Errorf("max_connections must be positive, got %d", api.MaxConnections)
	}
	if api.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", api.RequestTimeout)
	}
	if api.MaxLearners <= 0 || api.MaxLearners > types.MaxLearnersPerMessage {
		return fmt.Errorf("max_learners must be between 1 and %d, got %d", types.MaxLearnersPerMessage, api.MaxLearners)
	}
	return nil
}

// splitRuleNames accepts both list values and comma-separated strings.
// ILR_VALIDATION_DISABLED_RULES="R06,R59" arrives as one whitespace-split
// element per word, so each element is split again on commas.
func splitRuleNames(values []string) []string {
	var names []string
	for _, value := range values {
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// validateNoSecretsInConfig enforces environment-only secrets. Only the
// config file is inspected; ILR_HMAC_SECRET in the environment is expected.
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.InConfig("hmac_secret") || v.InConfig("validation_api.hmac_secret") {
		return fmt.Errorf("HMAC secrets not allowed in config files (use ILR_HMAC_SECRET environment variable)")
	}
	return nil
}
