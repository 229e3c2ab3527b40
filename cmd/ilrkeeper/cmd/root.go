package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/solatis/ilrkeeper/internal/core/config"
	"github.com/solatis/ilrkeeper/internal/core/logging"
)

// Version is the release reported by the validation API.
const Version = "0.1.0"

// Exit codes.
const (
	exitOK         = 0
	exitFailure    = 1
	exitViolations = 2
)

// errViolations signals a run that found error-severity violations; the
// report has already been written.
var errViolations = errors.New("submission has validation errors")

var (
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ilrkeeper",
	Short: "ILR learner submission validation",
	Long:  `ilrkeeper validates Individualised Learner Record submissions against the ILR business rules.`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logLevel, logFormat)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "reference data database URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errViolations):
		return exitViolations
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitFailure
	}
}

// loadConfig reads configuration with flag > env > file > default
// precedence. bindings maps viper keys to flags of cmd.
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	v := config.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindings["reference_data.db_url"] = "db-url"
	for key, name := range bindings {
		if err := bindFlag(v, key, cmd.Flags().Lookup(name)); err != nil {
			return nil, err
		}
	}

	return config.FromViper(v)
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("flag for %s not defined", key)
	}
	// Unset flags must not shadow env or file values.
	if !flag.Changed {
		return nil
	}
	return v.BindPFlag(key, flag)
}
