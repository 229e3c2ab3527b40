package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/solatis/ilrkeeper/internal/core/config"
	"github.com/solatis/ilrkeeper/internal/refdata"
	"github.com/solatis/ilrkeeper/internal/rules"
	"github.com/solatis/ilrkeeper/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate <submission.json|->",
	Short: "Validate one submission and print its violations",
	Long: `Validate decodes a submission (JSON rendering of an ILR message), runs every
rule against it and prints the violations. The exit status is 2 when any
error-severity violation is found.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("output", "o", "text", "output format (text, json)")
	validateCmd.Flags().Int("workers", 4, "rules run concurrently")
	validateCmd.Flags().String("collection-year-start", "", "first day of the collection year (YYYY-MM-DD)")
	validateCmd.Flags().Int("lookback-years", 10, "LearnStartDate_02 look-back in years")
	validateCmd.Flags().StringSlice("disable", nil, "rule names to skip")
	validateCmd.Flags().String("redis-addr", "", "Redis address holding the issued ULN set")
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd, map[string]string{
		"validation.workers":                   "workers",
		"validation.collection_year_start":     "collection-year-start",
		"validation.start_date_lookback_years": "lookback-years",
		"validation.disabled_rules":            "disable",
		"reference_data.redis_addr":            "redis-addr",
	})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "text" && output != "json" {
		return fmt.Errorf("unknown output format %q (expected text, json)", output)
	}

	msg, err := readSubmission(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	rulesCfg, err := cfg.Validation.RulesConfig()
	if err != nil {
		return err
	}

	provider, closeRef, err := loadProvider(ctx, cfg.ReferenceData, msg.UKPRN())
	if err != nil {
		return err
	}
	defer closeRef()

	engine := rules.NewEngine(rules.WithWorkers(cfg.Validation.Workers), rules.WithLogger(logger))
	report, err := rules.NewValidator(engine, provider, rulesCfg, logger, nil).Validate(ctx, msg)
	if err != nil {
		return err
	}

	if output == "json" {
		err = writeReportJSON(cmd.OutOrStdout(), report)
	} else {
		err = writeReportText(cmd.OutOrStdout(), report)
	}
	if err != nil {
		return err
	}

	if report.Errors() > 0 {
		return errViolations
	}
	return nil
}

// readSubmission decodes the submission at path, or stdin for "-".
func readSubmission(stdin io.Reader, path string) (*types.Message, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open submission: %w", err)
		}
		defer f.Close()
		r = f
	}
	msg, err := types.DecodeMessage(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return msg, nil
}

// loadProvider loads the reference data snapshot for ukprn when reference
// data is configured. The returned closer is always safe to call.
func loadProvider(ctx context.Context, cfg config.ReferenceDataConfig, ukprn int) (refdata.Provider, func(), error) {
	noop := func() {}
	ref, err := openReferenceData(ctx, cfg)
	if err != nil {
		return nil, noop, err
	}
	if ref == nil {
		logger.Info("no reference data configured; reference data rules disabled")
		return nil, noop, nil
	}
	closer := func() {
		if err := ref.Close(); err != nil {
			logger.Warn("closing reference data", "error", err)
		}
	}

	snapshot, err := ref.loader.Load(ctx, ukprn)
	if err != nil {
		closer()
		return nil, noop, fmt.Errorf("failed to load reference data: %w", err)
	}
	aims, ulns, contracts := snapshot.Stats()
	logger.Info("reference data loaded", "ukprn", ukprn, "learning_aims", aims, "ulns", ulns, "contracts", contracts)
	return snapshot, closer, nil
}
