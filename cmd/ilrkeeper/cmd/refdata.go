package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solatis/ilrkeeper/internal/refdata"
)

var refdataCmd = &cobra.Command{
	Use:   "refdata",
	Short: "Manage reference data",
}

var refdataImportCmd = &cobra.Command{
	Use:   "import <bundle.json>",
	Short: "Import learning aims, ULNs and contract allocations",
	Args:  cobra.ExactArgs(1),
	RunE:  runRefdataImport,
}

var refdataStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the reference data a provider's submissions are checked against",
	Args:  cobra.NoArgs,
	RunE:  runRefdataStats,
}

func init() {
	rootCmd.AddCommand(refdataCmd)
	refdataCmd.AddCommand(refdataImportCmd, refdataStatsCmd)

	refdataStatsCmd.Flags().Int("ukprn", 0, "provider to load contracts for")
	refdataStatsCmd.Flags().String("redis-addr", "", "Redis address holding the issued ULN set")
}

func runRefdataImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}
	defer f.Close()

	bundle, err := refdata.DecodeBundle(f)
	if err != nil {
		return err
	}

	database, queries, err := openDatabase(cmd.Context(), cfg.ReferenceData.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := refdata.Import(cmd.Context(), queries, bundle); err != nil {
		return err
	}

	logger.Info("reference data imported",
		"learning_aims", len(bundle.LearningAims),
		"ulns", len(bundle.ULNs),
		"contracts", len(bundle.ContractAllocations),
	)
	return nil
}

func runRefdataStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"reference_data.redis_addr": "redis-addr",
	})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ref, err := openReferenceData(cmd.Context(), cfg.ReferenceData)
	if err != nil {
		return err
	}
	if ref == nil {
		return fmt.Errorf("no reference data configured (set --db-url or --redis-addr)")
	}
	defer ref.Close()

	ukprn, _ := cmd.Flags().GetInt("ukprn")
	snapshot, err := ref.loader.Load(cmd.Context(), ukprn)
	if err != nil {
		return err
	}

	aims, ulns, contracts := snapshot.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "learning aims: %d\nulns:          %d\ncontracts:     %d\n", aims, ulns, contracts)
	return nil
}
