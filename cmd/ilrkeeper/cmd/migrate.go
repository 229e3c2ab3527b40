package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/solatis/ilrkeeper/internal/core/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending reference data migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, _, err := openDatabase(cmd.Context(), cfg.ReferenceData.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	applied, err := db.MigrateUp(cmd.Context(), database)
	if err != nil {
		return err
	}
	for _, id := range applied {
		logger.Info("migration applied", "migration", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d migrations applied\n", len(applied))
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, _, err := openDatabase(cmd.Context(), cfg.ReferenceData.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	statuses, err := db.MigrateStatus(cmd.Context(), database)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MIGRATION\tSTATE\tAPPLIED AT\tMS")
	for _, s := range statuses {
		state, at, ms := "pending", "-", "-"
		if s.Applied {
			state = "applied"
			ms = fmt.Sprint(s.ExecutionMs)
			if s.AppliedAt != nil {
				at = s.AppliedAt.UTC().Format(time.RFC3339)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, state, at, ms)
	}
	return tw.Flush()
}
