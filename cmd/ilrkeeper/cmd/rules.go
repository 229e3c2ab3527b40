package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/solatis/ilrkeeper/internal/refdata"
	"github.com/solatis/ilrkeeper/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rules a submission is validated against",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().StringSlice("disable", nil, "rule names to skip")
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"validation.disabled_rules": "disable",
	})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	rulesCfg, err := cfg.Validation.RulesConfig()
	if err != nil {
		return err
	}

	// An empty provider lists the reference data rules too.
	names, err := rules.NewValidator(nil, refdata.Empty(), rulesCfg, logger, nil).RuleNames()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tSEVERITY")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\n", name, rules.SeverityOf(name))
	}
	return tw.Flush()
}
