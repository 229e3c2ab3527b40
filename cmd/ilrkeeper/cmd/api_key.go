package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/solatis/ilrkeeper/internal/core/auth"
	"github.com/solatis/ilrkeeper/internal/core/config"
)

var apiKeyCmd = &cobra.Command{
	Use:   "api-key",
	Short: "Manage validation API keys",
}

var apiKeyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an API key for a provider",
	Long: `Create prints a new key once. Only its HMAC is stored, so a lost key
cannot be recovered; revoke it and create another.`,
	Args: cobra.NoArgs,
	RunE: runAPIKeyCreate,
}

var apiKeyRevokeCmd = &cobra.Command{
	Use:   "revoke <api-key-id>",
	Short: "Revoke an API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runAPIKeyRevoke,
}

func init() {
	rootCmd.AddCommand(apiKeyCmd)
	apiKeyCmd.AddCommand(apiKeyCreateCmd, apiKeyRevokeCmd)

	apiKeyCreateCmd.Flags().Int("ukprn", 0, "provider the key is bound to")
	apiKeyCreateCmd.Flags().String("name", "", "label for the key")
	apiKeyCreateCmd.Flags().String("secret-id", "", "HMAC secret to sign with (required when several are configured)")
	_ = apiKeyCreateCmd.MarkFlagRequired("ukprn")
}

// selectSecret picks the signing secret: the requested one, or the only one.
func selectSecret(secrets map[string][]byte, secretID string) (string, []byte, error) {
	if secretID != "" {
		secret, ok := secrets[secretID]
		if !ok {
			return "", nil, fmt.Errorf("secret %s not configured", secretID)
		}
		return secretID, secret, nil
	}

	switch len(secrets) {
	case 0:
		return "", nil, errors.New("no HMAC secrets configured (set ILR_HMAC_SECRET environment variable)")
	case 1:
		for id, secret := range secrets {
			return id, secret, nil
		}
	}

	ids := make([]string, 0, len(secrets))
	for id := range secrets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return "", nil, fmt.Errorf("several HMAC secrets configured, choose one with --secret-id: %v", ids)
}

func runAPIKeyCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	secrets, err := config.HMACSecrets()
	if err != nil {
		return fmt.Errorf("failed to load HMAC secrets: %w", err)
	}
	requested, _ := cmd.Flags().GetString("secret-id")
	secretID, secret, err := selectSecret(secrets, requested)
	if err != nil {
		return err
	}

	database, queries, err := openDatabase(cmd.Context(), cfg.ReferenceData.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	ukprn, _ := cmd.Flags().GetInt("ukprn")
	name, _ := cmd.Flags().GetString("name")
	issued, err := auth.IssueAPIKey(cmd.Context(), queries, secretID, secret, ukprn, name)
	if err != nil {
		return err
	}

	logger.Info("api key created", "api_key_id", issued.APIKeyID, "ukprn", issued.UKPRN)
	fmt.Fprintf(cmd.OutOrStdout(), "id:  %s\nkey: %s\n", issued.APIKeyID, issued.Key)
	return nil
}

func runAPIKeyRevoke(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, queries, err := openDatabase(cmd.Context(), cfg.ReferenceData.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := auth.RevokeAPIKey(cmd.Context(), queries, args[0]); err != nil {
		return err
	}
	logger.Info("api key revoked", "api_key_id", args[0])
	return nil
}
