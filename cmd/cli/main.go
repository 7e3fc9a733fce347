package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/thand-io/rbac-migrate/internal/client"
	"github.com/thand-io/rbac-migrate/internal/config"
)

// Global configuration instance
var cfg *config.Config
var apiClient *client.Client

// loadConfig loads the configuration based on the --config flag or default locations
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")

	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	return config.Load(configFile)
}

func preRunConfigE(cmd *cobra.Command, _ []string) error {
	// Load configuration before any command runs
	var err error
	cfg, err = loadConfig(cmd)

	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// check if verbose flag is set
	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	apiClient = client.New(cfg)

	return nil
}

var rootCmd = &cobra.Command{
	Use:   "rbac-migrate",
	Short: "Migrate organization groups to RBAC resource groups, roles and user access groups",
	Long: `rbac-migrate reads the organization's groups from the legacy API and
re-creates equivalent resource groups, roles and user access groups through
the v4 RBAC API. Run 'migrate' first, then 'sync' to back-fill membership.
'migrate cleanup' tears everything down again.

Configuration is read from config.yaml, a local .env file or environment
variables (API_KEY, BASE_URL, AUTH, ORG, optional LOG_DIR).`,
	PersistentPreRunE: preRunConfigE,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {

	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is ./config.yaml)")

}

func GetCommandOptions() *cobra.Command {
	return rootCmd
}
