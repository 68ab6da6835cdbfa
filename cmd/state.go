package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/iostate"
	"github.com/huangsam/gitpulse/internal/outwriter"
	"github.com/huangsam/gitpulse/schema"
)

// loadStateConfig reads the backend settings without the full shared setup.
func loadStateConfig() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("state-backend")))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid state backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("state-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StateBackend = backend
	cfg.StateDBConnect = connStr
	cfg.Output = schema.OutputMode(strings.ToLower(viper.GetString("output")))
	cfg.OutputFile = viper.GetString("output-file")
	contract.SetVerbose(viper.GetBool("verbose"))
	return nil
}

// stateSetup loads minimal configuration needed for state operations.
// This is used by commands that need store access without a dataset.
func stateSetup() error {
	if err := loadStateConfig(); err != nil {
		return err
	}
	if err := iostate.InitStore(cfg.StateBackend, cfg.StateDBConnect); err != nil {
		return fmt.Errorf("failed to initialize state store: %w", err)
	}
	return nil
}

// stateSetupWrapper wraps stateSetup to provide PreRunE for state commands.
func stateSetupWrapper(_ *cobra.Command, _ []string) error {
	return stateSetup()
}

// stateCmd focused on state management.
//
// Note: State subcommands use minimal initialization (stateSetup) instead of
// the full sharedSetup used by view commands. No dataset is loaded.
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Manage the persisted filter and settings store",
	Long: `Manage the key/value store that remembers the filter, view level,
timezone and work hours between runs.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (nothing persisted)

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove every persisted key
  migrate - Move the store schema to a specific version

Examples:
  # Check state status
  gitpulse state status

  # Use a shared PostgreSQL store
  GITPULSE_STATE_BACKEND=postgresql GITPULSE_STATE_DB_CONNECT="postgres://..." gitpulse state status`,
}

// stateStatusCmd shows store status.
var stateStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display store statistics and connection details",
	PreRunE: stateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iostate.Manager.Store().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get state status", err)
		}
		if err := outwriter.PrintStateStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to print state status", err)
		}
	},
}

// stateClearCmd clears the store.
var stateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every persisted key",
	Long: `Delete the persisted filter and settings. The next run starts from the
defaults: developer level, local time, 08:00-17:00 and merge commits hidden.`,
	PreRunE: stateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostate.Manager.Store().Clear(); err != nil {
			contract.LogFatal("Failed to clear state", err)
		}
		fmt.Println("State cleared successfully.")
	},
}

// stateMigrateCmd runs store migrations.
var stateMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the state store schema",
	Long: `Apply or roll back state store migrations.

Examples:
  # Migrate to the latest version
  gitpulse state migrate

  # Roll back every migration
  gitpulse state migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadStateConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		target := viper.GetInt("target-version")
		if err := iostate.Migrate(cfg.StateBackend, cfg.StateDBConnect, target); err != nil {
			contract.LogFatal("Failed to migrate state store", err)
		}
		fmt.Printf("State store migrated (backend: %s).\n", cfg.StateBackend)
	},
}
