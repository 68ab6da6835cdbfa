// Package cmd defines the command-line interface for gitpulse.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(detailCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the filter subcommands to the parent filter command
	filterCmd.AddCommand(filterShowCmd)
	filterCmd.AddCommand(filterSetCmd)
	filterCmd.AddCommand(filterClearCmd)

	// Add the settings subcommands to the parent settings command
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)

	// Add the state subcommands to the parent state command
	stateCmd.AddCommand(stateStatusCmd)
	stateCmd.AddCommand(stateClearCmd)
	stateCmd.AddCommand(stateMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringSliceP("data", "d", nil, "Commit dataset JSON files to load and merge")
	rootCmd.PersistentFlags().String("level", "", "View level: executive or management or developer (default: persisted level)")
	rootCmd.PersistentFlags().String("utc", "", "Bucket times in UTC instead of local time (yes/no; default: persisted setting)")
	rootCmd.PersistentFlags().Int("work-start", contract.UnsetWorkHour, "First working hour, 0-23 (default: persisted window)")
	rootCmd.PersistentFlags().Int("work-end", contract.UnsetWorkHour, "Hour the working day ends, 1-24 (default: persisted window)")
	rootCmd.PersistentFlags().Bool("privacy", false, "Show author initials instead of names and hide emails")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or html or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored cells in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("state-backend", string(schema.SQLiteBackend), "State backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("state-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Bool("persist", false, "Save the resulting filter, level and settings for the next run")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")

	// Filter overrides replace the persisted filter per dimension
	rootCmd.PersistentFlags().StringSlice("tag", nil, "Only include commits with these tags")
	rootCmd.PersistentFlags().StringSlice("exclude-tag", nil, "Exclude commits with these tags")
	rootCmd.PersistentFlags().StringSlice("author", nil, "Only include commits by these author emails")
	rootCmd.PersistentFlags().StringSlice("exclude-author", nil, "Exclude commits by these author emails")
	rootCmd.PersistentFlags().StringSlice("repo", nil, "Only include commits from these repositories")
	rootCmd.PersistentFlags().StringSlice("exclude-repo", nil, "Exclude commits from these repositories")
	rootCmd.PersistentFlags().StringSlice("urgency", nil, "Only include these urgency bands: planned or normal or reactive")
	rootCmd.PersistentFlags().StringSlice("impact", nil, "Only include these impact categories")
	rootCmd.PersistentFlags().String("from", "", "Only include commits on or after this date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("to", "", "Only include commits on or before this date (YYYY-MM-DD)")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of detailCmd to Viper
	detailCmd.Flags().IntP("limit", "l", contract.DefaultResultLimit, "Number of commits per page")
	detailCmd.Flags().Int("offset", 0, "Index of the first commit to show")
	if err := viper.BindPFlags(detailCmd.Flags()); err != nil {
		contract.LogFatal("Error binding detail flags", err)
	}

	// Bind all flags of stateMigrateCmd to Viper
	stateMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(stateMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding state migrate flags", err)
	}
}
