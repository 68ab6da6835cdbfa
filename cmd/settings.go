package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/gitpulse/core/view"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/outwriter"
	"github.com/huangsam/gitpulse/schema"
)

// settingsCmd manages the persisted view level and time settings.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the view level, timezone and work hours.",
	Long: `Manage the settings that shape every view.

Subcommands:
  show - Print the effective settings
  set  - Save --level, --utc, --work-start and --work-end`,
}

// settingsShowCmd prints the effective settings.
var settingsShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Print the effective settings",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := outwriter.PrintSettings(session.View(), session.Settings(), cfg); err != nil {
			contract.LogFatal("Failed to print settings", err)
		}
	},
}

// settingsSetCmd saves the settings flags.
var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the settings flags",
	Long: `Persist the view level, timezone and work window.

Examples:
  gitpulse settings set --level management
  gitpulse settings set --utc yes --work-start 9 --work-end 18`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := saveSession(); err != nil {
			contract.LogFatal("Failed to save settings", err)
		}
		if err := outwriter.PrintSettings(session.View(), session.Settings(), cfg); err != nil {
			contract.LogFatal("Failed to print settings", err)
		}
	},
}

// levelsCmd lists the view levels.
var levelsCmd = &cobra.Command{
	Use:     "levels",
	Short:   "List the view levels and what each one groups by.",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		levels := make([]schema.ViewConfig, 0, len(view.Levels()))
		for _, l := range view.Levels() {
			levels = append(levels, view.Resolve(string(l)))
		}
		if err := outwriter.PrintLevels(levels, session.View().Level, cfg); err != nil {
			contract.LogFatal("Failed to print levels", err)
		}
	},
}
