package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/gitpulse/core/filter"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/outwriter"
)

// filterCmd manages the persisted filter.
var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Show or change the persisted commit filter.",
	Long: `Manage the filter applied before every view.

Every session starts by hiding merge commits. Filter flags given on any
command replace the persisted filter per dimension for that run; use
'filter set' to keep them.

Subcommands:
  show  - Print the active filter
  set   - Save the filter flags as the new filter
  clear - Restore the default filter`,
}

// filterShowCmd prints the active filter.
var filterShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Print the active filter",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := outwriter.PrintFilter(session.Filter(), cfg); err != nil {
			contract.LogFatal("Failed to print filter", err)
		}
	},
}

// filterSetCmd saves the filter flags.
var filterSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the filter flags as the new filter",
	Long: `Persist the filter resulting from the filter flags.

Dimensions without a flag keep their saved values.

Examples:
  # Only bugfix and security work, from 2024 on
  gitpulse filter set --tag bugfix,security --from 2024-01-01

  # Hide a bot account
  gitpulse filter set --exclude-author bot@example.com`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := saveSession(); err != nil {
			contract.LogFatal("Failed to save filter", err)
		}
		if err := outwriter.PrintFilter(session.Filter(), cfg); err != nil {
			contract.LogFatal("Failed to print filter", err)
		}
	},
}

// filterClearCmd restores the default filter.
var filterClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Restore the default filter",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := session.SetFilter(filter.Reset()); err != nil {
			contract.LogFatal("Failed to reset filter", err)
		}
		if err := saveSession(); err != nil {
			contract.LogFatal("Failed to save filter", err)
		}
		if err := outwriter.PrintFilter(session.Filter(), cfg); err != nil {
			contract.LogFatal("Failed to print filter", err)
		}
	},
}
