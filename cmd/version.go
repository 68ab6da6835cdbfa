package cmd

import (
	"fmt"
	"maps"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huangsam/gitpulse/schema"
)

// versionCmd prints build details and what this binary supports.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gitpulse.",
	Long: `Print the gitpulse release with its build metadata, followed by the
view levels and state backends this binary was built with.

Include this output when reporting a bug about dashboards or saved state.`,
	Run: func(cmd *cobra.Command, _ []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "gitpulse CLI\n")
		fmt.Fprintf(w, "  Version:  %s\n", version)
		fmt.Fprintf(w, "  Commit:   %s\n", commit)
		fmt.Fprintf(w, "  Built:    %s\n", date)
		fmt.Fprintf(w, "  Runtime:  %s\n", runtime.Version())
		fmt.Fprintf(w, "  Levels:   %s\n", joinNames(schema.AllViewLevels))
		fmt.Fprintf(w, "  Backends: %s\n", joinNames(slices.Sorted(maps.Keys(schema.ValidDatabaseBackends))))
	},
}

func joinNames[T ~string](names []T) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return strings.Join(out, ", ")
}
