// Package commands defines the expense tracker command line: the HTTP server
// and database migration tooling.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. A fresh tree per call keeps flag state
// from leaking between tests.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "expense-tracker",
		Short: "Expense Tracker - personal expense records and spending analytics",
		Long: `Expense Tracker stores per-user expense records and computes spending
summaries (category totals, current-month total, counts) on demand.

Configuration comes from environment variables, optionally seeded from a .env
file in the working directory.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}
