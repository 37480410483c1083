package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pkordes/expense-tracker/internal/config"
	"github.com/pkordes/expense-tracker/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate up|down|status",
		Short: "Apply, roll back or list database migrations",
		Long: `Run the embedded migrations against the configured store.

  up      apply every pending migration
  down    roll back the most recent migration
  status  list every migration and whether it is applied`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.Up), string(database.Down), string(database.Status)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("configuration: %w", err)
			}

			dir := database.Direction(args[0])
			results, err := database.Migrate(cmd.Context(), cfg.Store, dir)
			if err != nil {
				return err
			}
			return printMigrations(cmd.OutOrStdout(), dir, results)
		},
	}
}

func printMigrations(w io.Writer, dir database.Direction, results []database.MigrationResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "nothing to do")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tSOURCE")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Version, migrationState(dir, r), r.Source)
	}
	return tw.Flush()
}

func migrationState(dir database.Direction, r database.MigrationResult) string {
	switch {
	case dir == database.Down:
		return "rolled back"
	case r.Applied:
		return "applied"
	default:
		return "pending"
	}
}
