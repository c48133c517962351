package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	var limit int
	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd, deps, false, limit)
		},
	}
	up.Flags().IntVar(&limit, "max", 0, "apply at most this many migrations (0 = all)")

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			return runMigrations(cmd, deps, true, steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}

func runMigrations(cmd *cobra.Command, deps Deps, down bool, limit int) error {
	migrator, release, err := deps.Migrator(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	n, err := migrator.Migrate(down, limit)
	if err != nil {
		return err
	}
	verb := "Applied"
	if down {
		verb = "Rolled back"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d migration(s)\n", verb, n)
	return nil
}
