package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/clientpulse/internal/adapter/presenter"
)

func newRunCmd(deps Deps) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one sync pass over every due knowledge source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, release, err := deps.Runner(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			report, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(presenter.ToSyncResponse(report))
			}

			fmt.Fprintf(out, "run %s finished in %s\n\n", report.RunID, report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SOURCE\tTYPE\tPROCESSED\tERRORS\tSTATE")
			for _, s := range report.Sources {
				state := "synced"
				switch {
				case s.Skipped:
					state = "not due"
				case s.ErrorMessage != "":
					state = s.ErrorMessage
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", s.Name, s.SourceType, s.Processed, s.Errors, state)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			processed, errs := report.Totals()
			fmt.Fprintf(out, "\n%d processed, %d errors\n", processed, errs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as the cron endpoint would")
	return cmd
}
