package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newSourcesCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List knowledge sources with their sync schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, release, err := deps.Runner(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			statuses, err := runner.Status(cmd.Context())
			if err != nil {
				return err
			}
			if len(statuses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No knowledge sources configured.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tENABLED\tINTERVAL\tLAST SYNC\tNEXT SYNC\tDUE")
			for _, s := range statuses {
				typ := string(s.SourceType)
				if !s.Registered {
					typ += " (no processor)"
				}
				interval := "manual"
				if s.SyncIntervalMinutes > 0 {
					interval = fmt.Sprintf("%dm", s.SyncIntervalMinutes)
				}
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\t%s\t%t\n",
					s.Name, typ, s.Enabled, interval, formatTime(s.LastSyncedAt), formatTime(s.NextSyncAt), s.Due)
			}
			return tw.Flush()
		},
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
