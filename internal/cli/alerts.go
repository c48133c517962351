package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newAlertsCmd(deps Deps) *cobra.Command {
	var limit int64

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Show recently dispatched operational alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, release, err := deps.Alerts(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			alerts, err := reader.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(alerts) == 0 {
				fmt.Fprintln(out, "No recent alerts.")
				return nil
			}
			for _, a := range alerts {
				fmt.Fprintf(out, "%s [%s] %s: %s\n", a.Timestamp.UTC().Format(time.RFC3339), a.Severity, a.Event, a.Message)
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&limit, "limit", "n", 20, "number of alerts to show")
	return cmd
}
