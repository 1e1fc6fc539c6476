package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/commands/options"
	"tableflip.dev/propertease/pkg/printers"
)

type watchEvent struct {
	Time  time.Time         `json:"time"`
	Type  string            `json:"type"`
	Month calendar.MonthKey `json:"month,omitempty"`
}

func addWatch(topLevel *cobra.Command, e *env) {
	output := &options.OutputOptions{}
	var show bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print storage changes as they happen, until interrupted.",
		Example: `
propertease watch --show
propertease watch --json | jq .
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			output.Out = cmd.OutOrStdout()
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
			defer stop()

			svc, err := e.service()
			if err != nil {
				return output.HandleError(err)
			}
			events, err := svc.Watch(ctx)
			if err != nil {
				return output.HandleError(err)
			}

			pp := &printers.PrettyPrint{Out: cmd.OutOrStdout()}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for ev := range events {
				we := watchEvent{Time: time.Now(), Type: ev.Type.String(), Month: ev.Month}
				if output.JSON {
					if err := enc.Encode(we); err != nil {
						return err
					}
					continue
				}
				if we.Month != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", we.Time.Format(time.Kitchen), we.Type, we.Month)
				} else {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", we.Time.Format(time.Kitchen), we.Type)
				}
				if show && we.Month != "" {
					set, err := svc.Month(context.WithoutCancel(ctx), we.Month)
					if err != nil {
						return err
					}
					pp.Days(we.Month, set)
				}
			}
			return nil
		},
	}
	options.AddOutputArg(cmd, output)
	cmd.Flags().BoolVar(&show, "show", false, "List the days of a month after it changes.")

	topLevel.AddCommand(cmd)
}
