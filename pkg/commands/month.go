package commands

import (
	"fmt"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/propertease/pkg/app"
	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/commands/options"
	"tableflip.dev/propertease/pkg/printers"
	"tableflip.dev/propertease/pkg/record"
)

type monthView struct {
	Month calendar.MonthKey `json:"month"`
	Label string            `json:"label"`
	Cells []app.DayCell     `json:"cells"`
	Days  record.MonthSet   `json:"days"`
}

func addMonth(topLevel *cobra.Command, e *env) {
	output := &options.OutputOptions{}
	var list bool

	cmd := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show the calendar grid of a month.",
		Example: `
propertease month
propertease month 2026-02 --list
`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return monthCompletions(e, cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			output.Out = cmd.OutOrStdout()
			ctx := commandContext(cmd)

			month, err := e.month(ctx, args)
			if err != nil {
				return output.HandleError(err)
			}
			svc, err := e.service()
			if err != nil {
				return output.HandleError(err)
			}
			set, err := svc.Month(ctx, month)
			if err != nil {
				return output.HandleError(err)
			}
			cells, err := svc.MonthGrid(ctx, month)
			if err != nil {
				return output.HandleError(err)
			}
			if output.JSON {
				return output.Print(monthView{Month: month, Label: month.Label(), Cells: cells, Days: set})
			}

			pp := &printers.PrettyPrint{Out: cmd.OutOrStdout()}
			pp.Calendar(month, cells)
			if list {
				pp.Days(month, set)
			}
			return nil
		},
	}
	options.AddOutputArg(cmd, output)
	cmd.Flags().BoolVarP(&list, "list", "l", false, "Also list the planned days.")

	topLevel.AddCommand(cmd)
}

func addNav(topLevel *cobra.Command, e *env) {
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "nav prev|next|today|YYYY-MM",
		Short: "Move the current month and remember it for the next session.",
		Long: base.Wrap80(`Saves the current month, switches to the target month and saves it ` +
			`too, so that later commands without a month argument open it.`),
		Example: `
propertease nav next
propertease nav 2026-06
`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"prev", "next", "today"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			output.Out = cmd.OutOrStdout()
			ctx := commandContext(cmd)

			svc, err := e.service()
			if err != nil {
				return output.HandleError(err)
			}
			s := app.NewSession(svc)
			if err := s.Open(ctx, ""); err != nil {
				return output.HandleError(err)
			}

			switch target := strings.ToLower(strings.TrimSpace(args[0])); target {
			case "prev", "previous":
				err = s.ShiftMonth(ctx, -1)
			case "next":
				err = s.ShiftMonth(ctx, 1)
			case "today":
				_, err = s.JumpToday(ctx)
			default:
				var month calendar.MonthKey
				month, err = calendar.ParseMonthKey(target)
				if err == nil {
					err = s.PickMonth(ctx, month)
				}
			}
			if err != nil {
				return output.HandleError(fmt.Errorf("nav %s: %w", args[0], err))
			}
			if err := s.Save(ctx); err != nil {
				return output.HandleError(err)
			}

			month := s.Month()
			if output.JSON {
				return output.Print(monthView{Month: month, Label: month.Label(), Cells: s.Grid(), Days: s.Records()})
			}
			(&printers.PrettyPrint{Out: cmd.OutOrStdout()}).Calendar(month, s.Grid())
			return nil
		},
	}
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
