package commands

import (
	"errors"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/commands/options"
	"tableflip.dev/propertease/pkg/printers"
	"tableflip.dev/propertease/pkg/record"
)

type dayView struct {
	Date    calendar.DayKey   `json:"date"`
	Weekday string            `json:"weekday"`
	Planned bool              `json:"planned"`
	Record  *record.DayRecord `json:"record,omitempty"`
}

func newDayView(day calendar.DayKey, r *record.DayRecord) dayView {
	return dayView{Date: day, Weekday: day.Weekday().String(), Planned: r != nil, Record: r}
}

func addDay(topLevel *cobra.Command, e *env) {
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "day YYYY-MM-DD|N",
		Short: "Show a day's idea, prompt, category and status.",
		Long: base.Wrap80(`A bare number is a day of the current month, ` +
			`the month last saved or navigated to.`),
		Example: `
propertease day 2026-02-14
propertease day 14 --json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			output.Out = cmd.OutOrStdout()
			ctx := commandContext(cmd)

			day, err := e.day(ctx, args[0])
			if err != nil {
				return output.HandleError(err)
			}
			svc, err := e.service()
			if err != nil {
				return output.HandleError(err)
			}
			r, err := svc.Day(ctx, day)
			if err != nil {
				return output.HandleError(err)
			}
			if output.JSON {
				return output.Print(newDayView(day, r))
			}
			(&printers.PrettyPrint{Out: cmd.OutOrStdout()}).Day(day, r)
			return nil
		},
	}
	options.AddOutputArg(cmd, output)
	addDaySet(cmd, e)

	topLevel.AddCommand(cmd)
}

func addDaySet(parent *cobra.Command, e *env) {
	output := &options.OutputOptions{}
	do := &options.DayOptions{}
	interactive := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "set YYYY-MM-DD|N",
		Short: "Create or edit a day; only the given fields change.",
		Example: `
propertease day set 14 --idea "Spring staging checklist" --category "Buyer Tips" --generate
propertease day set 2026-02-14 --status posted
propertease day set 14 -i
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			output.Out = cmd.OutOrStdout()
			ctx := commandContext(cmd)

			day, err := e.day(ctx, args[0])
			if err != nil {
				return output.HandleError(err)
			}
			svc, err := e.service()
			if err != nil {
				return output.HandleError(err)
			}
			u, err := do.Update(cmd)
			if err != nil {
				return output.HandleError(err)
			}

			if interactive.Interactive {
				current, err := svc.Day(ctx, day)
				if err != nil {
					return output.HandleError(err)
				}
				if current == nil {
					current = record.New(svc.Settings.Category)
				}
				if u.Category == nil {
					c, err := options.SelectCategory(cmd, current.Category)
					if err != nil {
						return output.HandleError(err)
					}
					u.Category = &c
				}
				if u.Status == nil {
					st, err := options.SelectStatus(cmd, current.Status)
					if err != nil {
						return output.HandleError(err)
					}
					u.Status = &st
				}
			}

			if u.Empty() {
				return output.HandleError(errors.New("nothing to update: pass --idea, --prompt, --title, --category, --status, --generate or -i"))
			}
			r, err := svc.UpdateDay(ctx, day, u)
			if err != nil {
				return output.HandleError(err)
			}
			if output.JSON {
				return output.Print(newDayView(day, r))
			}
			(&printers.PrettyPrint{Out: cmd.OutOrStdout()}).Day(day, r)
			return nil
		},
	}
	options.AddOutputArg(cmd, output)
	options.AddDayArgs(cmd, do)
	options.InteractiveArgs(cmd, interactive)

	parent.AddCommand(cmd)
}
