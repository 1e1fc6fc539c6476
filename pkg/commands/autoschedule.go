package commands

import (
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/propertease/pkg/app"
	"tableflip.dev/propertease/pkg/commands/options"
	"tableflip.dev/propertease/pkg/printers"
	"tableflip.dev/propertease/pkg/store"
)

type autoScheduleView struct {
	app.Report
	DryRun bool     `json:"dryRun,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// presetOverwrite answers the overwrite gate of app.ConfirmAutoSchedule with
// value when preset is true and passes the run gate through to confirm.
func presetOverwrite(confirm app.ConfirmFunc, preset, value bool) app.ConfirmFunc {
	asked := 0
	return func(question string) (bool, error) {
		asked++
		if asked > 1 && preset {
			return value, nil
		}
		return confirm(question)
	}
}

func addAutoSchedule(topLevel *cobra.Command, e *env) {
	output := &options.OutputOptions{}
	var (
		overwrite bool
		yes       bool
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:     "autoschedule [YYYY-MM]",
		Aliases: []string{"auto"},
		Short:   "Fill a month and the next with weekday themed ideas and prompts.",
		Long: base.Wrap80(`Every day gets the category of its weekday, a topic idea, `+
			`a title, a thumbnail and a composed prompt. Days that already have content `+
			`are kept unless overwrite is confirmed. Posted and ready statuses survive.`) + "\n\n" +
			base.Wrap80(`Asks twice before writing: once to run and once to overwrite. --yes skips both `+
				`questions and takes --overwrite as given.`),
		Example: `
propertease autoschedule
propertease autoschedule 2026-03 --yes --overwrite
propertease autoschedule --dry-run --yes
`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
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

			var confirmed, ow bool
			if yes {
				confirmed, ow = true, overwrite
			} else {
				confirm := presetOverwrite(options.Confirm(cmd), cmd.Flags().Changed("overwrite"), overwrite)
				if confirmed, ow, err = app.ConfirmAutoSchedule(confirm, month); err != nil {
					return output.HandleError(err)
				}
			}

			target := svc
			if dryRun {
				mem, err := store.CopyFrom(ctx, svc.Persistence, month, month.Shift(1))
				if err != nil {
					return output.HandleError(err)
				}
				sandbox := *svc
				sandbox.Persistence = mem
				target = &sandbox
			}

			report, runErr := target.AutoSchedule(ctx, month, confirmed, ow)
			if output.JSON {
				view := autoScheduleView{Report: report, DryRun: dryRun}
				for _, m := range report.Months {
					if m.Err != nil {
						view.Errors = append(view.Errors, m.Err.Error())
					}
				}
				if err := output.Print(view); err != nil {
					return err
				}
				return runErr
			}

			pp := &printers.PrettyPrint{Out: cmd.OutOrStdout()}
			pp.AutoScheduleReport(report)
			if dryRun && !report.Aborted {
				pp.Title("dry run, nothing saved")
				for _, m := range report.Months {
					set, err := target.Month(ctx, m.Month)
					if err != nil {
						return err
					}
					pp.Days(m.Month, set)
				}
			}
			return runErr
		},
	}
	options.AddOutputArg(cmd, output)
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace days that already have content.")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation.")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run against a copy of the two months and print the result.")

	topLevel.AddCommand(cmd)
}
