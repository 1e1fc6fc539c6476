package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/commands/options"
)

type exportDay struct {
	Date     calendar.DayKey `json:"date" yaml:"date"`
	Weekday  string          `json:"weekday" yaml:"weekday"`
	Title    string          `json:"title,omitempty" yaml:"title,omitempty"`
	Category string          `json:"category,omitempty" yaml:"category,omitempty"`
	Status   string          `json:"status,omitempty" yaml:"status,omitempty"`
	Idea     string          `json:"idea,omitempty" yaml:"idea,omitempty"`
	Prompt   string          `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Thumb    string          `json:"thumb,omitempty" yaml:"thumb,omitempty"`
}

type exportMonth struct {
	Month calendar.MonthKey `json:"month" yaml:"month"`
	Label string            `json:"label" yaml:"label"`
	Days  []exportDay       `json:"days" yaml:"days"`
}

func addExport(topLevel *cobra.Command, e *env) {
	var (
		format string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "export [YYYY-MM...]",
		Short: "Write planned days as JSON or YAML.",
		Example: `
propertease export 2026-02 --format yaml
propertease export --all > calendar.json
`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return monthCompletions(e, cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := commandContext(cmd)

			f, err := options.ParseFormat(format)
			if err != nil {
				return err
			}
			svc, err := e.service()
			if err != nil {
				return err
			}

			var months []calendar.MonthKey
			switch {
			case all:
				if months, err = svc.Months(ctx); err != nil {
					return err
				}
			case len(args) == 0:
				m, err := e.month(ctx, nil)
				if err != nil {
					return err
				}
				months = append(months, m)
			default:
				for _, a := range args {
					m, err := calendar.ParseMonthKey(a)
					if err != nil {
						return err
					}
					months = append(months, m)
				}
			}

			out := make([]exportMonth, 0, len(months))
			for _, m := range months {
				set, err := svc.Month(ctx, m)
				if err != nil {
					return err
				}
				em := exportMonth{Month: m, Label: m.Label(), Days: []exportDay{}}
				for _, k := range set.Keys() {
					r := set[k]
					em.Days = append(em.Days, exportDay{
						Date:     k,
						Weekday:  k.Weekday().String(),
						Title:    r.DisplayTitle(),
						Category: string(r.Category),
						Status:   string(r.Status),
						Idea:     r.Idea,
						Prompt:   r.Prompt,
						Thumb:    r.Thumb,
					})
				}
				out = append(out, em)
			}
			return f.Encode(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml.")
	cmd.Flags().BoolVar(&all, "all", false, "Export every stored month.")

	topLevel.AddCommand(cmd)
}
