package commands

import (
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/propertease/pkg/app"
	"tableflip.dev/propertease/pkg/commands/options"
	"tableflip.dev/propertease/pkg/printers"
	"tableflip.dev/propertease/pkg/record"
)

func addGenerate(topLevel *cobra.Command, e *env) {
	output := &options.OutputOptions{}
	var (
		idea     string
		category string
	)

	cmd := &cobra.Command{
		Use:   "generate YYYY-MM-DD|N",
		Short: "Compose and save the image prompt of a day.",
		Long: base.Wrap80(`Selects the day, optionally replaces its idea and category, ` +
			`composes the prompt from them and saves the month.`),
		Example: `
propertease generate 14
propertease generate 2026-02-14 --idea "Open house etiquette" --category "FAQs"
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

			s := app.NewSession(svc)
			if err := s.Open(ctx, day.Month()); err != nil {
				return output.HandleError(err)
			}
			r, err := s.SelectDay(day)
			if err != nil {
				return output.HandleError(err)
			}
			if cmd.Flags().Changed("category") {
				c, err := record.ParseCategory(category)
				if err != nil {
					return output.HandleError(err)
				}
				if err := s.SetCategory(c); err != nil {
					return output.HandleError(err)
				}
			} else if r.Category != "" {
				if err := s.SetCategory(r.Category); err != nil {
					return output.HandleError(err)
				}
			}
			if cmd.Flags().Changed("idea") {
				if err := s.EditIdea(idea); err != nil {
					return output.HandleError(err)
				}
			}
			text, err := s.Generate()
			if err != nil {
				return output.HandleError(err)
			}
			if err := s.Save(ctx); err != nil {
				return output.HandleError(err)
			}

			if output.JSON {
				return output.Print(newDayView(day, s.Records()[day]))
			}
			(&printers.PrettyPrint{Out: cmd.OutOrStdout()}).Prompt(text)
			return nil
		},
	}
	options.AddOutputArg(cmd, output)
	cmd.Flags().StringVar(&idea, "idea", "", "Replace the day's idea first.")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Replace the day's category first.")

	topLevel.AddCommand(cmd)
}

func addPrompt(topLevel *cobra.Command, e *env) {
	var category string

	cmd := &cobra.Command{
		Use:   "prompt [idea...]",
		Short: "Print the image prompt for an idea without saving anything.",
		Example: `
propertease prompt "First-time buyer mistakes" --category "Buyer Tips"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := e.service()
			if err != nil {
				return err
			}
			c := svc.Settings.Category
			if strings.TrimSpace(category) != "" {
				if c, err = record.ParseCategory(category); err != nil {
					return err
				}
			}
			text := svc.ComposePrompt(strings.Join(args, " "), c)
			(&printers.PrettyPrint{Out: cmd.OutOrStdout()}).Prompt(text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Content category; defaults to the configured one.")

	topLevel.AddCommand(cmd)
}
