package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/propertease/pkg/printers"
	"tableflip.dev/propertease/pkg/topic"
)

func addCategories(topLevel *cobra.Command, _ *env) {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"key", "legend"},
		Short:   "List categories, their grid badges and weekdays, and the statuses.",
		Run: func(cmd *cobra.Command, _ []string) {
			(&printers.PrettyPrint{Out: cmd.OutOrStdout()}).Legend(topic.Default())
		},
	}

	topLevel.AddCommand(cmd)
}
