package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

func addCompletions(topLevel *cobra.Command, _ *env) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(propertease completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(propertease completion)
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return topLevel.GenBashCompletionV2(cmd.OutOrStdout(), true)
		},
	}

	topLevel.AddCommand(cmd)
}

// monthCompletions lists stored months that start with toComplete.
func monthCompletions(e *env, cmd *cobra.Command, toComplete string) []string {
	svc, err := e.service()
	if err != nil {
		return nil
	}
	months, err := svc.Months(commandContext(cmd))
	if err != nil {
		return nil
	}
	var out []string
	for _, m := range months {
		if strings.HasPrefix(string(m), toComplete) {
			out = append(out, string(m))
		}
	}
	return out
}
