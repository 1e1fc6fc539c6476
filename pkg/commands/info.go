package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/propertease/pkg/commands/options"
	"tableflip.dev/propertease/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command, e *env) {
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and the stored months.",
		Example: `
propertease info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			output.Out = cmd.OutOrStdout()
			cfg, err := e.loadConfig()
			if err != nil {
				return output.HandleError(err)
			}
			svc, err := e.service()
			if err != nil {
				return output.HandleError(err)
			}
			s := info.Info{
				Config: cfg,
				App:    svc,
				Out:    cmd.OutOrStdout(),
			}
			err = s.Do(commandContext(cmd))
			return output.HandleError(err)
		},
	}
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
