package cli

import (
	"github.com/spf13/cobra"
)

// newSwitchCommand creates the "switch" subcommand that repoints the
// current environment symlink at an existing environment.
func newSwitchCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "switch <identifier>",
		Short: "Switch the current environment to the selected image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())
			s := openStore(opts, logger)

			env, err := s.Switch(opts.mode(), args[0])
			if err != nil {
				return err
			}

			logger.Info("switched current environment", "id", env.ID.String())
			return nil
		},
	}

	return cmd
}
