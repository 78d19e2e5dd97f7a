package cli

import (
	"github.com/spf13/cobra"
)

// newListCommand creates the "list" subcommand that shows a table of
// available boot environments.
func newListCommand(opts *Options) *cobra.Command {
	var maxShown int
	var ignoreCurrent bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available boot environments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())
			s := openStore(opts, logger)

			listing, err := s.List(!ignoreCurrent)
			if err != nil {
				return err
			}

			for _, inv := range listing.Invalid {
				logger.Warn("skipping invalid store entry", "name", inv.Name, "error", inv.Reason)
			}

			envs := listing.Environments
			if maxShown > 0 && len(envs) > maxShown {
				envs = envs[:maxShown]
				logger.Warn("results truncated", "max", maxShown)
			}

			if len(envs) == 0 {
				logger.Warn("no valid environments found", "dir", s.Dir())
				return nil
			}

			renderEnvironmentTable(cmd.OutOrStdout(), envs)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxShown, "max-shown", 0, "Maximum number of environments to show (0 means all)")
	cmd.Flags().BoolVar(&ignoreCurrent, "ignore-current", false, "Exclude the current environment from the listing")

	return cmd
}
