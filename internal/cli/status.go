package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zerolayer/zerolayer/internal/store"
)

// newStatusCommand creates the "status" subcommand that reports where
// the current pointer resolves to.
func newStatusCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current boot environment",
		Long:  "Show the archive the current pointer resolves to. A store with environments but no resolvable pointer is reported as degraded; run switch or build to recover.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())
			s := openStore(opts, logger)

			listing, err := s.List(false)
			if err != nil {
				return err
			}

			target, err := s.Resolve()
			if err != nil {
				if !errors.Is(err, store.ErrCurrentUnset) {
					return err
				}
				if len(listing.Environments) == 0 {
					logger.Info("store is empty", "dir", s.Dir())
					return nil
				}
				logger.Warn("store is degraded: environments exist but no current pointer is set",
					"dir", s.Dir(),
					"environments", len(listing.Environments),
				)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), target)
			return nil
		},
	}

	return cmd
}
