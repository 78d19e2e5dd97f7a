package cli

import (
	"github.com/spf13/cobra"

	"github.com/zerolayer/zerolayer/internal/naming"
	"github.com/zerolayer/zerolayer/internal/ostree"
)

// newRebaseCommand creates the "rebase" subcommand that points the
// running system at a boot environment via rpm-ostree.
func newRebaseCommand(opts *Options) *cobra.Command {
	var identifier string
	var noConfirm bool

	cmd := &cobra.Command{
		Use:   "rebase",
		Short: "Rebase the system onto the chosen boot environment",
		Long:  "Rebase the running system onto a boot environment with rpm-ostree. With --identifier the pointer is switched first; a rebase failure does not roll that switch back.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())
			s := openStore(opts, logger)

			token := identifier
			if token == "" {
				if noConfirm {
					token = naming.CurrentToken
				} else {
					listing, err := s.List(true)
					if err != nil {
						return err
					}
					env, err := selectEnvironment(cmd.InOrStdin(), cmd.OutOrStdout(), listing.Environments, "Which environment do you want to rebase to?")
					if err != nil {
						return err
					}
					token = env.ID.String()
				}
			}

			// Switch first. A failed rebase leaves the pointer already
			// switched; there is no rollback.
			if token != naming.CurrentToken {
				if _, err := s.Switch(opts.mode(), token); err != nil {
					return err
				}
			}

			ref := ostree.ImageRef(s.CurrentPath())
			if opts.mode().DryRun() {
				logger.Info("would rebase system", "ref", ref)
				return nil
			}

			// Refuse to rebase when the pointer does not resolve, which
			// covers the degraded state left by an interrupted repoint.
			if _, err := s.Resolve(); err != nil {
				return err
			}

			return ostree.NewClient(logger).Rebase(cmd.Context(), ref)
		},
	}

	cmd.Flags().StringVar(&identifier, "identifier", "", "Environment identifier to rebase to (default: current)")
	cmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "Skip the interactive selection and use the current environment")

	return cmd
}
