package cli

import (
	"github.com/spf13/cobra"

	"github.com/zerolayer/zerolayer/internal/naming"
)

// newClearCommand creates the "clear" subcommand that deletes one or
// all boot environments from the store.
func newClearCommand(opts *Options) *cobra.Command {
	var all, noConfirm, force bool
	var identifier string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete selected (or all) boot environments",
		Long:  "Delete a boot environment by identifier, or all of them with --all. The archive targeted by the current pointer is kept unless --force is given. Deleting the reserved \"current\" identifier removes only the pointer link.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())
			s := openStore(opts, logger)

			if identifier != "" {
				if !noConfirm && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to delete environment "+identifier+"?") {
					logger.Info("aborted")
					return nil
				}
				if err := s.Delete(opts.mode(), naming.FromToken(identifier)); err != nil {
					return err
				}
				logger.Info("environment deleted", "id", identifier)
				return nil
			}

			listing, err := s.List(false)
			if err != nil {
				return err
			}
			if len(listing.Environments) == 0 {
				logger.Warn("no valid environments found", "dir", s.Dir())
				return nil
			}

			if all {
				for _, env := range listing.Environments {
					logger.Warn("affected environment", "name", env.Name())
				}
				if !noConfirm && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to delete all environments?") {
					logger.Info("aborted")
					return nil
				}

				report, err := s.DeleteAll(opts.mode(), !force)
				if err != nil {
					return err
				}
				for _, failure := range report.Failed {
					logger.Error("failed to delete environment", "name", failure.Environment.Name(), "error", failure.Err)
				}
				logger.Info("environments deleted", "count", len(report.Removed))
				return report.Err()
			}

			env, err := selectEnvironment(cmd.InOrStdin(), cmd.OutOrStdout(), listing.Environments, "Which environment do you want to delete?")
			if err != nil {
				return err
			}
			if !noConfirm && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to delete the selected environment?") {
				logger.Info("aborted")
				return nil
			}

			if err := s.Delete(opts.mode(), env.ID); err != nil {
				return err
			}
			logger.Info("environment deleted", "id", env.ID.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Delete all environments")
	cmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "Skip confirmation prompts")
	cmd.Flags().BoolVar(&force, "force", false, "With --all, also delete the archive the current pointer targets")
	cmd.Flags().StringVar(&identifier, "identifier", "", "Delete a single environment by identifier")

	return cmd
}
