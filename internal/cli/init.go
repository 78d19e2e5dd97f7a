package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zerolayer/zerolayer/internal/config"
	"github.com/zerolayer/zerolayer/internal/vcs"
)

// defaultTemplateURL is the template repository cloned when neither the
// --url flag nor zerolayer.yaml provides one.
const defaultTemplateURL = "https://github.com/ublue-os/startingpoint"

// newInitCommand creates the "init" subcommand that bootstraps a build
// source directory from a template repository.
func newInitCommand(opts *Options) *cobra.Command {
	var url string
	var targetDir string
	var noConfirm bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a build source directory from a template repository",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			target := targetDir
			if target == "" {
				target = opts.ContainerfileDir
			}

			cloneURL := url
			if cloneURL == "" {
				project, err := config.LoadProject(target)
				if err == nil && project.InitURL != "" {
					cloneURL = project.InitURL
				} else {
					cloneURL = defaultTemplateURL
				}
			}

			if opts.mode().DryRun() {
				logger.Info("would delete everything from target directory", "dir", target)
				logger.Info("would clone template repository", "url", cloneURL, "target", target)
				return nil
			}

			if entries, err := os.ReadDir(target); err == nil && len(entries) > 0 {
				if !noConfirm && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Are you sure you want to delete everything from %s?", target)) {
					logger.Info("aborted")
					return nil
				}
				for _, entry := range entries {
					logger.Warn("removing", "path", filepath.Join(target, entry.Name()))
				}
				if err := os.RemoveAll(target); err != nil {
					return fmt.Errorf("clear target directory %q: %w", target, err)
				}
			}

			if err := vcs.NewClient(logger).Clone(cmd.Context(), cloneURL, target); err != nil {
				return err
			}

			logger.Info("initialized successfully", "target", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Template repository URL (default "+defaultTemplateURL+")")
	cmd.Flags().StringVar(&targetDir, "target-dir", "", "Directory to initialize (default: the Containerfile directory)")
	cmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "Skip confirmation prompts")

	return cmd
}
