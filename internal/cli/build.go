package cli

import (
	"github.com/spf13/cobra"

	"github.com/zerolayer/zerolayer/internal/config"
	"github.com/zerolayer/zerolayer/internal/podman"
	"github.com/zerolayer/zerolayer/internal/store"
)

// newBuildCommand creates the "build" subcommand that produces a new
// boot environment archive and repoints current at it.
func newBuildCommand(opts *Options) *cobra.Command {
	var buildArgs []string
	var buildArgFiles []string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a boot environment from the Containerfile directory",
		Long:  "Build a boot environment archive with podman from the Containerfile directory and make it the current environment. Build arguments come from zerolayer.yaml, env files and --build-arg flags, in that order of precedence.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())
			sourceDir := opts.ContainerfileDir

			project, err := config.LoadProject(sourceDir)
			if err != nil {
				return err
			}

			fileArgs, err := config.LoadBuildArgFiles(sourceDir, append(project.EnvFiles, buildArgFiles...))
			if err != nil {
				return err
			}
			flagArgs, err := config.ParseBuildArgs(buildArgs)
			if err != nil {
				return err
			}

			builder := podman.NewClient(logger)
			builder.File = project.Containerfile

			s := openStore(opts, logger)
			env, err := s.Build(cmd.Context(), opts.mode(), builder, store.BuildOptions{
				SourceDir: sourceDir,
				BuildArgs: config.MergeBuildArgs(project.BuildArgs, fileArgs, flagArgs),
			})
			if err != nil {
				return err
			}

			logger.Info("environment built", "id", env.ID.String(), "path", env.Path)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&buildArgs, "build-arg", nil, "Build argument in key=value form, repeatable")
	cmd.Flags().StringArrayVar(&buildArgFiles, "build-arg-file", nil, "Path to a .env-style file of build arguments, repeatable")

	return cmd
}
