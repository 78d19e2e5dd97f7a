// Package cli defines the command-line interface for zerolayer.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zerolayer/zerolayer/internal/config"
	"github.com/zerolayer/zerolayer/internal/logging"
	"github.com/zerolayer/zerolayer/internal/store"
)

// Options stores global CLI options shared between commands.
type Options struct {
	StoreDir         string
	ContainerfileDir string
	DryRun           bool
	Quiet            bool
	LogLevel         logging.Level
}

// mode maps the dry-run flag to the store execution mode passed into
// every mutating operation.
func (o *Options) mode() store.Mode {
	if o.DryRun {
		return store.ModeDryRun
	}
	return store.ModeApply
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	rootOpts := &Options{
		LogLevel: logging.LevelInfo,
	}

	rootCmd := newRootCommand(rootOpts, logger)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zerolayer",
		Short: "zerolayer manages bootable OS image environments",
		Long:  "zerolayer builds bootable OS images from a Containerfile, keeps them in a local store of boot environments, and switches or rebases the system between them.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logging.ParseLevel(cmd.Flag("log-level").Value.String())
			if opts.Quiet {
				level = logging.LevelError
			}
			opts.LogLevel = level
			logger = logging.NewLogger(os.Stderr, level)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))

			paths, err := config.ResolvePaths()
			if err != nil {
				return err
			}
			if opts.StoreDir == "" {
				opts.StoreDir = paths.ImageDir
			}
			if opts.ContainerfileDir == "" {
				opts.ContainerfileDir = paths.ContainerfileDir
			}

			logger.Debug("configuration resolved",
				"storeDir", opts.StoreDir,
				"containerfileDir", opts.ContainerfileDir,
				"dryRun", opts.DryRun,
			)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.StoreDir, "store-dir", "c", "", "Boot environment store directory (default $ZEROLAYER_IMAGE_DIR or "+config.DefaultImageDir+")")
	cmd.PersistentFlags().StringVar(&opts.ContainerfileDir, "containerfile-dir", "", "Build source directory (default $ZEROLAYER_CONTAINERFILE_DIR or "+config.DefaultContainerfileDir+")")
	cmd.PersistentFlags().BoolVar(&opts.DryRun, "dry-run", false, "Only log what the program would do")
	cmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Minimal logging")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newListCommand(opts),
		newBuildCommand(opts),
		newSwitchCommand(opts),
		newRebaseCommand(opts),
		newClearCommand(opts),
		newStatusCommand(opts),
		newInitCommand(opts),
	)

	return cmd
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}

// openStore constructs the store rooted at the resolved store directory.
func openStore(opts *Options, logger *slog.Logger) *store.Store {
	return store.New(opts.StoreDir, logger)
}
