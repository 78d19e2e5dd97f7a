// Package vcs wraps the git binary for bootstrapping a build source
// directory from a template repository.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/zerolayer/zerolayer/internal/logging"
)

// ErrGitNotFound reports that the git binary is not on PATH.
var ErrGitNotFound = errors.New("git not found in PATH")

// Client wraps git execution.
type Client struct {
	// Binary is the git executable name or path.
	Binary string
	logger *slog.Logger
}

// NewClient constructs a git client logging through the given logger.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{Binary: "git", logger: logger}
}

// Clone clones url into targetDir. It blocks until git exits; a
// non-zero exit is a hard failure.
func (c *Client) Clone(ctx context.Context, url, targetDir string) error {
	if _, err := exec.LookPath(c.Binary); err != nil {
		return fmt.Errorf("%w: %v", ErrGitNotFound, err)
	}

	c.logger.Info("cloning template repository", "url", url, "target", targetDir)

	cmd := exec.CommandContext(ctx, c.Binary, "clone", url, targetDir)
	cmd.Stdout = logging.NewWriter(c.logger)
	cmd.Stderr = logging.NewWriter(c.logger)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git clone %q failed: %w", url, err)
	}
	return nil
}
