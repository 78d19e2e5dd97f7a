// Package ostree invokes rpm-ostree to rebase the running system onto a
// boot environment archive.
package ostree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/zerolayer/zerolayer/internal/logging"
)

// ErrRPMOstreeNotFound reports that the rpm-ostree binary is not on PATH.
var ErrRPMOstreeNotFound = errors.New("rpm-ostree not found in PATH")

// Client wraps rpm-ostree execution.
type Client struct {
	// Binary is the rpm-ostree executable name or path.
	Binary string
	logger *slog.Logger
}

// NewClient constructs an rpm-ostree client logging through the given logger.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{Binary: "rpm-ostree", logger: logger}
}

// ImageRef builds the fully-qualified rebase reference for an archive path.
func ImageRef(archivePath string) string {
	return "ostree-unverified-image:oci-archive:" + archivePath
}

// Rebase points the running system at the given image reference. It
// blocks until rpm-ostree exits; a non-zero exit is a hard failure and
// nothing already committed by the caller is rolled back here.
func (c *Client) Rebase(ctx context.Context, imageRef string) error {
	if _, err := exec.LookPath(c.Binary); err != nil {
		return fmt.Errorf("%w: %v", ErrRPMOstreeNotFound, err)
	}

	c.logger.Info("rebasing system", "ref", imageRef)

	cmd := exec.CommandContext(ctx, c.Binary, "rebase", imageRef)
	cmd.Stdout = logging.NewWriter(c.logger)
	cmd.Stderr = logging.NewWriter(c.logger)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("rpm-ostree rebase failed: %w", err)
	}
	return nil
}
