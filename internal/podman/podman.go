// Package podman invokes the podman CLI to build boot environment
// archives from a Containerfile directory.
package podman

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"

	"github.com/zerolayer/zerolayer/internal/logging"
)

// ErrPodmanNotFound reports that the podman binary is not on PATH.
var ErrPodmanNotFound = errors.New("podman not found in PATH")

// Client wraps podman execution for oci-archive builds.
type Client struct {
	// Binary is the podman executable name or path.
	Binary string
	// File optionally names a Containerfile inside the source directory.
	File   string
	logger *slog.Logger
}

// NewClient constructs a podman client logging through the given logger.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{Binary: "podman", logger: logger}
}

// Build runs podman build against sourceDir, writing the image as an
// oci-archive at target. It blocks until podman exits; a hung build
// hangs the operation, no timeout is imposed here. A missing binary is
// reported as ErrPodmanNotFound; a non-zero exit is a hard failure.
func (c *Client) Build(ctx context.Context, sourceDir, target string, buildArgs map[string]string) error {
	if _, err := exec.LookPath(c.Binary); err != nil {
		return fmt.Errorf("%w: %v", ErrPodmanNotFound, err)
	}

	args := BuildCommandArgs(sourceDir, target, c.File, buildArgs)
	c.logger.Info("running podman build", "args", args)

	cmd := exec.CommandContext(ctx, c.Binary, args...)
	cmd.Stdout = logging.NewWriter(c.logger)
	cmd.Stderr = logging.NewWriter(c.logger)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("podman build failed: %w", err)
	}
	return nil
}

// BuildCommandArgs returns the argument vector for one build. Build
// arguments are emitted in sorted key order so the command line is
// deterministic.
func BuildCommandArgs(sourceDir, target, file string, buildArgs map[string]string) []string {
	args := []string{"build"}
	if file != "" {
		args = append(args, "-f", file)
	}

	keys := make([]string, 0, len(buildArgs))
	for k := range buildArgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--build-arg", fmt.Sprintf("%s=%s", k, buildArgs[k]))
	}

	return append(args, "-t", "oci-archive:"+target, sourceDir)
}
