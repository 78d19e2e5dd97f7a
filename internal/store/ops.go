package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zerolayer/zerolayer/internal/naming"
)

// Builder produces an archive file at target from the build sources in
// sourceDir. Implementations block until the external tool exits; no
// timeout is imposed beyond what ctx carries.
type Builder interface {
	Build(ctx context.Context, sourceDir, target string, buildArgs map[string]string) error
}

// BuildOptions carries the inputs for one build operation.
type BuildOptions struct {
	// SourceDir is the directory holding the Containerfile.
	SourceDir string
	// BuildArgs are key/value arguments handed to the builder.
	BuildArgs map[string]string
	// Now seeds identifier generation; the zero value means time.Now.
	// Tests pin it for reproducible identifiers.
	Now time.Time
}

// Build creates the store directory if needed, runs the external
// builder to produce a new archive, and repoints the current pointer at
// it. Builder failure aborts before any pointer mutation, leaving the
// store unchanged. An identifier collision with an existing environment
// overwrites that environment's file; seeds include wall-clock time so
// this only happens for builds within the same instant.
func (s *Store) Build(ctx context.Context, mode Mode, builder Builder, opts BuildOptions) (Environment, error) {
	seed := opts.Now
	if seed.IsZero() {
		seed = time.Now()
	}

	id := naming.Generate(seed.String())
	env := Environment{ID: id, Path: s.join(naming.Encode(id))}

	if mode.DryRun() {
		s.logger.Info("would create store directory", "dir", s.dir)
		s.logger.Info("would build archive", "target", env.Path, "source", opts.SourceDir)
		s.logger.Info("would repoint current environment", "target", env.Path)
		return env, nil
	}

	if _, err := os.Stat(s.dir); errors.Is(err, os.ErrNotExist) {
		s.logger.Info("creating store directory", "dir", s.dir)
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return Environment{}, fmt.Errorf("create store directory %q: %w", s.dir, err)
		}
	}

	s.logger.Info("building environment archive", "target", env.Path, "source", opts.SourceDir)
	if err := builder.Build(ctx, opts.SourceDir, env.Path, opts.BuildArgs); err != nil {
		return Environment{}, fmt.Errorf("build environment: %w", err)
	}

	info, err := os.Stat(env.Path)
	if err != nil {
		return Environment{}, fmt.Errorf("builder produced no archive at %q: %w", env.Path, err)
	}
	env.Size = info.Size()
	env.ModTime = info.ModTime()

	if err := s.Repoint(mode, env); err != nil {
		return Environment{}, err
	}
	return env, nil
}

// Switch repoints the current pointer at the environment with the given
// identifier token. An unknown token is a hard failure that leaves the
// pointer and every archive untouched. Switch never deletes files.
func (s *Store) Switch(mode Mode, token string) (Environment, error) {
	env, err := s.Find(token)
	if err != nil {
		return Environment{}, err
	}
	if err := s.Repoint(mode, env); err != nil {
		return Environment{}, err
	}
	return env, nil
}

// Delete removes the environment named by id. Deleting the reserved
// current identifier removes only the pointer link, never the file it
// targets; the target stays enumerable under its own numbered name.
func (s *Store) Delete(mode Mode, id naming.Identifier) error {
	if id.IsCurrent() {
		return s.Unset(mode)
	}

	env, err := s.Find(id.String())
	if err != nil {
		return err
	}

	if mode.DryRun() {
		s.logger.Info("would delete environment", "id", id.String(), "path", env.Path)
		return nil
	}

	if err := os.Remove(env.Path); err != nil {
		return fmt.Errorf("delete environment %q: %w", id.String(), err)
	}
	s.logger.Info("deleted environment", "id", id.String(), "path", env.Path)
	return nil
}

// DeleteFailure records one environment a bulk delete could not remove.
type DeleteFailure struct {
	Environment Environment
	Err         error
}

// DeleteReport aggregates the outcome of a bulk delete. A failure on one
// environment does not abort the rest; callers must inspect Failed.
type DeleteReport struct {
	Removed []Environment
	Failed  []DeleteFailure
}

// Err summarizes the report as a single error, nil when everything was
// removed.
func (r DeleteReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("failed to delete %d of %d environments", len(r.Failed), len(r.Failed)+len(r.Removed))
}

// DeleteAll removes every enumerable environment file. When keepCurrent
// is true the archive targeted by the current pointer survives along
// with the pointer itself; otherwise the target is removed too and the
// pointer is unset so it cannot dangle.
func (s *Store) DeleteAll(mode Mode, keepCurrent bool) (DeleteReport, error) {
	listing, err := s.List(false)
	if err != nil {
		return DeleteReport{}, err
	}

	currentTarget, err := s.Resolve()
	if err != nil && !errors.Is(err, ErrCurrentUnset) {
		return DeleteReport{}, err
	}

	var report DeleteReport
	removedCurrentTarget := false
	for _, env := range listing.Environments {
		if isSamePath(env.Path, currentTarget) {
			if keepCurrent {
				s.logger.Info("keeping current environment", "id", env.ID.String(), "path", env.Path)
				continue
			}
			removedCurrentTarget = true
		}

		if mode.DryRun() {
			s.logger.Info("would delete environment", "id", env.ID.String(), "path", env.Path)
			report.Removed = append(report.Removed, env)
			continue
		}

		if err := os.Remove(env.Path); err != nil {
			report.Failed = append(report.Failed, DeleteFailure{Environment: env, Err: err})
			s.logger.Warn("failed to delete environment", "id", env.ID.String(), "error", err)
			continue
		}
		report.Removed = append(report.Removed, env)
	}

	if removedCurrentTarget {
		if err := s.Unset(mode); err != nil {
			return report, err
		}
	}

	return report, nil
}

// isSamePath compares two paths after normalizing to absolute form.
func isSamePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

// join builds a path inside the store directory.
func (s *Store) join(name string) string {
	return filepath.Join(s.dir, name)
}
