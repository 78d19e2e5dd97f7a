// Package store implements the boot environment store: a single
// directory of immutable archive files plus one mutable "current"
// symlink designating the active environment.
//
// The store provides catalog queries (List, Find), the current-pointer
// protocol (Resolve, Repoint, Unset) and the state transitions exposed
// to the CLI (Build, Switch, Delete, DeleteAll). It never prompts or
// formats user output; callers own presentation.
//
// No cross-process locking is provided. Two concurrent builds can both
// succeed with the last repoint winning, and repoint itself is a
// two-step remove-then-link sequence: a crash between the steps leaves
// the pointer unset until the next successful build or switch. Both
// windows are accepted limitations of the single-operator design.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/zerolayer/zerolayer/internal/naming"
)

var (
	// ErrStoreNotFound reports a missing store directory.
	ErrStoreNotFound = errors.New("store directory does not exist")
	// ErrNotFound reports an identifier with no matching environment.
	ErrNotFound = errors.New("environment not found")
	// ErrCurrentUnset reports an absent current pointer.
	ErrCurrentUnset = errors.New("current environment is not set")
)

// Mode selects whether store operations mutate the filesystem or only
// log what they would do. It is passed explicitly to every mutating
// operation; there is no ambient dry-run state.
type Mode int

const (
	// ModeApply performs operations for real.
	ModeApply Mode = iota
	// ModeDryRun logs intended changes without touching the store.
	ModeDryRun
)

// DryRun reports whether the mode suppresses filesystem mutations.
func (m Mode) DryRun() bool {
	return m == ModeDryRun
}

// Environment is one archived boot environment inside the store.
// Size and ModTime are read from the filesystem at enumeration time,
// never cached.
type Environment struct {
	ID      naming.Identifier
	Path    string
	Size    int64
	ModTime time.Time
}

// Name returns the file name of the environment inside the store.
func (e Environment) Name() string {
	return filepath.Base(e.Path)
}

// InvalidEntry records a directory entry that matches the artifact
// family but fails name validation. Such entries are surfaced, never
// silently treated as environments.
type InvalidEntry struct {
	Name   string
	Reason error
}

// Listing is the classified view of a store directory.
type Listing struct {
	Environments []Environment
	Invalid      []InvalidEntry
}

// Store provides catalog queries and state transitions over one
// directory of boot environment archives.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New constructs a Store rooted at dir.
func New(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// Dir returns the store directory path.
func (s *Store) Dir() string {
	return s.dir
}

// List enumerates the store directory and classifies its entries.
// Directories and files outside the artifact family are skipped
// silently; family files failing name validation are reported in
// Listing.Invalid. The current pointer is included only when
// includeCurrent is true. Order follows directory iteration and is not
// defined beyond that.
//
// A missing store directory is a fatal condition (ErrStoreNotFound),
// not an empty listing.
func (s *Store) List(includeCurrent bool) (Listing, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Listing{}, fmt.Errorf("%w: %q", ErrStoreNotFound, s.dir)
		}
		return Listing{}, fmt.Errorf("read store directory %q: %w", s.dir, err)
	}

	var listing Listing
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !naming.MatchesFamily(name) {
			continue
		}

		decoded, err := naming.Decode(name, naming.Strict)
		if err != nil {
			listing.Invalid = append(listing.Invalid, InvalidEntry{Name: name, Reason: err})
			continue
		}

		if decoded.ID.IsCurrent() && !includeCurrent {
			continue
		}

		path := filepath.Join(s.dir, name)
		env := Environment{ID: decoded.ID, Path: path}

		// Stat follows the current symlink so sizes reflect the target
		// archive; a dangling pointer falls back to the link itself.
		info, err := os.Stat(path)
		if err != nil {
			info, err = entry.Info()
		}
		if err == nil {
			env.Size = info.Size()
			env.ModTime = info.ModTime()
		}

		listing.Environments = append(listing.Environments, env)
	}

	return listing, nil
}

// Find returns the environment whose generated identifier token equals
// token. The reserved current token is not addressable through Find;
// resolve the pointer instead.
func (s *Store) Find(token string) (Environment, error) {
	listing, err := s.List(false)
	if err != nil {
		return Environment{}, err
	}
	for _, env := range listing.Environments {
		if env.ID.String() == token {
			return env, nil
		}
	}
	return Environment{}, fmt.Errorf("%w: %q", ErrNotFound, token)
}
