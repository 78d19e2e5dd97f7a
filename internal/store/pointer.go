package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zerolayer/zerolayer/internal/naming"
)

// CurrentPath returns the fixed, well-known path of the current pointer
// link inside the store.
func (s *Store) CurrentPath() string {
	return filepath.Join(s.dir, naming.Encode(naming.Current()))
}

// Resolve reads the current pointer target. ErrCurrentUnset is returned
// when no pointer exists, which is also the intermediate state left by
// a crash between the two repoint steps.
func (s *Store) Resolve() (string, error) {
	target, err := os.Readlink(s.CurrentPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrCurrentUnset
		}
		return "", fmt.Errorf("read current pointer %q: %w", s.CurrentPath(), err)
	}
	return target, nil
}

// Repoint makes target the current environment. The existing pointer is
// removed first (an already-missing link counts as success), then a new
// link is created at the fixed pointer path. The two steps are not
// atomic: a crash in between leaves the pointer unset, never dangling
// at a removed file.
func (s *Store) Repoint(mode Mode, target Environment) error {
	link := s.CurrentPath()

	if mode.DryRun() {
		s.logger.Info("would repoint current environment", "target", target.Path, "link", link)
		return nil
	}

	if err := os.Remove(link); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove current pointer %q: %w", link, err)
	}

	targetPath, err := filepath.Abs(target.Path)
	if err != nil {
		return fmt.Errorf("resolve target path %q: %w", target.Path, err)
	}

	if err := os.Symlink(targetPath, link); err != nil {
		return fmt.Errorf("link %q to %q: %w", link, targetPath, err)
	}

	s.logger.Info("switched current environment", "id", target.ID.String(), "target", targetPath)
	return nil
}

// Unset removes the current pointer link without touching the file it
// targets. A missing pointer is a no-op.
func (s *Store) Unset(mode Mode) error {
	link := s.CurrentPath()

	if mode.DryRun() {
		s.logger.Info("would unset current environment", "link", link)
		return nil
	}

	if err := os.Remove(link); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove current pointer %q: %w", link, err)
	}
	return nil
}
