package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"energy_predictor/internal/model"
)

type staged struct {
	target string
	temp   string
	backup string // previous target content, set during Commit
}

// Artifacts stages output files next to their targets and moves them into
// place together on Commit. Nothing is visible at a target path until every
// staged write has succeeded.
type Artifacts struct {
	files []staged

	// rename is os.Rename unless replaced in tests.
	rename func(oldpath, newpath string) error
}

// Stage writes an artifact to a temporary file beside path.
// On failure every file staged so far is discarded.
func (a *Artifacts) Stage(path string, write func(io.Writer) error) error {
	if err := a.stage(path, write); err != nil {
		a.Discard()
		return fmt.Errorf("%w: %s: %w", model.ErrPersistence, path, err)
	}
	return nil
}

func (a *Artifacts) stage(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	if err := write(f); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}

	a.files = append(a.files, staged{target: path, temp: f.Name()})
	return nil
}

// Commit moves every staged file over its target. Existing targets are first
// moved aside; if any move fails, the targets already replaced get their
// previous content back and the staged files are discarded.
func (a *Artifacts) Commit() error {
	rename := a.rename
	if rename == nil {
		rename = os.Rename
	}

	for i := range a.files {
		s := &a.files[i]
		if _, err := os.Lstat(s.target); err != nil {
			continue
		}
		backup := s.temp + ".bak"
		if err := rename(s.target, backup); err != nil {
			a.rollback(rename, 0)
			return fmt.Errorf("%w: %s: %w", model.ErrPersistence, s.target, err)
		}
		s.backup = backup
	}

	for i, s := range a.files {
		if err := rename(s.temp, s.target); err != nil {
			a.rollback(rename, i)
			return fmt.Errorf("%w: %s: %w", model.ErrPersistence, s.target, err)
		}
	}

	for _, s := range a.files {
		if s.backup != "" {
			os.Remove(s.backup)
		}
	}
	a.files = nil
	return nil
}

// rollback undoes a partial Commit in which the first committed files
// were already moved into place.
func (a *Artifacts) rollback(rename func(string, string) error, committed int) {
	for i, s := range a.files {
		if i < committed {
			os.Remove(s.target)
		}
		if s.backup != "" {
			rename(s.backup, s.target)
		}
	}
	a.Discard()
}

// Discard removes all staged temp files.
func (a *Artifacts) Discard() {
	for _, s := range a.files {
		os.Remove(s.temp)
	}
	a.files = nil
}

// Paths returns the target paths currently staged.
func (a *Artifacts) Paths() []string {
	paths := make([]string, len(a.files))
	for i, s := range a.files {
		paths[i] = s.target
	}
	return paths
}
