package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/skgd-labs/skgd/internal/platform"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// excludedNames are never copied out of a template tree.
var excludedNames = map[string]bool{
	".DS_Store":   true,
	"__pycache__": true,
	".git":        true,
}

// CopyFile copies a single template file to dst, creating parent
// directories. Shell scripts are made executable.
func (s *Source) CopyFile(name, dst string) error {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", name, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dst, err)
	}
	if err := os.WriteFile(dst, data, filePerm); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	if IsShellScript(name) {
		if err := platform.MakeExecutable(dst); err != nil {
			return fmt.Errorf("marking %s executable: %w", dst, err)
		}
	}
	return nil
}

// CopyDir recursively copies the template directory dir into dst. When
// overwrite is false, files already present in dst are left alone. It
// returns the slash-separated paths (relative to dst) that were written.
func (s *Source) CopyDir(dir, dst string, overwrite bool) ([]string, error) {
	var written []string
	err := fs.WalkDir(s.fsys, dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if shouldExclude(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(p, dir), "/")
		target := filepath.Join(dst, filepath.FromSlash(rel))

		if d.IsDir() {
			if err := os.MkdirAll(target, dirPerm); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			// Skip symlinks and other special files.
			return nil
		}
		if !overwrite && fileExists(target) {
			return nil
		}
		if err := s.CopyFile(p, target); err != nil {
			return err
		}
		written = append(written, rel)
		return nil
	})
	if err != nil {
		return written, fmt.Errorf("copying %s to %s: %w", dir, dst, err)
	}
	return written, nil
}

// ReplaceDir removes dst and copies the template directory dir in its
// place, guaranteeing dst mirrors the template exactly.
func (s *Source) ReplaceDir(dir, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		if err := os.RemoveAll(dst); err != nil {
			return fmt.Errorf("removing existing %s: %w", dst, err)
		}
	}
	_, err := s.CopyDir(dir, dst, true)
	return err
}

// IsShellScript reports whether name is a POSIX shell script.
func IsShellScript(name string) bool {
	return path.Ext(name) == ".sh"
}

func shouldExclude(name string) bool {
	return excludedNames[name]
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
