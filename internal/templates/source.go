package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed content
var contentFS embed.FS

// CommonDir holds language-independent bundles such as skills.
const CommonDir = "common"

// Source is a read-only template tree. Paths are slash-separated and
// relative to the tree root: "<lang>/claude/commands", "common/skills", ...
type Source struct {
	fsys fs.FS
}

// New wraps an arbitrary fs.FS as a template source.
func New(fsys fs.FS) *Source {
	return &Source{fsys: fsys}
}

// Embedded returns the template tree compiled into the binary.
func Embedded() *Source {
	sub, err := fs.Sub(contentFS, "content")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(fmt.Sprintf("templates: embedded content missing: %v", err))
	}
	return New(sub)
}

// FS exposes the underlying filesystem.
func (s *Source) FS() fs.FS { return s.fsys }

// CommandsDir is where the workflow command files for lang live.
func CommandsDir(lang string) string { return path.Join(lang, "claude", "commands") }

// DataDir is where the reference-data files for lang live.
func DataDir(lang string) string { return path.Join(lang, "claude", "data") }

// WorkspaceDir is the template counterpart of a project's .skgd directory.
func WorkspaceDir(lang string) string { return path.Join(lang, "skgd") }

// SkillsDir holds one sub-directory per skill bundle.
func SkillsDir() string { return path.Join(CommonDir, "skills") }

// Exists reports whether name is present in the source.
func (s *Source) Exists(name string) bool {
	_, err := fs.Stat(s.fsys, name)
	return err == nil
}

// Glob returns the names matching pattern, sorted.
func (s *Source) Glob(pattern string) ([]string, error) {
	matches, err := fs.Glob(s.fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("matching %s: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Dirs returns the names of the immediate sub-directories of dir.
// A missing dir yields an empty list.
func (s *Source) Dirs(dir string) ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, dir)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && !shouldExclude(e.Name()) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Languages lists the language trees available in the source.
func (s *Source) Languages() []string {
	dirs, _ := s.Dirs(".")
	var langs []string
	for _, d := range dirs {
		if d != CommonDir {
			langs = append(langs, d)
		}
	}
	return langs
}
