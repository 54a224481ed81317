package templates

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func testSource() *Source {
	return New(fstest.MapFS{
		"en/skgd/i18n/messages.yaml":        {Data: []byte("language: en\n")},
		"en/skgd/scripts/check.sh":          {Data: []byte("#!/bin/sh\n")},
		"en/skgd/scripts/check.ps1":         {Data: []byte("Write-Host ok\n")},
		"en/skgd/.DS_Store":                 {Data: []byte("junk")},
		"en/claude/commands/init.md":        {Data: []byte("# init\n")},
		"common/skills/alpha/SKILL.md":      {Data: []byte("alpha\n")},
		"common/skills/beta/SKILL.md":       {Data: []byte("beta\n")},
		"common/skills/beta/ref/extra.md":   {Data: []byte("extra\n")},
		"fr/claude/commands/init.md":        {Data: []byte("# init fr\n")},
		"common/skills/__pycache__/x.pyc":   {Data: []byte("x")},
		"common/skills/alpha/__pycache__/y": {Data: []byte("y")},
	})
}

func TestCopyDirFresh(t *testing.T) {
	dst := filepath.Join(t.TempDir(), ".skgd")
	src := testSource()

	written, err := src.CopyDir(WorkspaceDir("en"), dst, false)
	if err != nil {
		t.Fatalf("CopyDir() error: %v", err)
	}

	want := []string{"i18n/messages.yaml", "scripts/check.ps1", "scripts/check.sh"}
	if diff := cmp.Diff(want, written); diff != "" {
		t.Errorf("written mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(dst, ".DS_Store")); !os.IsNotExist(err) {
		t.Error(".DS_Store should be excluded")
	}
	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(dst, "scripts", "check.sh"))
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm()&0o111 == 0 {
			t.Errorf("check.sh mode = %o, want executable", info.Mode().Perm())
		}
	}
}

func TestCopyDirKeepsExisting(t *testing.T) {
	dst := filepath.Join(t.TempDir(), ".skgd")
	existing := filepath.Join(dst, "i18n", "messages.yaml")
	if err := os.MkdirAll(filepath.Dir(existing), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(existing, []byte("custom\n"), 0644); err != nil {
		t.Fatal(err)
	}

	written, err := testSource().CopyDir(WorkspaceDir("en"), dst, false)
	if err != nil {
		t.Fatalf("CopyDir() error: %v", err)
	}
	for _, w := range written {
		if w == "i18n/messages.yaml" {
			t.Error("existing file should not be rewritten")
		}
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "custom\n" {
		t.Errorf("existing content = %q, want %q", data, "custom\n")
	}
}

func TestReplaceDirRemovesStaleFiles(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "beta")
	stale := filepath.Join(dst, "stale.md")
	if err := os.MkdirAll(dst, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := testSource().ReplaceDir("common/skills/beta", dst); err != nil {
		t.Fatalf("ReplaceDir() error: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file should be removed")
	}
	data, err := os.ReadFile(filepath.Join(dst, "ref", "extra.md"))
	if err != nil {
		t.Fatalf("nested file missing: %v", err)
	}
	if string(data) != "extra\n" {
		t.Errorf("nested content = %q", data)
	}
}

func TestDirsAndLanguages(t *testing.T) {
	src := testSource()

	skills, err := src.Dirs(SkillsDir())
	if err != nil {
		t.Fatalf("Dirs() error: %v", err)
	}
	if diff := cmp.Diff([]string{"alpha", "beta"}, skills); diff != "" {
		t.Errorf("skills mismatch (-want +got):\n%s", diff)
	}

	missing, err := src.Dirs("nope")
	if err != nil || len(missing) != 0 {
		t.Errorf("Dirs(missing) = %v, %v; want empty, nil", missing, err)
	}

	if diff := cmp.Diff([]string{"en", "fr"}, src.Languages()); diff != "" {
		t.Errorf("languages mismatch (-want +got):\n%s", diff)
	}
}

func TestEmbeddedTreeShape(t *testing.T) {
	src := Embedded()
	for _, lang := range []string{"en", "fr"} {
		cmds, err := src.Glob(CommandsDir(lang) + "/*.md")
		if err != nil {
			t.Fatal(err)
		}
		if len(cmds) == 0 {
			t.Errorf("%s: no command templates embedded", lang)
		}
		for _, name := range []string{
			WorkspaceDir(lang) + "/i18n",
			WorkspaceDir(lang) + "/memory/assets-catalog.md",
			WorkspaceDir(lang) + "/memory/session-context.md",
			WorkspaceDir(lang) + "/templates/learnings-core.md",
			WorkspaceDir(lang) + "/scripts/check-asset-mcps.sh",
		} {
			if !src.Exists(name) {
				t.Errorf("embedded template %s missing", name)
			}
		}
	}
}
