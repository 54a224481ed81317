package migrate

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/skgd-labs/skgd/internal/templates"
	"github.com/skgd-labs/skgd/internal/workspace"
)

const testTarget = "3.6"

func testSource() *templates.Source {
	file := func(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s), Mode: 0o644} }
	return templates.New(fstest.MapFS{
		"en/claude/commands/init.md":            file("# init v3\n"),
		"en/claude/commands/spec.md":            file("# spec v3\n"),
		"en/claude/commands/plan.md":            file("# plan v3\n"),
		"en/claude/data/genre-patterns.md":      file("# genres\n"),
		"en/claude/data/art-styles.md":          file("# styles\n"),
		"en/skgd/i18n/messages.yaml":            file("hello: Hello\n"),
		"en/skgd/templates/learnings-core.md":   file("# Core learnings\n"),
		"en/skgd/templates/session-context.md":  file("# Session\n"),
		"en/skgd/memory/assets-catalog.md":      file("# Assets\n"),
		"en/skgd/scripts/check-asset-mcps.sh":   file("#!/bin/sh\n"),
		"en/skgd/scripts/check-asset-mcps.ps1":  file("Write-Host ok\n"),
		"en/skgd/agents/scout.md":               file("# scout v3\n"),
		"fr/claude/commands/init.md":            file("# init fr\n"),
		"common/skills/unity-patterns/SKILL.md": file("# unity\n"),
		"common/skills/godot-patterns/SKILL.md": file("# godot\n"),
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// newG1 builds a baseline workspace with some user content.
func newG1(t *testing.T) workspace.Workspace {
	t.Helper()
	ws := workspace.New(t.TempDir())
	writeFile(t, ws.Marker(workspace.ConfigFile), "version: \"1.x\"\nproject:\n  name: demo\ncustom: keep\n")
	writeFile(t, ws.Path(workspace.CommandsRel, "init.md"), "# init v1\n")
	writeFile(t, ws.Path(workspace.BriefRel), "# My game\n")
	writeFile(t, ws.Path(workspace.SpecsRel, "001-core", "spec.md"), "# Core\n")
	writeFile(t, ws.Marker(workspace.LearningsFile), "- learned\n")
	writeFile(t, ws.Marker(workspace.StateFile), "sprint: 3\n")
	writeFile(t, ws.Marker(workspace.RoadmapFile), "milestones: []\n")
	return ws
}

// newG2 builds a workspace carrying the localization markers.
func newG2(t *testing.T) workspace.Workspace {
	t.Helper()
	ws := newG1(t)
	writeFile(t, ws.Marker(workspace.ConfigFile), "version: \"2.0\"\nproject:\n  name: demo\nengine: unity\ncustom: keep\n")
	writeFile(t, ws.Marker(workspace.I18nDir, "messages.yaml"), "hello: Hello\n")
	writeFile(t, ws.Marker(workspace.SessionContextFile), "# my session\n")
	return ws
}

// newG3 builds a workspace at the asset generation stamped with version.
func newG3(t *testing.T, version string) workspace.Workspace {
	t.Helper()
	ws := newG2(t)
	writeFile(t, ws.Marker(workspace.ConfigFile), "version: \""+version+"\"\nproject:\n  name: demo\nengine: unity\n"+
		"mcp:\n  assets:\n    profile: pixel-art\n    pixellab:\n      enabled: true\n      status: ok\n")
	writeFile(t, ws.Marker(workspace.AssetsCatalogFile), "# my assets\n")
	return ws
}

// snapshotTree maps every regular file under root to its contents.
func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		out[filepath.ToSlash(rel)] = readFile(t, p)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}
