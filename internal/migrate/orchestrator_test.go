package migrate

import (
	"errors"
	"os"
	"path"
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.yaml.in/yaml/v3"

	"github.com/skgd-labs/skgd/internal/templates"
	"github.com/skgd-labs/skgd/internal/workspace"
)

var errInjected = errors.New("injected failure")

type failingStep struct{ id StepID }

func (f failingStep) ID() StepID { return f.id }

func (f failingStep) Apply(workspace.Workspace, Params) (*Summary, error) {
	sum := newSummary(f.id)
	return sum, &StepError{Step: f.id, Summary: sum, Err: errInjected}
}

func defaultParams() Params {
	return Params{
		Language:       "en",
		Engine:         EngineUnity,
		ArtStyle:       "pixel-art",
		AssetProviders: []string{workspace.ProviderPixelLab},
		TargetVersion:  testTarget,
	}
}

func TestRunFreshDirectory(t *testing.T) {
	ws := workspace.New(t.TempDir())
	plan := Classify(workspace.Inspect(ws), testTarget)
	if plan.Outcome != OutcomeFresh {
		t.Fatalf("Outcome = %s, want fresh", plan.Outcome)
	}

	_, err := NewOrchestrator(testSource(), nil).Run(ws, plan, defaultParams())
	if !errors.Is(err, ErrMissingWorkspace) {
		t.Errorf("Run() error = %v, want ErrMissingWorkspace", err)
	}
	if entries, _ := os.ReadDir(ws.Root); len(entries) != 0 {
		t.Errorf("fresh directory was written to: %v", entries)
	}
}

func TestRunLocalizedToAssets(t *testing.T) {
	src := testSource()
	ws := newG2(t)

	plan := Classify(workspace.Inspect(ws), testTarget)
	if diff := cmp.Diff([]StepID{StepAssetPipeline}, plan.Steps); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}

	sums, err := NewOrchestrator(src, nil).Run(ws, plan, defaultParams())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(sums) != 1 {
		t.Fatalf("got %d summaries, want 1", len(sums))
	}

	commands, _ := src.Glob(path.Join(templates.CommandsDir("en"), "*.md"))
	sum := sums[0]
	if sum.CommandsUpdated != len(commands) {
		t.Errorf("CommandsUpdated = %d, want %d", sum.CommandsUpdated, len(commands))
	}
	if sum.FromVersion != "2.0" || sum.ToVersion != testTarget {
		t.Errorf("versions = %s → %s, want 2.0 → %s", sum.FromVersion, sum.ToVersion, testTarget)
	}

	if _, err := os.Stat(ws.Marker(workspace.AssetsCatalogFile)); err != nil {
		t.Errorf("asset catalog missing: %v", err)
	}
	cfg := workspace.LoadConfig(ws)
	if !cfg.HasAssets() {
		t.Fatal("config has no mcp.assets section")
	}
	if got := cfg.MCP.Assets.Profile; got == nil || *got != "pixel-art" {
		t.Errorf("profile = %v, want pixel-art", got)
	}
	if !cfg.MCP.Assets.PixelLab.IsEnabled() || cfg.MCP.Assets.Blender.IsEnabled() {
		t.Errorf("providers = blender:%v pixellab:%v, want pixellab only",
			cfg.MCP.Assets.Blender.IsEnabled(), cfg.MCP.Assets.PixelLab.IsEnabled())
	}
	if cfg.Version != testTarget {
		t.Errorf("version = %q, want %q", cfg.Version, testTarget)
	}
	if got := Detect(workspace.Inspect(ws)); got != G3 {
		t.Errorf("generation after upgrade = %s, want G3", got)
	}
}

func TestRunBaselineStopsAtFailingStep(t *testing.T) {
	ws := newG1(t)
	fp := workspace.Inspect(ws)
	if fp.Version != "1.x" {
		t.Fatalf("Version = %q, want 1.x", fp.Version)
	}
	plan := Classify(fp, testTarget)
	if len(plan.Steps) != 2 {
		t.Fatalf("plan has %d steps, want 2", len(plan.Steps))
	}

	o := NewOrchestrator(testSource(), nil)
	o.Register(failingStep{id: StepAssetPipeline})

	sums, err := o.Run(ws, plan, defaultParams())
	if err == nil {
		t.Fatal("Run() succeeded, want failure")
	}
	if !errors.Is(err, errInjected) {
		t.Errorf("error does not wrap the cause: %v", err)
	}

	var merr *MigrationError
	if !errors.As(err, &merr) {
		t.Fatalf("error is %T, want *MigrationError", err)
	}
	if merr.Step != StepAssetPipeline || merr.Index != 1 {
		t.Errorf("failed at %s (index %d), want %s (index 1)", merr.Step, merr.Index, StepAssetPipeline)
	}
	if len(sums) != 1 || sums[0].Step != StepLocalization {
		t.Fatalf("completed summaries = %+v, want only %s", sums, StepLocalization)
	}
	if diff := cmp.Diff(sums, merr.Completed); diff != "" {
		t.Errorf("Completed mismatch (-returned +error):\n%s", diff)
	}

	// The first step landed; the workspace is now G2 and can be resumed.
	if got := Detect(workspace.Inspect(ws)); got != G2 {
		t.Errorf("generation after partial run = %s, want G2", got)
	}
}

func TestRunUpToDateTouchesNothing(t *testing.T) {
	ws := newG3(t, testTarget)

	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	before := snapshotTree(t, ws.Root)
	for rel := range before {
		if err := os.Chtimes(ws.Path(rel), old, old); err != nil {
			t.Fatal(err)
		}
	}

	plan := Classify(workspace.Inspect(ws), testTarget)
	if plan.Outcome != OutcomeUpToDate || !plan.Empty() {
		t.Fatalf("plan = %+v, want up-to-date and empty", plan)
	}
	sums, err := NewOrchestrator(testSource(), nil).Run(ws, plan, defaultParams())
	if err != nil || sums != nil {
		t.Fatalf("Run() = %v, %v; want nil, nil", sums, err)
	}

	for rel := range before {
		info, err := os.Stat(ws.Path(rel))
		if err != nil {
			t.Fatal(err)
		}
		if !info.ModTime().Equal(old) {
			t.Errorf("%s modified: mtime %v", rel, info.ModTime())
		}
	}
	if diff := cmp.Diff(before, snapshotTree(t, ws.Root)); diff != "" {
		t.Errorf("tree changed (-before +after):\n%s", diff)
	}
}

func TestAssetPipelineIdempotent(t *testing.T) {
	ws := newG2(t)
	step := NewAssetPipelineStep(testSource(), nil)

	if _, err := step.Apply(ws, defaultParams()); err != nil {
		t.Fatalf("first Apply() error = %v", err)
	}
	first := snapshotTree(t, ws.Root)

	sum, err := step.Apply(ws, defaultParams())
	if err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}
	if diff := cmp.Diff(first, snapshotTree(t, ws.Root)); diff != "" {
		t.Errorf("second run changed the tree (-first +second):\n%s", diff)
	}
	if len(sum.Added) != 0 {
		t.Errorf("second run added %v", sum.Added)
	}
}

func TestFullUpgradeSummaries(t *testing.T) {
	ws := newG1(t)
	plan := Classify(workspace.Inspect(ws), testTarget)

	sums, err := NewOrchestrator(testSource(), nil).Run(ws, plan, defaultParams())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []*Summary{
		{
			Step: StepLocalization, From: G1, To: G2,
			FromVersion: "1.x", ToVersion: "2.0",
			CommandsUpdated: 3, SkillsUpdated: 2,
			Added: []string{
				".skgd/i18n/",
				".skgd/templates/learnings-core.md",
				".skgd/templates/session-context.md",
				".skgd/memory/learnings-core.md",
				".skgd/memory/session-context.md",
			},
			Preserved: []string{
				"docs/game-brief.md",
				"docs/specs/ (1 features)",
				".skgd/memory/learnings.md",
				".skgd/state.yaml (1 sections)",
				".skgd/roadmap.yaml",
			},
		},
		{
			Step: StepAssetPipeline, From: G2, To: G3,
			FromVersion: "2.0", ToVersion: testTarget,
			CommandsUpdated: 3, SkillsUpdated: 2, DataUpdated: 2,
			Added: []string{
				".skgd/memory/assets-catalog.md",
				".skgd/scripts/check-asset-mcps.ps1",
				".skgd/scripts/check-asset-mcps.sh",
				".skgd/state.yaml (assets section)",
				".skgd/config.yaml (mcp.assets section)",
			},
			Preserved: []string{
				"docs/game-brief.md",
				"docs/specs/ (1 features)",
				".skgd/memory/learnings.md",
				".skgd/memory/learnings-core.md",
				".skgd/state.yaml (1 sections)",
				".skgd/roadmap.yaml",
			},
		},
	}
	if diff := cmp.Diff(want, sums); diff != "" {
		t.Errorf("summaries mismatch (-want +got):\n%s", diff)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(ws.Marker(workspace.ScriptsDir, "check-asset-mcps.sh"))
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm()&0o111 == 0 {
			t.Errorf("script mode = %v, want executable", info.Mode().Perm())
		}
	}
}

func TestUpgradePreservesUserContent(t *testing.T) {
	ws := newG1(t)
	userFiles := []string{
		ws.Path(workspace.BriefRel),
		ws.Path(workspace.SpecsRel, "001-core", "spec.md"),
		ws.Marker(workspace.LearningsFile),
		ws.Marker(workspace.RoadmapFile),
	}
	before := make(map[string]string)
	for _, p := range userFiles {
		before[p] = readFile(t, p)
	}

	plan := Classify(workspace.Inspect(ws), testTarget)
	if _, err := NewOrchestrator(testSource(), nil).Run(ws, plan, defaultParams()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, p := range userFiles {
		if got := readFile(t, p); got != before[p] {
			t.Errorf("%s changed: %q → %q", p, before[p], got)
		}
	}
}

func TestUpgradeKeepsUnknownKeys(t *testing.T) {
	ws := newG1(t)
	plan := Classify(workspace.Inspect(ws), testTarget)
	if _, err := NewOrchestrator(testSource(), nil).Run(ws, plan, defaultParams()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var cfg map[string]any
	if err := yaml.Unmarshal([]byte(readFile(t, ws.Marker(workspace.ConfigFile))), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg["custom"] != "keep" {
		t.Errorf("custom = %v, want keep", cfg["custom"])
	}
	if project, _ := cfg["project"].(map[string]any); project["name"] != "demo" {
		t.Errorf("project = %v, want name demo", cfg["project"])
	}

	var state map[string]any
	if err := yaml.Unmarshal([]byte(readFile(t, ws.Marker(workspace.StateFile))), &state); err != nil {
		t.Fatal(err)
	}
	if state["sprint"] != 3 {
		t.Errorf("sprint = %v, want 3", state["sprint"])
	}
	if _, ok := state["assets"]; !ok {
		t.Error("state has no assets section")
	}
}

func TestAssetPipelineKeepsExistingAssetsConfig(t *testing.T) {
	ws := newG3(t, "3.0")
	if err := os.Remove(ws.Marker(workspace.AssetsCatalogFile)); err != nil {
		t.Fatal(err)
	}

	p := defaultParams()
	p.ArtStyle = "low-poly"
	sum, err := NewAssetPipelineStep(testSource(), nil).Apply(ws, p)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	for _, a := range sum.Added {
		if a == ".skgd/config.yaml (mcp.assets section)" {
			t.Error("existing mcp.assets section was replaced")
		}
	}
	cfg := workspace.LoadConfig(ws)
	if got := *cfg.MCP.Assets.Profile; got != "pixel-art" {
		t.Errorf("profile = %q, want pixel-art", got)
	}
	if cfg.MCP.Assets.PixelLab.Status != "ok" {
		t.Errorf("pixellab status = %q, want ok", cfg.MCP.Assets.PixelLab.Status)
	}
}

func TestRefreshLeavesAssetsAlone(t *testing.T) {
	ws := newG3(t, "3.0")
	writeFile(t, ws.Marker(workspace.AgentsDir, "scout.md"), "# scout v2\n")

	plan := Classify(workspace.Inspect(ws), testTarget)
	sums, err := NewOrchestrator(testSource(), nil).Run(ws, plan, defaultParams())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(sums) != 1 || sums[0].Step != StepRefresh {
		t.Fatalf("summaries = %+v, want one refresh", sums)
	}
	if sums[0].AgentsUpdated != 1 {
		t.Errorf("AgentsUpdated = %d, want 1", sums[0].AgentsUpdated)
	}
	if got := readFile(t, ws.Marker(workspace.AgentsDir, "scout.md")); got != "# scout v3\n" {
		t.Errorf("agent = %q, want refreshed", got)
	}
	if got := readFile(t, ws.Marker(workspace.AssetsCatalogFile)); got != "# my assets\n" {
		t.Errorf("catalog = %q, want untouched", got)
	}
	if got := readFile(t, ws.Marker(workspace.SessionContextFile)); got != "# my session\n" {
		t.Errorf("session context = %q, want untouched", got)
	}

	cfg := workspace.LoadConfig(ws)
	if cfg.Version != testTarget {
		t.Errorf("version = %q, want %q", cfg.Version, testTarget)
	}
	if cfg.MCP.Assets.PixelLab.Status != "ok" {
		t.Errorf("pixellab status = %q, want ok", cfg.MCP.Assets.PixelLab.Status)
	}
}

func TestStepFailureReportsPartialSummary(t *testing.T) {
	ws := newG2(t)
	// A file where the skills directory should be makes the skill refresh fail.
	writeFile(t, ws.Path(workspace.SkillsRel), "not a directory")

	plan := Classify(workspace.Inspect(ws), testTarget)
	sums, err := NewOrchestrator(testSource(), nil).Run(ws, plan, defaultParams())
	if len(sums) != 0 {
		t.Errorf("completed = %+v, want none", sums)
	}

	var merr *MigrationError
	if !errors.As(err, &merr) {
		t.Fatalf("error = %v, want *MigrationError", err)
	}
	var serr *StepError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want to wrap *StepError", err)
	}
	if merr.Partial == nil || merr.Partial.CommandsUpdated != 3 {
		t.Errorf("partial = %+v, want 3 commands updated", merr.Partial)
	}
	if got := Detect(workspace.Inspect(ws)); got != G2 {
		t.Errorf("generation after failure = %s, want G2", got)
	}
}

func TestRunStopsOnUnreadableConfig(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("file modes do not restrict reads here")
	}
	ws := newG2(t)
	cfgPath := ws.Marker(workspace.ConfigFile)
	writeFile(t, cfgPath, "version: \"2.0\"\nproject:\n  name: demo\nengine: godot\nteam: core-devs\n")
	before := snapshotTree(t, ws.Root)
	if err := os.Chmod(cfgPath, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(cfgPath, 0o644) })

	plan := Classify(workspace.Inspect(ws), testTarget)
	_, err := NewOrchestrator(testSource(), nil).Run(ws, plan, defaultParams())

	var merr *MigrationError
	if !errors.As(err, &merr) {
		t.Fatalf("error = %v, want *MigrationError", err)
	}
	if merr.Step != StepAssetPipeline {
		t.Errorf("failed step = %s, want %s", merr.Step, StepAssetPipeline)
	}
	if err := os.Chmod(cfgPath, 0o644); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(before, snapshotTree(t, ws.Root)); diff != "" {
		t.Errorf("tree changed (-before +after):\n%s", diff)
	}
}

func TestRunRejectsUnknownLanguageBeforeWriting(t *testing.T) {
	ws := newG1(t)
	before := snapshotTree(t, ws.Root)

	p := defaultParams()
	p.Language = "de"
	plan := Classify(workspace.Inspect(ws), testTarget)
	if _, err := NewOrchestrator(testSource(), nil).Run(ws, plan, p); err == nil {
		t.Fatal("Run() succeeded with an unknown language")
	}
	if diff := cmp.Diff(before, snapshotTree(t, ws.Root)); diff != "" {
		t.Errorf("tree changed (-before +after):\n%s", diff)
	}
}

func TestApplyEngineConfig(t *testing.T) {
	existing := workspace.NewMCPStatus(true)
	existing.Status = "ok"

	t.Run("keeps selected engine entry", func(t *testing.T) {
		cfg := &workspace.Config{MCP: &workspace.MCPSection{Engine: &workspace.EngineMCP{Unity: existing}}}
		applyEngineConfig(cfg, Params{Language: "fr", Engine: EngineUnity})

		em := cfg.MCP.Engine
		if em.Unity != existing {
			t.Errorf("unity = %+v, want kept", em.Unity)
		}
		if em.GDAI.IsRequired() {
			t.Error("gdai required, want reset")
		}
		if cfg.Engine != EngineUnity || em.Active != EngineUnity || cfg.Language() != "fr" {
			t.Errorf("engine=%q active=%q language=%q", cfg.Engine, em.Active, cfg.Language())
		}
	})

	t.Run("resets other engine", func(t *testing.T) {
		cfg := &workspace.Config{
			User: &workspace.UserSection{Language: "en"},
			MCP:  &workspace.MCPSection{Engine: &workspace.EngineMCP{Unity: existing}},
		}
		applyEngineConfig(cfg, Params{Language: "fr", Engine: EngineGodot})

		em := cfg.MCP.Engine
		if em.Unity.IsRequired() || em.Unity.Status != workspace.StatusUnchecked {
			t.Errorf("unity = %+v, want reset", em.Unity)
		}
		if !em.GDAI.IsRequired() {
			t.Error("gdai not required")
		}
		if cfg.Language() != "en" {
			t.Errorf("language = %q, want existing en kept", cfg.Language())
		}
	})
}

func TestEmbeddedCommandCount(t *testing.T) {
	src := templates.Embedded()
	ws := newG2(t)

	sums, err := NewOrchestrator(src, nil).Run(ws, Classify(workspace.Inspect(ws), testTarget), defaultParams())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	commands, _ := src.Glob(path.Join(templates.CommandsDir("en"), "*.md"))
	if len(commands) == 0 {
		t.Fatal("embedded source has no commands")
	}
	if sums[0].CommandsUpdated != len(commands) {
		t.Errorf("CommandsUpdated = %d, want %d", sums[0].CommandsUpdated, len(commands))
	}
}
