package migrate

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/skgd-labs/skgd/internal/templates"
	"github.com/skgd-labs/skgd/internal/workspace"
)

// Step is one generation transition.
type Step interface {
	ID() StepID
	// Apply runs the step against ws. It is safe to call again on a
	// workspace it has already been applied to. On failure the returned
	// error is a *StepError carrying what was done so far.
	Apply(ws workspace.Workspace, p Params) (*Summary, error)
}

// Params are the user choices a run applies. Language and Engine default
// to what the workspace already declares; ArtStyle and AssetProviders are
// only consulted when the assets section is created.
type Params struct {
	Language       string
	Engine         string
	ArtStyle       string
	AssetProviders []string
	TargetVersion  string
}

// Engines understood by the engine MCP section.
const (
	EngineUnity = "unity"
	EngineGodot = "godot"
)

// stepRun carries the state of one Apply call.
type stepRun struct {
	src *templates.Source
	ws  workspace.Workspace
	p   Params
	sum *Summary
	log *zap.Logger
}

func newStepRun(id StepID, src *templates.Source, ws workspace.Workspace, p Params, log *zap.Logger) *stepRun {
	if log == nil {
		log = zap.NewNop()
	}
	return &stepRun{
		src: src,
		ws:  ws,
		p:   p,
		sum: newSummary(id),
		log: log.With(zap.String("step", string(id))),
	}
}

func (r *stepRun) fail(err error) (*Summary, error) {
	r.log.Debug("step failed", zap.Error(err))
	return r.sum, &StepError{Step: r.sum.Step, Summary: r.sum, Err: err}
}

func (r *stepRun) added(rel string) {
	r.log.Debug("added", zap.String("path", rel))
	r.sum.Added = append(r.sum.Added, rel)
}

// snapshotPreserved records the user content that exists before the step
// touches anything.
func (r *stepRun) snapshotPreserved() {
	ws := r.ws
	var out []string
	if exists(ws.Path(workspace.BriefRel)) {
		out = append(out, workspace.BriefRel)
	}
	if n := workspace.CountSpecs(ws); n > 0 {
		out = append(out, fmt.Sprintf("%s/ (%d features)", workspace.SpecsRel, n))
	}
	for _, rel := range []string{
		workspace.LearningsFile,
		workspace.LearningsCoreFile,
		workspace.ConstitutionFile,
	} {
		if exists(ws.Marker(rel)) {
			out = append(out, workspace.MarkerRel(rel))
		}
	}
	if st := workspace.LoadState(ws); st.Exists() {
		if st.Corrupt() {
			out = append(out, workspace.MarkerRel(workspace.StateFile))
		} else {
			out = append(out, fmt.Sprintf("%s (%d sections)", workspace.MarkerRel(workspace.StateFile), st.Sections()))
		}
	}
	if exists(ws.Marker(workspace.RoadmapFile)) {
		out = append(out, workspace.MarkerRel(workspace.RoadmapFile))
	}
	r.sum.Preserved = out
}

// refreshCommands overwrites every workflow command file.
func (r *stepRun) refreshCommands() error {
	n, err := r.copyFlat(path.Join(templates.CommandsDir(r.p.Language), "*.md"), r.ws.Path(workspace.CommandsRel))
	r.sum.CommandsUpdated = n
	if err != nil {
		return fmt.Errorf("updating commands: %w", err)
	}
	return nil
}

// refreshData overwrites the reference-data files.
func (r *stepRun) refreshData() error {
	n, err := r.copyFlat(path.Join(templates.DataDir(r.p.Language), "*.md"), r.ws.Path(workspace.DataRel))
	r.sum.DataUpdated = n
	if err != nil {
		return fmt.Errorf("updating reference data: %w", err)
	}
	return nil
}

// refreshAgents overwrites agent files, but only in workspaces that opted
// into agents by having the directory.
func (r *stepRun) refreshAgents() error {
	if !isDir(r.ws.Marker(workspace.AgentsDir)) {
		return nil
	}
	pattern := path.Join(templates.WorkspaceDir(r.p.Language), workspace.AgentsDir, "*.md")
	n, err := r.copyFlat(pattern, r.ws.Marker(workspace.AgentsDir))
	r.sum.AgentsUpdated = n
	if err != nil {
		return fmt.Errorf("updating agents: %w", err)
	}
	return nil
}

// refreshSkills replaces each skill bundle wholesale so files removed
// upstream disappear from the workspace too.
func (r *stepRun) refreshSkills() error {
	skills, err := r.src.Dirs(templates.SkillsDir())
	if err != nil {
		return fmt.Errorf("listing skills: %w", err)
	}
	if len(skills) == 0 {
		return nil
	}
	if err := os.MkdirAll(r.ws.Path(workspace.SkillsRel), 0o755); err != nil {
		return fmt.Errorf("creating skills directory: %w", err)
	}
	for _, name := range skills {
		if err := r.src.ReplaceDir(path.Join(templates.SkillsDir(), name), r.ws.Path(workspace.SkillsRel, name)); err != nil {
			return fmt.Errorf("updating skill %s: %w", name, err)
		}
		r.sum.SkillsUpdated++
	}
	return nil
}

// addMarkerFile copies a template into the marker directory unless the
// destination already exists or the template does not ship it.
func (r *stepRun) addMarkerFile(srcName, markerRel string) error {
	dst := r.ws.Marker(markerRel)
	if exists(dst) || !r.src.Exists(srcName) {
		return nil
	}
	if err := r.src.CopyFile(srcName, dst); err != nil {
		return err
	}
	r.added(workspace.MarkerRel(markerRel))
	return nil
}

// addMarkerDir copies a template directory into the marker directory
// unless the destination already exists.
func (r *stepRun) addMarkerDir(srcDir, markerRel string) error {
	dst := r.ws.Marker(markerRel)
	if exists(dst) || !r.src.Exists(srcDir) {
		return nil
	}
	if _, err := r.src.CopyDir(srcDir, dst, false); err != nil {
		return err
	}
	r.added(workspace.MarkerRel(markerRel) + "/")
	return nil
}

// copyFlat copies every template matching pattern into dstDir, always
// overwriting, and returns how many were copied.
func (r *stepRun) copyFlat(pattern, dstDir string) (int, error) {
	names, err := r.src.Glob(pattern)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, name := range names {
		if err := r.src.CopyFile(name, filepath.Join(dstDir, path.Base(name))); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (r *stepRun) templatePath(rel ...string) string {
	return path.Join(append([]string{templates.WorkspaceDir(r.p.Language)}, rel...)...)
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
