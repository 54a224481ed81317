package migrate

import (
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/skgd-labs/skgd/internal/templates"
	"github.com/skgd-labs/skgd/internal/workspace"
)

// assetPipelineStep moves a G2 workspace to G3: the asset catalog, the
// provider check scripts and the mcp.assets configuration.
type assetPipelineStep struct {
	src *templates.Source
	log *zap.Logger
}

// NewAssetPipelineStep returns the G2 → G3 step.
func NewAssetPipelineStep(src *templates.Source, log *zap.Logger) Step {
	return &assetPipelineStep{src: src, log: log}
}

func (s *assetPipelineStep) ID() StepID { return StepAssetPipeline }

func (s *assetPipelineStep) Apply(ws workspace.Workspace, p Params) (*Summary, error) {
	r := newStepRun(StepAssetPipeline, s.src, ws, p, s.log)
	cfg := workspace.LoadConfig(ws)
	r.sum.FromVersion = cfg.VersionOrDefault()
	r.sum.ToVersion = p.TargetVersion
	r.snapshotPreserved()
	if err := cfg.Err(); err != nil {
		return r.fail(fmt.Errorf("reading config: %w", err))
	}

	if err := r.refreshCommands(); err != nil {
		return r.fail(err)
	}
	if err := r.refreshSkills(); err != nil {
		return r.fail(err)
	}
	if err := r.refreshData(); err != nil {
		return r.fail(err)
	}

	if err := r.addMarkerFile(r.templatePath(workspace.AssetsCatalogFile), workspace.AssetsCatalogFile); err != nil {
		return r.fail(fmt.Errorf("adding asset catalog: %w", err))
	}

	scripts, err := s.src.Glob(r.templatePath(workspace.ScriptsDir, workspace.AssetScriptPrefix+"*"))
	if err != nil {
		return r.fail(err)
	}
	for _, name := range scripts {
		rel := path.Join(workspace.ScriptsDir, path.Base(name))
		if err := r.addMarkerFile(name, rel); err != nil {
			return r.fail(fmt.Errorf("adding script: %w", err))
		}
	}

	if err := r.refreshAgents(); err != nil {
		return r.fail(err)
	}

	// The state document is only extended, never created.
	st := workspace.LoadState(ws)
	if st.Exists() && !st.Corrupt() && st.Assets == nil {
		st.Assets = workspace.NewAssetsState()
		if err := workspace.SaveState(ws, st); err != nil {
			return r.fail(err)
		}
		r.added(workspace.MarkerRel(workspace.StateFile) + " (assets section)")
	}

	// Config goes last: mcp.assets is a G3 marker, so a failure above
	// leaves the workspace classified as G2 and the step can be re-run.
	cfg = workspace.LoadConfig(ws)
	cfg.Version = p.TargetVersion
	if !cfg.HasAssets() {
		cfg.EnsureMCP().Assets = workspace.NewAssetsSection(p.ArtStyle, p.AssetProviders)
		r.added(workspace.MarkerRel(workspace.ConfigFile) + " (mcp.assets section)")
	}
	if err := workspace.SaveConfig(ws, cfg); err != nil {
		return r.fail(err)
	}

	r.log.Debug("step complete", zap.Int("commands", r.sum.CommandsUpdated), zap.Int("added", len(r.sum.Added)))
	return r.sum, nil
}
