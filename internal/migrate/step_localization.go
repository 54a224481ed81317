package migrate

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/skgd-labs/skgd/internal/templates"
	"github.com/skgd-labs/skgd/internal/workspace"
)

// localizationStep moves a G1 workspace to G2: localized messages, the
// session memory files and engine-aware MCP configuration.
type localizationStep struct {
	src *templates.Source
	log *zap.Logger
}

// NewLocalizationStep returns the G1 → G2 step.
func NewLocalizationStep(src *templates.Source, log *zap.Logger) Step {
	return &localizationStep{src: src, log: log}
}

func (s *localizationStep) ID() StepID { return StepLocalization }

func (s *localizationStep) Apply(ws workspace.Workspace, p Params) (*Summary, error) {
	r := newStepRun(StepLocalization, s.src, ws, p, s.log)
	cfg := workspace.LoadConfig(ws)
	r.sum.FromVersion = cfg.VersionOrDefault()
	r.sum.ToVersion = g2Version
	r.snapshotPreserved()
	if err := cfg.Err(); err != nil {
		return r.fail(fmt.Errorf("reading config: %w", err))
	}

	if err := r.refreshCommands(); err != nil {
		return r.fail(err)
	}
	if err := r.addMarkerDir(r.templatePath(workspace.I18nDir), workspace.I18nDir); err != nil {
		return r.fail(fmt.Errorf("adding localization bundle: %w", err))
	}

	coreTmpl := r.templatePath(workspace.LearningsCoreTmpl)
	sessionTmpl := r.templatePath(workspace.SessionContextTmpl)
	for _, f := range []struct{ src, dst string }{
		{coreTmpl, workspace.LearningsCoreTmpl},
		{sessionTmpl, workspace.SessionContextTmpl},
	} {
		if err := r.addMarkerFile(f.src, f.dst); err != nil {
			return r.fail(fmt.Errorf("adding template: %w", err))
		}
	}

	if err := os.MkdirAll(ws.Marker(workspace.MemoryDir), 0o755); err != nil {
		return r.fail(fmt.Errorf("creating memory directory: %w", err))
	}
	// Memory files start as copies of their templates.
	for _, f := range []struct{ src, dst string }{
		{coreTmpl, workspace.LearningsCoreFile},
		{sessionTmpl, workspace.SessionContextFile},
	} {
		if err := r.addMarkerFile(f.src, f.dst); err != nil {
			return r.fail(fmt.Errorf("adding memory file: %w", err))
		}
	}

	if err := r.refreshSkills(); err != nil {
		return r.fail(err)
	}

	cfg = workspace.LoadConfig(ws)
	applyEngineConfig(cfg, p)
	cfg.Version = g2Version
	if err := workspace.SaveConfig(ws, cfg); err != nil {
		return r.fail(err)
	}

	r.log.Debug("step complete", zap.Int("commands", r.sum.CommandsUpdated), zap.Int("added", len(r.sum.Added)))
	return r.sum, nil
}

// applyEngineConfig records the language and engine choice. The selected
// engine's MCP entry is kept when present; the other one is reset.
func applyEngineConfig(cfg *workspace.Config, p Params) {
	if u := cfg.EnsureUser(); u.Language == "" {
		u.Language = p.Language
	}
	cfg.Engine = p.Engine

	em := cfg.EnsureEngineMCP()
	em.Active = p.Engine
	inactive := workspace.NewMCPStatus(false)
	if p.Engine == EngineGodot {
		em.GDAI = keepOrRequire(em.GDAI)
		em.Unity = inactive
	} else {
		em.Unity = keepOrRequire(em.Unity)
		em.GDAI = inactive
	}
}

func keepOrRequire(s *workspace.MCPStatus) *workspace.MCPStatus {
	if s != nil {
		return s
	}
	return workspace.NewMCPStatus(true)
}
