package migrate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/skgd-labs/skgd/internal/templates"
	"github.com/skgd-labs/skgd/internal/workspace"
)

// refreshStep brings a G3 workspace stamped with an older version up to
// date. It never touches the catalog, localization, session memory or the
// assets configuration.
type refreshStep struct {
	src *templates.Source
	log *zap.Logger
}

// NewRefreshStep returns the G3 refresh step.
func NewRefreshStep(src *templates.Source, log *zap.Logger) Step {
	return &refreshStep{src: src, log: log}
}

func (s *refreshStep) ID() StepID { return StepRefresh }

func (s *refreshStep) Apply(ws workspace.Workspace, p Params) (*Summary, error) {
	r := newStepRun(StepRefresh, s.src, ws, p, s.log)
	cfg := workspace.LoadConfig(ws)
	r.sum.FromVersion = cfg.VersionOrDefault()
	r.sum.ToVersion = p.TargetVersion
	r.snapshotPreserved()
	if err := cfg.Err(); err != nil {
		return r.fail(fmt.Errorf("reading config: %w", err))
	}

	for _, refresh := range []func() error{
		r.refreshCommands,
		r.refreshSkills,
		r.refreshData,
		r.refreshAgents,
	} {
		if err := refresh(); err != nil {
			return r.fail(err)
		}
	}

	cfg.Version = p.TargetVersion
	if err := workspace.SaveConfig(ws, cfg); err != nil {
		return r.fail(err)
	}

	r.log.Debug("step complete", zap.Int("commands", r.sum.CommandsUpdated))
	return r.sum, nil
}
