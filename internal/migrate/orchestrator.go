package migrate

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/skgd-labs/skgd/internal/templates"
	"github.com/skgd-labs/skgd/internal/workspace"
)

// Orchestrator runs migration plans.
type Orchestrator struct {
	src   *templates.Source
	log   *zap.Logger
	steps map[StepID]Step
}

// NewOrchestrator returns an orchestrator with the default steps
// registered against src.
func NewOrchestrator(src *templates.Source, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	o := &Orchestrator{src: src, log: log, steps: make(map[StepID]Step)}
	o.Register(NewLocalizationStep(src, log))
	o.Register(NewAssetPipelineStep(src, log))
	o.Register(NewRefreshStep(src, log))
	return o
}

// Register installs s, replacing any step with the same ID.
func (o *Orchestrator) Register(s Step) {
	o.steps[s.ID()] = s
}

// Run applies plan to ws in order. It stops at the first failing step
// and returns a *MigrationError holding the summaries of the steps that
// completed. Nothing is rolled back. An empty plan touches nothing.
func (o *Orchestrator) Run(ws workspace.Workspace, plan Plan, p Params) ([]*Summary, error) {
	if plan.Outcome == OutcomeFresh {
		return nil, ErrMissingWorkspace
	}
	if plan.Empty() {
		return nil, nil
	}

	p, err := o.resolveParams(p, plan)
	if err != nil {
		return nil, err
	}
	steps := make([]Step, 0, len(plan.Steps))
	for _, id := range plan.Steps {
		s, ok := o.steps[id]
		if !ok {
			return nil, fmt.Errorf("no step registered for %s", id)
		}
		steps = append(steps, s)
	}

	var done []*Summary
	for i, s := range steps {
		o.log.Debug("running step",
			zap.String("step", string(s.ID())),
			zap.Int("index", i),
			zap.String("root", ws.Root))

		sum, err := s.Apply(ws, p)
		if err != nil {
			return done, &MigrationError{
				Step:      s.ID(),
				Index:     i,
				Completed: done,
				Partial:   sum,
				Err:       err,
			}
		}
		done = append(done, sum)
	}
	return done, nil
}

// resolveParams fills defaults and rejects choices the template source
// cannot serve, before anything is written.
func (o *Orchestrator) resolveParams(p Params, plan Plan) (Params, error) {
	if p.Language == "" {
		p.Language = DefaultLanguage
	}
	if !slices.Contains(o.src.Languages(), p.Language) {
		return p, fmt.Errorf("no templates for language %q (available: %v)", p.Language, o.src.Languages())
	}
	switch p.Engine {
	case "":
		p.Engine = EngineUnity
	case EngineUnity, EngineGodot:
	default:
		return p, fmt.Errorf("unsupported engine %q", p.Engine)
	}
	if p.TargetVersion == "" {
		p.TargetVersion = plan.TargetVersion
	}
	if p.TargetVersion == "" {
		return p, fmt.Errorf("no target version")
	}
	return p, nil
}

// DefaultLanguage is used when neither the user nor the workspace names one.
const DefaultLanguage = "en"
