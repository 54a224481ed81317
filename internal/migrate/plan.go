package migrate

import "github.com/skgd-labs/skgd/internal/workspace"

// StepID identifies a migration step.
type StepID string

const (
	// StepLocalization moves G1 → G2.
	StepLocalization StepID = "g1-to-g2"
	// StepAssetPipeline moves G2 → G3.
	StepAssetPipeline StepID = "g2-to-g3"
	// StepRefresh re-applies the G3 workflow files and bumps the version.
	StepRefresh StepID = "g3-refresh"
)

// Transition returns the generations a step moves between.
func (id StepID) Transition() (from, to Generation) {
	switch id {
	case StepLocalization:
		return G1, G2
	case StepAssetPipeline:
		return G2, G3
	case StepRefresh:
		return G3, G3
	default:
		return None, None
	}
}

// Outcome says what the caller should do with a plan.
type Outcome int

const (
	// OutcomeFresh means there is no workspace: scaffold instead of upgrade.
	OutcomeFresh Outcome = iota
	// OutcomeUpToDate means the workspace is already at the target.
	OutcomeUpToDate
	// OutcomeAhead means the workspace was stamped by a newer tool.
	OutcomeAhead
	// OutcomeUpgrade means Steps must run.
	OutcomeUpgrade
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFresh:
		return "fresh"
	case OutcomeUpToDate:
		return "up-to-date"
	case OutcomeAhead:
		return "ahead"
	case OutcomeUpgrade:
		return "upgrade"
	default:
		return "unknown"
	}
}

// Plan is the ordered list of steps that brings a workspace to the target.
type Plan struct {
	Current        Generation
	Target         Generation
	CurrentVersion string
	TargetVersion  string
	Outcome        Outcome
	Steps          []StepID
}

// Empty reports whether there is nothing to run.
func (p Plan) Empty() bool { return len(p.Steps) == 0 }

// Classify decides how to bring the fingerprinted workspace to
// targetVersion. Generation markers take precedence over the version
// string: a workspace with G3 markers and a stale version only gets a
// refresh, never the G1 path.
func Classify(fp workspace.Fingerprint, targetVersion string) Plan {
	p := Plan{
		Current:        Detect(fp),
		Target:         G3,
		CurrentVersion: fp.Version,
		TargetVersion:  targetVersion,
	}

	switch p.Current {
	case None:
		p.Target = None
		p.Outcome = OutcomeFresh
	case G1:
		p.Outcome = OutcomeUpgrade
		p.Steps = []StepID{StepLocalization, StepAssetPipeline}
	case G2:
		p.Outcome = OutcomeUpgrade
		p.Steps = []StepID{StepAssetPipeline}
	case G3:
		switch cmp := versionOrder(fp.Version, targetVersion); {
		case cmp == 0:
			p.Outcome = OutcomeUpToDate
		case cmp > 0:
			p.Outcome = OutcomeAhead
		default:
			p.Outcome = OutcomeUpgrade
			p.Steps = []StepID{StepRefresh}
		}
	}
	return p
}
