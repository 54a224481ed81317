package migrate

import "github.com/skgd-labs/skgd/internal/workspace"

// Generation is a discrete schema version of a workspace's markers.
// Values are ordered: a higher generation carries every marker of the
// lower ones.
type Generation int

const (
	// None means there is no workspace to classify.
	None Generation = iota
	// G1 is the baseline workflow.
	G1
	// G2 adds localization and the session memory files.
	G2
	// G3 adds the asset pipeline.
	G3
)

// Baseline versions written by the step that reaches each generation when
// the final target is further ahead.
const (
	g2Version = "2.0"
)

func (g Generation) String() string {
	switch g {
	case G1:
		return "G1"
	case G2:
		return "G2"
	case G3:
		return "G3"
	default:
		return "none"
	}
}

// Label is the version family shown to users (v1, v2, v3).
func (g Generation) Label() string {
	switch g {
	case G1:
		return "v1"
	case G2:
		return "v2"
	case G3:
		return "v3"
	default:
		return "-"
	}
}

// Detect maps a fingerprint to its generation.
func Detect(fp workspace.Fingerprint) Generation {
	if !fp.Exists {
		return None
	}
	if !hasG2Markers(fp) {
		return G1
	}
	if fp.HasAssetsCatalog && fp.HasAssetsConfig {
		return G3
	}
	return G2
}

func hasG2Markers(fp workspace.Fingerprint) bool {
	return fp.HasI18n && fp.HasSessionContext
}
