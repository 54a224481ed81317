package workspace

import (
	"os"
)

// Fingerprint is a snapshot of the schema markers present in a workspace.
// It is derived on every invocation and never persisted.
type Fingerprint struct {
	Exists  bool
	Version string

	HasBrief         bool
	SpecsCount       int
	HasLearnings     bool
	HasLearningsCore bool
	HasConstitution  bool
	HasRoadmap       bool
	HasState         bool

	HasI18n           bool
	HasSessionContext bool
	HasAssetsCatalog  bool
	HasAssetsConfig   bool

	CorruptConfig bool
	Language      string
	Engine        string
}

// Inspect fingerprints the workspace at w. It only reads, and it never
// fails: a missing marker directory yields Exists=false, and an unreadable
// config falls back to DefaultVersion with no assets section.
func Inspect(w Workspace) Fingerprint {
	if !isDir(w.Dir()) {
		return Fingerprint{}
	}

	fp := Fingerprint{
		Exists:            true,
		HasBrief:          fileExists(w.Path(BriefRel)),
		SpecsCount:        CountSpecs(w),
		HasLearnings:      fileExists(w.Marker(LearningsFile)),
		HasLearningsCore:  fileExists(w.Marker(LearningsCoreTmpl)) || fileExists(w.Marker(LearningsCoreFile)),
		HasConstitution:   fileExists(w.Marker(ConstitutionFile)),
		HasRoadmap:        fileExists(w.Marker(RoadmapFile)),
		HasState:          fileExists(w.Marker(StateFile)),
		HasI18n:           fileExists(w.Marker(I18nDir)),
		HasSessionContext: fileExists(w.Marker(SessionContextFile)),
		HasAssetsCatalog:  fileExists(w.Marker(AssetsCatalogFile)),
	}

	cfg := LoadConfig(w)
	fp.Version = cfg.VersionOrDefault()
	fp.CorruptConfig = cfg.Corrupt()
	fp.HasAssetsConfig = cfg.HasAssets()
	fp.Language = cfg.Language()
	fp.Engine = cfg.Engine

	return fp
}

// CountSpecs counts the feature directories under docs/specs. Plain files
// are ignored and a missing specs root counts as zero.
func CountSpecs(w Workspace) int {
	entries, err := os.ReadDir(w.Path(SpecsRel))
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			n++
		}
	}
	return n
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
