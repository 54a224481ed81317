package workspace

import (
	"path"
	"path/filepath"

	"github.com/skgd-labs/skgd/internal/branding"
)

// Paths relative to the workspace root, slash-separated.
const (
	CommandsRel = ".claude/commands"
	SkillsRel   = ".claude/skills"
	DataRel     = ".claude/data"
	DocsRel     = "docs"
	BriefRel    = "docs/game-brief.md"
	SpecsRel    = "docs/specs"
	ReadmeRel   = "README.md"
)

// Paths relative to the marker directory.
const (
	ConfigFile         = "config.yaml"
	StateFile          = "state.yaml"
	RoadmapFile        = "roadmap.yaml"
	ConfigBackupFile   = "config.yaml.bak"
	I18nDir            = "i18n"
	MemoryDir          = "memory"
	TemplatesDir       = "templates"
	ScriptsDir         = "scripts"
	AgentsDir          = "agents"
	SnapshotsDir       = "snapshots"
	SessionContextFile = "memory/session-context.md"
	LearningsFile      = "memory/learnings.md"
	LearningsCoreFile  = "memory/learnings-core.md"
	ConstitutionFile   = "memory/constitution.md"
	AssetsCatalogFile  = "memory/assets-catalog.md"
	LearningsCoreTmpl  = "templates/learnings-core.md"
	SessionContextTmpl = "templates/session-context.md"
	AssetScriptPrefix  = "check-asset-mcps."
)

// Workspace is a project directory that may or may not contain a
// scaffolded workflow.
type Workspace struct {
	Root string
}

// New returns the workspace rooted at root.
func New(root string) Workspace {
	return Workspace{Root: root}
}

// Path joins slash-separated parts onto the workspace root.
func (w Workspace) Path(rel ...string) string {
	return filepath.Join(w.Root, filepath.FromSlash(path.Join(rel...)))
}

// Dir returns the marker directory (<root>/.skgd).
func (w Workspace) Dir() string {
	return filepath.Join(w.Root, branding.WorkspaceDir())
}

// Marker joins slash-separated parts onto the marker directory.
func (w Workspace) Marker(rel ...string) string {
	return filepath.Join(w.Dir(), filepath.FromSlash(path.Join(rel...)))
}

// MarkerRel returns the display form of a marker-relative path,
// e.g. MarkerRel("memory/learnings.md") → ".skgd/memory/learnings.md".
func MarkerRel(rel ...string) string {
	return path.Join(append([]string{branding.WorkspaceDir()}, rel...)...)
}
