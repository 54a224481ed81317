package scaffold

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"go.uber.org/zap"

	"github.com/skgd-labs/skgd/internal/platform"
	"github.com/skgd-labs/skgd/internal/templates"
	"github.com/skgd-labs/skgd/internal/workspace"
)

// ErrExists is returned when a new project would be created in a
// directory that is already there.
var ErrExists = errors.New("directory already exists")

// Options are the choices a fresh workspace is created with.
type Options struct {
	ProjectName    string
	Model          string
	Shell          string
	Language       string
	Engine         string
	ArtStyle       string
	AssetProviders []string
	Version        string
	// Here scaffolds into an existing directory instead of creating one.
	// An existing README is then left alone.
	Here bool
}

// Result holds the outcome of a scaffold.
type Result struct {
	Root          string
	Commands      int
	Skills        int
	Created       []string
	ReadmeSkipped bool
}

// Scaffolder creates workspaces from a template source.
type Scaffolder struct {
	src *templates.Source
	log *zap.Logger
}

// New returns a Scaffolder reading templates from src.
func New(src *templates.Source, log *zap.Logger) *Scaffolder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scaffolder{src: src, log: log}
}

// Create scaffolds a workspace at ws.Root. If it fails after creating the
// root directory, the directory is removed again; a pre-existing directory
// is never removed.
func (s *Scaffolder) Create(ws workspace.Workspace, opts Options) (res *Result, err error) {
	if err := s.validate(opts); err != nil {
		return nil, err
	}

	created := false
	if opts.Here {
		info, statErr := os.Stat(ws.Root)
		if statErr != nil || !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", ws.Root)
		}
	} else {
		if _, statErr := os.Stat(ws.Root); statErr == nil {
			return nil, fmt.Errorf("%s: %w", ws.Root, ErrExists)
		}
		if err := os.MkdirAll(ws.Root, 0o755); err != nil {
			return nil, fmt.Errorf("creating project directory: %w", err)
		}
		created = true
	}

	defer func() {
		if err != nil && created {
			s.log.Debug("removing partially created project", zap.String("root", ws.Root), zap.Error(err))
			if rmErr := os.RemoveAll(ws.Root); rmErr != nil {
				err = fmt.Errorf("%w (cleanup of %s also failed: %v)", err, ws.Root, rmErr)
			}
			res = nil
		}
	}()

	res = &Result{Root: ws.Root}
	if err := s.copyTemplates(ws, opts, res); err != nil {
		return res, err
	}
	if err := writeConfig(ws, opts); err != nil {
		return res, fmt.Errorf("configuring project: %w", err)
	}
	res.Created = append(res.Created, workspace.MarkerRel(workspace.ConfigFile))

	readme := ws.Path(workspace.ReadmeRel)
	if _, statErr := os.Stat(readme); statErr == nil && opts.Here {
		res.ReadmeSkipped = true
	} else {
		data, err := RenderReadme(opts.Language, NewReadmeData(opts.ProjectName, opts.Engine))
		if err != nil {
			return res, err
		}
		if err := os.WriteFile(readme, data, 0o644); err != nil {
			return res, fmt.Errorf("writing README: %w", err)
		}
		res.Created = append(res.Created, workspace.ReadmeRel)
	}

	s.log.Debug("scaffold complete", zap.String("root", ws.Root), zap.Int("commands", res.Commands))
	return res, nil
}

func (s *Scaffolder) validate(opts Options) error {
	if opts.ProjectName == "" {
		return fmt.Errorf("project name is required")
	}
	if !slices.Contains(s.src.Languages(), opts.Language) {
		return fmt.Errorf("no templates for language %q (available: %v)", opts.Language, s.src.Languages())
	}
	if opts.Engine != "unity" && opts.Engine != "godot" {
		return fmt.Errorf("unsupported engine %q", opts.Engine)
	}
	if opts.Version == "" {
		return fmt.Errorf("no version to stamp")
	}
	return nil
}

func (s *Scaffolder) copyTemplates(ws workspace.Workspace, opts Options, res *Result) error {
	commands, err := s.src.CopyDir(templates.CommandsDir(opts.Language), ws.Path(workspace.CommandsRel), true)
	if err != nil {
		return err
	}
	res.Commands = len(commands)
	res.Created = append(res.Created, workspace.CommandsRel+"/")

	if s.src.Exists(templates.DataDir(opts.Language)) {
		if _, err := s.src.CopyDir(templates.DataDir(opts.Language), ws.Path(workspace.DataRel), true); err != nil {
			return err
		}
		res.Created = append(res.Created, workspace.DataRel+"/")
	}

	skills, err := s.src.Dirs(templates.SkillsDir())
	if err != nil {
		return err
	}
	for _, name := range skills {
		if err := s.src.ReplaceDir(templates.SkillsDir()+"/"+name, ws.Path(workspace.SkillsRel, name)); err != nil {
			return err
		}
	}
	res.Skills = len(skills)
	if len(skills) > 0 {
		res.Created = append(res.Created, workspace.SkillsRel+"/")
	}

	if _, err := s.src.CopyDir(templates.WorkspaceDir(opts.Language), ws.Dir(), true); err != nil {
		return err
	}
	res.Created = append(res.Created, workspace.MarkerRel()+"/")

	for _, dir := range []string{ws.Path(workspace.SpecsRel), ws.Marker(workspace.SnapshotsDir), ws.Marker(workspace.MemoryDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
		if err := platform.Chmod(dir, 0o755); err != nil {
			return fmt.Errorf("setting permissions on %s: %w", dir, err)
		}
	}
	res.Created = append(res.Created, workspace.DocsRel+"/")
	return nil
}

// writeConfig records every choice in config.yaml. Keys the template
// config carries beyond these are kept.
func writeConfig(ws workspace.Workspace, opts Options) error {
	cfg := workspace.LoadConfig(ws)
	cfg.Version = opts.Version
	cfg.EnsureProject().Name = opts.ProjectName
	cfg.Engine = opts.Engine
	cfg.EnsureModels().Default = opts.Model
	cfg.Shell = opts.Shell
	cfg.EnsureUser().Language = opts.Language

	em := cfg.EnsureEngineMCP()
	em.Active = opts.Engine
	em.Unity = workspace.NewMCPStatus(opts.Engine == "unity")
	em.GDAI = workspace.NewMCPStatus(opts.Engine == "godot")

	assets := workspace.NewAssetsSection(opts.ArtStyle, opts.AssetProviders)
	if existing := cfg.EnsureMCP().Assets; existing != nil {
		assets.Extra = existing.Extra
	}
	cfg.MCP.Assets = assets

	return workspace.SaveConfig(ws, cfg)
}
