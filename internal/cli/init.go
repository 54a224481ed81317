package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skgd-labs/skgd/internal/branding"
	"github.com/skgd-labs/skgd/internal/catalog"
	"github.com/skgd-labs/skgd/internal/prompt"
	"github.com/skgd-labs/skgd/internal/scaffold"
	"github.com/skgd-labs/skgd/internal/tools"
	"github.com/skgd-labs/skgd/internal/workspace"
)

var (
	initModel         string
	initShell         string
	initLang          string
	initEngine        string
	initArtStyle      string
	initProviders     []string
	initHere          bool
	initNoInteractive bool
)

func init() {
	initCmd.Flags().StringVarP(&initModel, "model", "m", "", "Default LLM model (opus, sonnet or haiku)")
	initCmd.Flags().StringVarP(&initShell, "shell", "s", "", "Shell type (bash or powershell)")
	initCmd.Flags().StringVarP(&initLang, "lang", "l", "", "Language for workflow templates (en or fr)")
	initCmd.Flags().StringVarP(&initEngine, "engine", "e", "", "Game engine (unity or godot)")
	initCmd.Flags().StringVar(&initArtStyle, "art-style", "", "Art style for the asset pipeline")
	initCmd.Flags().StringSliceVar(&initProviders, "providers", nil, "Asset MCPs to enable (blender, pixellab)")
	initCmd.Flags().BoolVarP(&initHere, "here", "H", false, "Initialize in the current directory (upgrades an existing project)")
	initCmd.Flags().BoolVarP(&initNoInteractive, "no-interactive", "y", false, "Skip interactive prompts, use defaults")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [project-name]",
	Short: "Create a new game project",
	Long: `Create a new game project with the complete workflow structure for
AI-assisted game development with Unity or Godot.

With --here the workflow is added to the current directory. If that
directory already holds a project, it is upgraded instead.

Examples:
  skgd init my-awesome-game           # Create new project folder
  skgd init --here                    # Initialize in current folder
  skgd init --here --engine godot     # Upgrade existing project for Godot
  skgd init -H -e unity               # Short form`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := newEnv(cmd, !initNoInteractive)
		for _, c := range []struct {
			flag, value string
			allowed     []string
		}{
			{"--model", initModel, catalog.Keys(catalog.Models)},
			{"--shell", initShell, catalog.Keys(catalog.Shells)},
			{"--lang", initLang, e.src.Languages()},
			{"--engine", initEngine, catalog.Keys(catalog.Engines)},
			{"--art-style", initArtStyle, catalog.Keys(catalog.ArtStyles)},
		} {
			if err := checkChoice(c.flag, c.value, c.allowed); err != nil {
				return err
			}
		}
		for _, p := range initProviders {
			if _, ok := catalog.ProviderByKey(p); !ok {
				return usageErrorf("unknown asset provider %q", p)
			}
		}

		dir, err := currentDir()
		if err != nil {
			return err
		}
		req := initRequest{
			dir:          dir,
			here:         initHere,
			model:        initModel,
			shell:        initShell,
			lang:         initLang,
			engine:       initEngine,
			artStyle:     initArtStyle,
			providers:    initProviders,
			providersSet: cmd.Flags().Changed("providers"),
			interactive:  !initNoInteractive,
		}
		if len(args) > 0 {
			req.name = args[0]
		}
		printBanner(e.out)
		return runInit(e, req)
	},
}

// initRequest carries the init flags. Empty choices are asked for or
// defaulted.
type initRequest struct {
	dir          string
	name         string
	here         bool
	model        string
	shell        string
	lang         string
	engine       string
	artStyle     string
	providers    []string
	providersSet bool
	interactive  bool
}

func runInit(e *env, req initRequest) error {
	w := e.out
	version := branding.SKGDVersion()

	var ws workspace.Workspace
	if req.here {
		ws = workspace.New(req.dir)
		if req.name == "" {
			req.name = filepath.Base(req.dir)
		}
		if workspace.Inspect(ws).Exists {
			return runUpgrade(e, upgradeRequest{
				ws:             ws,
				lang:           req.lang,
				engine:         req.engine,
				artStyle:       req.artStyle,
				providers:      req.providers,
				providersSet:   req.providersSet,
				interactive:    req.interactive,
				targetVersion:  version,
				askLangAndTool: true,
			})
		}
		fmt.Fprintln(w, warnStyle.Render("Initializing workflow in existing project: "+req.name))
	} else {
		if req.name == "" {
			return usageErrorf("provide a project name or use --here for the current directory\n"+
				"       Example: %[1]s init my-game\n       Example: %[1]s init --here", branding.CLIName())
		}
		ws = workspace.New(filepath.Join(req.dir, req.name))
	}
	fmt.Fprintln(w)

	opts, err := askInitChoices(e, req)
	if errors.Is(err, prompt.ErrCancelled) {
		fmt.Fprintln(w, "Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}
	opts.Version = version

	if req.here {
		fmt.Fprintf(w, "Adding workflow to '%s'...\n\n", req.name)
	} else {
		fmt.Fprintf(w, "Creating project '%s'...\n\n", req.name)
	}
	res, err := scaffold.New(e.src, e.log).Create(ws, opts)
	if errors.Is(err, scaffold.ErrExists) {
		return fmt.Errorf("directory '%s' already exists; use --here to initialize in an existing directory", req.name)
	}
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}

	fmt.Fprintln(w, "  +-- Copying workflow templates...")
	fmt.Fprintf(w, "  |   %s %s (%d files)\n", okStyle.Render("[OK]"), workspace.CommandsRel+"/", res.Commands)
	fmt.Fprintf(w, "  |   %s %s\n", okStyle.Render("[OK]"), workspace.MarkerRel()+"/")
	fmt.Fprintf(w, "  |   %s %s\n", okStyle.Render("[OK]"), workspace.DocsRel+"/")
	fmt.Fprintln(w, "  +-- Configuring project...")
	fmt.Fprintf(w, "  |   %s config.yaml updated\n", okStyle.Render("[OK]"))
	if len(opts.AssetProviders) > 0 {
		fmt.Fprintln(w, "  +-- Asset MCPs configured:")
		for _, key := range opts.AssetProviders {
			if info, ok := catalog.ProviderByKey(key); ok {
				fmt.Fprintf(w, "  |   %s %s enabled\n", okStyle.Render("[OK]"), info.Name)
			}
		}
	}
	if res.ReadmeSkipped {
		fmt.Fprintf(w, "  |   %s README.md exists, skipped\n", warnStyle.Render("[--]"))
	} else {
		fmt.Fprintf(w, "  |   %s README.md created\n", okStyle.Render("[OK]"))
	}

	fmt.Fprintln(w, "  +-- Checking prerequisites...")
	if st := e.detector.Detect(contextOf(e), tools.Claude); st.Installed {
		fmt.Fprintf(w, "      %s Claude CLI detected\n", okStyle.Render("[OK]"))
	} else {
		fmt.Fprintf(w, "      %s Claude CLI not found\n", warnStyle.Render("[!!]"))
		fmt.Fprintln(w, "           Install: npm install -g @anthropic-ai/claude-code")
	}

	printCreated(w, opts.Language, req.name, opts.Engine, ws.Root)
	return nil
}

// askInitChoices fills every unset choice, asking in interactive mode and
// taking user defaults, then built-in defaults, otherwise.
func askInitChoices(e *env, req initRequest) (scaffold.Options, error) {
	opts := scaffold.Options{
		ProjectName:    req.name,
		Here:           req.here,
		Model:          req.model,
		Shell:          req.shell,
		Language:       req.lang,
		Engine:         req.engine,
		ArtStyle:       req.artStyle,
		AssetProviders: req.providers,
	}

	if !req.interactive {
		opts.Model = firstNonEmpty(opts.Model, e.defaults.Model, catalog.DefaultModel)
		opts.Shell = firstNonEmpty(opts.Shell, e.defaults.Shell, catalog.DefaultShell())
		opts.Language = firstNonEmpty(opts.Language, e.defaults.Language, catalog.DefaultLanguage)
		opts.Engine = firstNonEmpty(opts.Engine, e.defaults.Engine, catalog.DefaultEngine)
		return opts, nil
	}

	var err error
	ask := func(field *string, question string, options []prompt.Option, def string) {
		if err != nil || *field != "" {
			return
		}
		*field, err = e.prompter.Select(question, options, def)
	}
	ask(&opts.Model, "Select default LLM model:", catalog.Options(catalog.Models),
		firstNonEmpty(e.defaults.Model, catalog.DefaultInteractiveModel))
	ask(&opts.Shell, "Select your shell:", catalog.Options(catalog.Shells),
		firstNonEmpty(e.defaults.Shell, catalog.DefaultShell()))
	ask(&opts.Language, "Select language / Choisir la langue:", catalog.LanguageOptions(e.src.Languages()),
		firstNonEmpty(e.defaults.Language, catalog.DefaultLanguage))
	ask(&opts.Engine, "Select game engine:", catalog.Options(catalog.Engines),
		firstNonEmpty(e.defaults.Engine, catalog.DefaultEngine))
	if err != nil {
		return opts, err
	}

	opts.ArtStyle, opts.AssetProviders, err = askAssetChoices(e, opts.ArtStyle, opts.AssetProviders, req.providersSet, true)
	return opts, err
}
