package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skgd-labs/skgd/internal/branding"
	"github.com/skgd-labs/skgd/internal/catalog"
	"github.com/skgd-labs/skgd/internal/migrate"
	"github.com/skgd-labs/skgd/internal/prompt"
	"github.com/skgd-labs/skgd/internal/tools"
	"github.com/skgd-labs/skgd/internal/workspace"
)

var (
	upgradeLang          string
	upgradeArtStyle      string
	upgradeProviders     []string
	upgradeNoInteractive bool
)

func init() {
	upgradeCmd.Flags().StringVarP(&upgradeLang, "lang", "l", "", "Language for workflow templates (en or fr)")
	upgradeCmd.Flags().StringVar(&upgradeArtStyle, "art-style", "", "Art style for the asset pipeline, if it is added")
	upgradeCmd.Flags().StringSliceVar(&upgradeProviders, "providers", nil, "Asset MCPs to enable, if the asset pipeline is added")
	upgradeCmd.Flags().BoolVarP(&upgradeNoInteractive, "no-interactive", "y", false, "Skip interactive prompts, use defaults")
	rootCmd.AddCommand(upgradeCmd)
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade an existing project to the latest workflow version",
	Long: `Upgrade an existing project to the latest workflow version.

Updates slash commands, adds new skills and templates, and preserves your
existing game brief, specs, learnings and run state.

Examples:
  skgd upgrade              # Interactive upgrade
  skgd upgrade -y           # Non-interactive, use defaults
  skgd upgrade --lang fr    # Upgrade with French templates`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := currentWorkspace()
		if err != nil {
			return err
		}
		e := newEnv(cmd, !upgradeNoInteractive)
		if err := checkChoice("--lang", upgradeLang, e.src.Languages()); err != nil {
			return err
		}
		if err := checkChoice("--art-style", upgradeArtStyle, catalog.Keys(catalog.ArtStyles)); err != nil {
			return err
		}
		for _, p := range upgradeProviders {
			if _, ok := catalog.ProviderByKey(p); !ok {
				return usageErrorf("unknown asset provider %q", p)
			}
		}
		printBanner(e.out)
		return runUpgrade(e, upgradeRequest{
			ws:            ws,
			lang:          upgradeLang,
			artStyle:      upgradeArtStyle,
			providers:     upgradeProviders,
			providersSet:  cmd.Flags().Changed("providers"),
			interactive:   !upgradeNoInteractive,
			targetVersion: branding.SKGDVersion(),
		})
	},
}

// upgradeRequest carries the choices made on the command line. Empty
// fields are detected from the workspace or asked for.
type upgradeRequest struct {
	ws            workspace.Workspace
	lang          string
	engine        string
	artStyle      string
	providers     []string
	providersSet  bool
	interactive   bool
	targetVersion string
	// askLangAndTool asks for language and engine instead of taking
	// them from the workspace; used by init --here.
	askLangAndTool bool
}

// runUpgrade inspects, plans, confirms and migrates a workspace. Every
// question is asked before anything is written.
func runUpgrade(e *env, req upgradeRequest) error {
	w := e.out
	fp := workspace.Inspect(req.ws)
	plan := migrate.Classify(fp, req.targetVersion)
	e.log.Debug("classified workspace",
		zap.String("root", req.ws.Root),
		zap.String("generation", plan.Current.String()),
		zap.String("outcome", plan.Outcome.String()),
		zap.String("version", fp.Version))

	switch plan.Outcome {
	case migrate.OutcomeFresh:
		fmt.Fprintln(w, errorStyle.Render("No project found in "+req.ws.Root+"."))
		fmt.Fprintln(w)
		fmt.Fprintln(w, "To create a new project:")
		fmt.Fprintf(w, "  %s init my-game\n\n", branding.CLIName())
		fmt.Fprintln(w, "To initialize in the current directory:")
		fmt.Fprintf(w, "  %s init --here\n", branding.CLIName())
		return migrate.ErrMissingWorkspace
	}

	lang := firstNonEmpty(req.lang, fp.Language, e.defaults.Language, catalog.DefaultLanguage)
	engine := firstNonEmpty(req.engine, fp.Engine, e.defaults.Engine, catalog.DefaultEngine)

	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("Detected %s project (v%s, %s)", branding.DisplayName(), fp.Version, plan.Current.Label())))
	if fp.CorruptConfig {
		fmt.Fprintln(w, warnStyle.Render("  config.yaml could not be read; it will be backed up to "+workspace.MarkerRel(workspace.ConfigBackupFile)))
	}

	switch plan.Outcome {
	case migrate.OutcomeUpToDate:
		fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("Project is already at v%s. Nothing to upgrade.", req.targetVersion)))
		return nil
	case migrate.OutcomeAhead:
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("Project is at v%s, newer than this tool (v%s). Nothing to upgrade.", fp.Version, req.targetVersion)))
		return nil
	}

	if !req.askLangAndTool {
		fmt.Fprintf(w, "  Engine:   %s\n", accentStyle.Render(engine))
		fmt.Fprintf(w, "  Language: %s\n", accentStyle.Render(lang))
	}
	fmt.Fprintln(w)
	printPreview(w, lang, preservePreview(fp))

	p, err := askUpgradeChoices(e, req, plan, fp, lang, engine)
	if errors.Is(err, prompt.ErrCancelled) {
		fmt.Fprintln(w, "Upgrade cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(w, accentStyle.Render(fmt.Sprintf("Upgrading to v%s...", req.targetVersion)))
	sums, err := migrate.NewOrchestrator(e.src, e.log).Run(req.ws, plan, p)
	for _, sum := range sums {
		printSummary(w, p.Language, sum)
	}
	if err != nil {
		var merr *migrate.MigrationError
		if errors.As(err, &merr) {
			printPartial(w, merr)
		}
		return fmt.Errorf("upgrade failed: %w", err)
	}
	printFeatures(w, p.Language, sums)
	return nil
}

// askUpgradeChoices confirms the upgrade and collects the parameters the
// plan needs.
func askUpgradeChoices(e *env, req upgradeRequest, plan migrate.Plan, fp workspace.Fingerprint, lang, engine string) (migrate.Params, error) {
	p := migrate.Params{Language: lang, Engine: engine, TargetVersion: req.targetVersion}

	ok, err := e.prompter.Confirm(fmt.Sprintf("Upgrade to v%s?", req.targetVersion), true)
	if err != nil {
		return p, err
	}
	if !ok {
		return p, prompt.ErrCancelled
	}

	if req.askLangAndTool {
		if req.lang == "" {
			if p.Language, err = e.prompter.Select("Select language / Choisir la langue:",
				catalog.LanguageOptions(e.src.Languages()), lang); err != nil {
				return p, err
			}
		}
		if req.engine == "" {
			if p.Engine, err = e.prompter.Select("Select game engine:", catalog.Options(catalog.Engines), engine); err != nil {
				return p, err
			}
		}
	}

	// Asset choices only matter when the asset step will create the
	// mcp.assets section.
	if !slices.Contains(plan.Steps, migrate.StepAssetPipeline) || fp.HasAssetsConfig {
		return p, nil
	}
	p.ArtStyle, p.AssetProviders, err = askAssetChoices(e, req.artStyle, req.providers, req.providersSet, req.interactive)
	return p, err
}

// askAssetChoices picks the art style and asset providers, recommending
// providers from the art style and the locally installed tools.
func askAssetChoices(e *env, artStyle string, providers []string, providersSet, interactive bool) (string, []string, error) {
	if !interactive {
		return artStyle, providers, nil
	}
	w := e.out
	var err error
	if artStyle == "" {
		fmt.Fprintln(w, "The asset pipeline will be configured:")
		artStyle, err = e.prompter.Select("Select art style (for asset pipeline):",
			catalog.Options(catalog.ArtStyles), catalog.DefaultArtStyle)
		if err != nil {
			return "", nil, err
		}
	}
	if providersSet {
		return artStyle, providers, nil
	}

	fmt.Fprintln(w, "  +-- Detecting asset tools...")
	blender := e.detector.Detect(contextOf(e), tools.Blender)
	if blender.Installed {
		statusLine(w, true, "Blender detected")
	} else {
		statusLine(w, false, "Blender not found")
	}

	recommended := catalog.RecommendProviders(artStyle, blender.Installed)
	if len(recommended) == 0 {
		return artStyle, nil, nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recommended asset MCPs for your art style:")
	for _, key := range recommended {
		if info, ok := catalog.ProviderByKey(key); ok {
			fmt.Fprintf(w, "  - %s: %s\n", accentStyle.Render(info.Name), info.Description)
		}
	}
	ok, err := e.prompter.Confirm("Enable recommended asset MCPs?", true)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return artStyle, nil, nil
	}
	return artStyle, recommended, nil
}

func contextOf(e *env) context.Context {
	if e.ctx != nil {
		return e.ctx
	}
	return context.Background()
}

// checkChoice rejects a flag value outside allowed. Empty means unset.
func checkChoice(flag, value string, allowed []string) error {
	if value == "" || slices.Contains(allowed, value) {
		return nil
	}
	return usageErrorf("invalid %s %q (choose from %v)", flag, value, allowed)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
