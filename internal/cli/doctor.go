package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/skgd-labs/skgd/internal/branding"
	"github.com/skgd-labs/skgd/internal/migrate"
	"github.com/skgd-labs/skgd/internal/tools"
	"github.com/skgd-labs/skgd/internal/workspace"
)

var doctorSkipTools bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorSkipTools, "skip-tools", false, "Do not probe for installed tools")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the project in the current directory",
	Long: `Inspect the project in the current directory: which workflow generation
it is on, what an upgrade would do, and whether .skgd/config.yaml matches
the expected schema.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := currentWorkspace()
		if err != nil {
			return err
		}
		e := newEnv(cmd, false)
		if doctorSkipTools {
			e.detector = nil
		}
		return runDoctor(e, ws)
	},
}

func runDoctor(e *env, ws workspace.Workspace) error {
	w := e.out
	fp := workspace.Inspect(ws)

	fmt.Fprintln(w, headingStyle.Render("Workspace check:"))
	if !fp.Exists {
		fmt.Fprintf(w, "  %s No %s directory in %s\n", warnStyle.Render("[MISS]"), workspace.MarkerRel(), ws.Root)
		fmt.Fprintf(w, "\n  Run `%s init --here` to create one.\n", branding.CLIName())
		return migrate.ErrMissingWorkspace
	}

	plan := migrate.Classify(fp, branding.SKGDVersion())
	fmt.Fprintf(w, "  %s Generation %s (version %s)\n", okStyle.Render("[ OK ]"), plan.Current.Label(), fp.Version)
	if fp.Language != "" {
		fmt.Fprintf(w, "  %s Language %s\n", okStyle.Render("[ OK ]"), fp.Language)
	}
	if fp.Engine != "" {
		fmt.Fprintf(w, "  %s Engine %s\n", okStyle.Render("[ OK ]"), fp.Engine)
	}
	printMarkers(w, fp)
	printPlan(w, plan)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Config validation:"))
	problems := 0
	switch res, err := workspace.CheckConfig(ws); {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(w, "  %s %s not found\n", warnStyle.Render("[MISS]"), workspace.MarkerRel(workspace.ConfigFile))
	case err != nil:
		fmt.Fprintf(w, "  %s %v\n", errorStyle.Render("[FAIL]"), err)
		problems++
	case res.OK():
		fmt.Fprintf(w, "  %s %s is valid\n", okStyle.Render("[ OK ]"), workspace.MarkerRel(workspace.ConfigFile))
	default:
		for _, issue := range res.Issues {
			fmt.Fprintf(w, "  %s %s\n", errorStyle.Render("[FAIL]"), issue)
		}
		problems += len(res.Issues)
	}

	if e.detector != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headingStyle.Render("Tool check:"))
		for _, name := range []string{tools.Claude, tools.Blender} {
			st := e.detector.Detect(contextOf(e), name)
			if st.Installed {
				fmt.Fprintf(w, "  %s %s %s\n", okStyle.Render("[ OK ]"), name, dimStyle.Render(st.Version))
			} else {
				fmt.Fprintf(w, "  %s %s not found\n", warnStyle.Render("[MISS]"), name)
			}
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d config problem(s) found", problems)
	}
	return nil
}

func printMarkers(w io.Writer, fp workspace.Fingerprint) {
	for _, m := range []struct {
		present bool
		label   string
	}{
		{fp.HasI18n, workspace.MarkerRel(workspace.I18nDir) + "/"},
		{fp.HasSessionContext, workspace.MarkerRel(workspace.SessionContextFile)},
		{fp.HasAssetsCatalog, workspace.MarkerRel(workspace.AssetsCatalogFile)},
		{fp.HasAssetsConfig, "mcp.assets in " + workspace.MarkerRel(workspace.ConfigFile)},
	} {
		if m.present {
			fmt.Fprintf(w, "  %s %s\n", okStyle.Render("[ OK ]"), m.label)
		} else {
			fmt.Fprintf(w, "  %s %s\n", dimStyle.Render("[MISS]"), m.label)
		}
	}
	if fp.CorruptConfig {
		fmt.Fprintf(w, "  %s %s could not be parsed\n", errorStyle.Render("[FAIL]"), workspace.MarkerRel(workspace.ConfigFile))
	}
}

func printPlan(w io.Writer, plan migrate.Plan) {
	switch plan.Outcome {
	case migrate.OutcomeUpToDate:
		fmt.Fprintf(w, "  %s Up to date with v%s\n", okStyle.Render("[ OK ]"), plan.TargetVersion)
	case migrate.OutcomeAhead:
		fmt.Fprintf(w, "  %s Newer than this tool (v%s)\n", warnStyle.Render("[WARN]"), plan.TargetVersion)
	case migrate.OutcomeUpgrade:
		fmt.Fprintf(w, "  %s Upgrade available to v%s:", warnStyle.Render("[INFO]"), plan.TargetVersion)
		for _, id := range plan.Steps {
			from, to := id.Transition()
			fmt.Fprintf(w, " %s→%s", from.Label(), to.Label())
		}
		fmt.Fprintf(w, " (run `%s upgrade`)\n", branding.CLIName())
	}
}
