package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/skgd-labs/skgd/internal/branding"
	"github.com/skgd-labs/skgd/internal/migrate"
	"github.com/skgd-labs/skgd/internal/workspace"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00BCD4"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	headingStyle = lipgloss.NewStyle().Bold(true)

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#00BCD4")).
			Padding(0, 4).
			Align(lipgloss.Center)
	successBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#4CAF50")).
			Padding(0, 3)
	infoBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00BCD4")).
			Padding(0, 2)
)

func printBanner(w io.Writer) {
	title := titleStyle.Render(strings.ToUpper(branding.DisplayName()))
	fmt.Fprintln(w)
	fmt.Fprintln(w, bannerStyle.Render(title+"\n"+"G A M E   D E V   W O R K F L O W"+"\n"+"v"+branding.SKGDVersion()))
	fmt.Fprintln(w)
}

// statusLine prints one "[OK]"/"[--]" check result.
func statusLine(w io.Writer, ok bool, text string) {
	if ok {
		fmt.Fprintf(w, "  %s %s\n", okStyle.Render("[OK]"), text)
		return
	}
	fmt.Fprintf(w, "  %s %s\n", warnStyle.Render("[--]"), text)
}

// preservePreview lists the user content an upgrade will keep, as shown
// before the user confirms.
func preservePreview(fp workspace.Fingerprint) []string {
	var out []string
	if fp.HasBrief {
		out = append(out, workspace.BriefRel)
	}
	if fp.SpecsCount > 0 {
		out = append(out, fmt.Sprintf("%s/ (%d features)", workspace.SpecsRel, fp.SpecsCount))
	}
	if fp.HasLearnings {
		out = append(out, workspace.MarkerRel(workspace.LearningsFile))
	}
	if fp.HasLearningsCore {
		out = append(out, workspace.MarkerRel(workspace.LearningsCoreFile))
	}
	if fp.HasConstitution {
		out = append(out, workspace.MarkerRel(workspace.ConstitutionFile))
	}
	if fp.HasState {
		out = append(out, workspace.MarkerRel(workspace.StateFile))
	}
	if fp.HasRoadmap {
		out = append(out, workspace.MarkerRel(workspace.RoadmapFile))
	}
	return out
}

func printPreview(w io.Writer, lang string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, headingStyle.Render(printerFor(lang).Sprintf(msgWillPreserve)))
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", okStyle.Render(item))
	}
	fmt.Fprintln(w)
}

// printSummary renders what one migration step changed.
func printSummary(w io.Writer, lang string, sum *migrate.Summary) {
	p := printerFor(lang)

	fmt.Fprintln(w)
	fmt.Fprintln(w, successBoxStyle.Render(okStyle.Bold(true).Render("✓  "+p.Sprintf(msgUpgraded, sum.ToVersion))))
	fmt.Fprintln(w)

	fmt.Fprintln(w, accentStyle.Bold(true).Render("  "+p.Sprintf(msgChanges)))
	fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("     ✓ Commands updated (%d files)", sum.CommandsUpdated)))
	if sum.SkillsUpdated > 0 {
		fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("     ✓ Skills added/updated (%d skills)", sum.SkillsUpdated)))
	}
	if sum.DataUpdated > 0 {
		fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("     ✓ Reference data updated (%d files)", sum.DataUpdated)))
	}
	if sum.AgentsUpdated > 0 {
		fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("     ✓ Agents refreshed (%d files)", sum.AgentsUpdated)))
	}
	if len(sum.Added) > 0 {
		fmt.Fprintln(w, okStyle.Render("     ✓ New templates added:"))
		for _, a := range sum.Added {
			fmt.Fprintf(w, "        └─ %s\n", a)
		}
	}
	switch sum.Step {
	case migrate.StepLocalization:
		fmt.Fprintln(w, okStyle.Render("     ✓ i18n support added"))
		fmt.Fprintln(w, okStyle.Render("     ✓ Living Memory structure created"))
	case migrate.StepAssetPipeline:
		fmt.Fprintln(w, okStyle.Render("     ✓ Asset pipeline added"))
	}
	fmt.Fprintln(w)

	if len(sum.Preserved) > 0 {
		fmt.Fprintln(w, warnStyle.Bold(true).Render("  "+p.Sprintf(msgPreserved)))
		for _, item := range sum.Preserved {
			fmt.Fprintf(w, "     └─ %s\n", item)
		}
		fmt.Fprintln(w)
	}
}

// printFeatures closes an upgrade report with what the new version brings.
func printFeatures(w io.Writer, lang string, sums []*migrate.Summary) {
	if len(sums) == 0 {
		return
	}
	p := printerFor(lang)
	last := sums[len(sums)-1]

	var lines []string
	switch {
	case last.Step == migrate.StepRefresh:
		lines = []string{
			"/next        - Zero-friction continue (auto-execute)",
			"/assets      - Asset pipeline with PixelLab MCP",
			"Auto-Suggest - Post-command suggestions",
			"Quality Gates- Validation checkpoints in /implement",
		}
	case last.To == migrate.G3:
		lines = []string{
			"/implement   - Unified Unity/Godot (auto-detect)",
			"Scout-First  - Context gathering via Haiku",
			"/assets      - Asset pipeline with Blender and PixelLab",
		}
	default:
		lines = []string{
			"/crystallize - Compress your learnings",
			"/brainstorm  - Now with spark mode",
			"/continue    - Flow preservation",
		}
	}
	body := headingStyle.Render(p.Sprintf(msgNewFeatures)) + "\n\n" + strings.Join(lines, "\n")
	fmt.Fprintln(w, infoBoxStyle.Render(body))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  "+p.Sprintf(msgResume, accentStyle.Render("/continue")))
	fmt.Fprintln(w)
}

// printPartial reports where a migration stopped and what the failing step
// changed. Summaries of the completed steps are printed by the caller.
func printPartial(w io.Writer, merr *migrate.MigrationError) {
	fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("Upgrade stopped at step %d (%s).", merr.Index+1, merr.Step)))
	if merr.Partial != nil && (merr.Partial.CommandsUpdated > 0 || len(merr.Partial.Added) > 0) {
		fmt.Fprintf(w, "  Before failing it updated %d command files and added:\n", merr.Partial.CommandsUpdated)
		for _, a := range merr.Partial.Added {
			fmt.Fprintf(w, "     └─ %s\n", a)
		}
	}
	fmt.Fprintln(w, dimStyle.Render("  Every step is safe to re-run: fix the problem and run the upgrade again."))
}

func printCreated(w io.Writer, lang, name, engine, root string) {
	p := printerFor(lang)
	engineName := engineDisplayName(engine)

	fmt.Fprintln(w)
	fmt.Fprintln(w, successBoxStyle.Render(okStyle.Bold(true).Render("✓  "+p.Sprintf(msgCreated))))
	fmt.Fprintln(w)
	info := fmt.Sprintf("Project: %s\nEngine:  %s\nPath:    %s",
		accentStyle.Bold(true).Render(name), warnStyle.Render(engineName), root)
	fmt.Fprintln(w, infoBoxStyle.Render(info))
	fmt.Fprintln(w)

	fmt.Fprintln(w, warnStyle.Bold(true).Render("  "+p.Sprintf(msgNextSteps)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "     1. %s\n", p.Sprintf(msgStepCD, name))
	fmt.Fprintf(w, "     2. %s\n", p.Sprintf(msgStepOpen, engineName))
	fmt.Fprintf(w, "     3. %s\n", p.Sprintf(msgStepClaude, accentStyle.Render("claude")))
	fmt.Fprintf(w, "     4. %s\n", p.Sprintf(msgStepInit, accentStyle.Render("/init")))
	fmt.Fprintln(w)
}

func engineDisplayName(engine string) string {
	if engine == migrate.EngineGodot {
		return "Godot"
	}
	return "Unity"
}
