package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skgd-labs/skgd/internal/catalog"
	"github.com/skgd-labs/skgd/internal/tools"
)

const (
	claudeInstall   = "npm install -g @anthropic-ai/claude-code"
	unityMCPInstall = "claude mcp add unity-mcp -- uvx --from git+https://github.com/SirLorrence/unity-mcp unity-mcp"
	unityMCPProbe   = `mcp__UnityMCP__manage_editor with action: "get_state"`
	godotMCPProbe   = `mcp__gdai__get_project_info`
	blenderDownload = "https://www.blender.org/download/"
)

func init() {
	rootCmd.AddCommand(checkMCPCmd)
	rootCmd.AddCommand(checkAssetsCmd)
}

var checkMCPCmd = &cobra.Command{
	Use:   "check-mcp",
	Short: "Check Claude CLI and engine MCP setup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheckMCP(newEnv(cmd, false))
	},
}

var checkAssetsCmd = &cobra.Command{
	Use:   "check-assets",
	Short: "Check asset pipeline tools and MCPs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheckAssets(newEnv(cmd, false))
	},
}

func runCheckMCP(e *env) error {
	w := e.out
	printBanner(w)
	fmt.Fprintln(w, "Checking MCP setup...")
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingStyle.Render("1. Claude Code CLI"))
	st := e.detector.Detect(contextOf(e), tools.Claude)
	if st.Installed {
		statusLine(w, true, "Installed "+dimStyle.Render(st.Version))
	} else {
		fmt.Fprintf(w, "  %s Not found\n", errorStyle.Render("[X]"))
		fmt.Fprintf(w, "      Install: %s\n", accentStyle.Render(claudeInstall))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingStyle.Render("2. Unity MCP"))
	fmt.Fprintln(w, "  Run this in Claude Code to check:")
	fmt.Fprintf(w, "  %s\n", accentStyle.Render(unityMCPProbe))
	fmt.Fprintln(w, "  If not installed:")
	fmt.Fprintf(w, "  %s\n", accentStyle.Render(unityMCPInstall))
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingStyle.Render("3. Godot MCP (GDAI)"))
	fmt.Fprintln(w, "  Run this in Claude Code to check:")
	fmt.Fprintf(w, "  %s\n", accentStyle.Render(godotMCPProbe))
	fmt.Fprintln(w)
	return nil
}

func runCheckAssets(e *env) error {
	w := e.out
	printBanner(w)
	fmt.Fprintln(w, "Checking asset pipeline setup...")
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingStyle.Render("1. Local tools"))
	blender := e.detector.Detect(contextOf(e), tools.Blender)
	if blender.Installed {
		statusLine(w, true, "Blender installed "+dimStyle.Render(blender.Version))
	} else {
		statusLine(w, false, "Blender not found")
		fmt.Fprintf(w, "       Install from: %s\n", blenderDownload)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingStyle.Render("2. Asset MCPs"))
	for _, p := range catalog.Providers {
		fmt.Fprintf(w, "  %s:\n", p.Name)
		fmt.Fprintf(w, "       %s\n", p.Description)
		fmt.Fprintf(w, "       Install: %s\n", accentStyle.Render(p.Install))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingStyle.Render("3. Recommendations by art style"))
	for _, style := range catalog.ArtStyles {
		var names []string
		for _, key := range catalog.RecommendProviders(style.Key, true) {
			if p, ok := catalog.ProviderByKey(key); ok {
				names = append(names, p.Name)
			}
		}
		fmt.Fprintf(w, "  %-14s %s\n", style.Key+":", strings.Join(names, ", "))
	}
	if !blender.Installed {
		fmt.Fprintln(w, dimStyle.Render("  Blender MCP requires a local Blender install."))
	}
	fmt.Fprintln(w)
	return nil
}
