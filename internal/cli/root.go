package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skgd-labs/skgd/internal/branding"
	"github.com/skgd-labs/skgd/internal/config"
	"github.com/skgd-labs/skgd/internal/logging"
	"github.com/skgd-labs/skgd/internal/prompt"
	"github.com/skgd-labs/skgd/internal/templates"
	"github.com/skgd-labs/skgd/internal/tools"
	"github.com/skgd-labs/skgd/internal/workspace"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
	workDir string
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds game projects with an AI-assisted workflow
(commands, skills, memory and asset pipeline) and upgrades existing projects
to the latest workflow version without touching your briefs, specs or learnings.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostic details to stderr")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", "", "Run as if started in this directory")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}

// env bundles the collaborators a command needs, so command logic can be
// exercised with fakes.
type env struct {
	out      io.Writer
	prompter prompt.Prompter
	detector tools.Detector
	src      *templates.Source
	log      *zap.Logger
	defaults config.Defaults
	ctx      context.Context
}

// newEnv builds the production collaborators for cmd. With interactive
// false every prompt takes its default.
func newEnv(cmd *cobra.Command, interactive bool) *env {
	var p prompt.Prompter = prompt.Defaults{}
	if interactive {
		p = prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
	}
	return &env{
		out:      cmd.OutOrStdout(),
		prompter: p,
		detector: tools.ExecDetector{Timeout: tools.DefaultTimeout},
		src:      templates.Embedded(),
		log:      logger,
		defaults: config.LoadDefault().Defaults(),
		ctx:      cmd.Context(),
	}
}

// currentDir resolves --dir, defaulting to the process working directory.
func currentDir() (string, error) {
	if workDir != "" {
		return workDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}

func currentWorkspace() (workspace.Workspace, error) {
	dir, err := currentDir()
	if err != nil {
		return workspace.Workspace{}, err
	}
	return workspace.New(dir), nil
}
