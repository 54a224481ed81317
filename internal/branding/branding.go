// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml, then rebuild. Go's //go:embed bakes it into
// the binary so the workspace marker directory and the workflow version the
// upgrader targets travel with the executable.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName      string `yaml:"cli_name"`
	DisplayName  string `yaml:"display_name"`
	Description  string `yaml:"description"`
	HomeDir      string `yaml:"home_dir"`
	EnvPrefix    string `yaml:"env_prefix"`
	GoModule     string `yaml:"go_module"`
	WorkspaceDir string `yaml:"workspace_dir"`
	SKGDVersion  string `yaml:"skgd_version"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:      "skgd",
			DisplayName:  "Spec Kit Game Dev",
			Description:  "AI-first workflow scaffolding for game development",
			HomeDir:      ".skgd-cli",
			EnvPrefix:    "SKGD",
			GoModule:     "github.com/skgd-labs/skgd",
			WorkspaceDir: ".skgd",
			SKGDVersion:  "3.6",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "skgd").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME holding user settings.
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "SKGD").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// WorkspaceDir returns the marker directory created inside every project.
func WorkspaceDir() string { load(); return defaults.WorkspaceDir }

// SKGDVersion returns the workflow version new and upgraded workspaces
// are stamped with.
func SKGDVersion() string { load(); return defaults.SKGDVersion }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("LANG") → "SKGD_LANG".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
