package workspace

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"go.yaml.in/yaml/v3"
)

// DefaultVersion is reported for workspaces whose config carries no
// version, or cannot be read at all.
const DefaultVersion = "1.x"

// Config represents .skgd/config.yaml. Every section keeps an inline Extra
// bag so keys this tool does not know about survive a load/save cycle.
type Config struct {
	Version string               `yaml:"version,omitempty"`
	Project *ProjectSection      `yaml:"project,omitempty"`
	Engine  string               `yaml:"engine,omitempty"`
	Models  *ModelsSection       `yaml:"models,omitempty"`
	Shell   string               `yaml:"shell,omitempty"`
	User    *UserSection         `yaml:"user,omitempty"`
	MCP     *MCPSection          `yaml:"mcp,omitempty"`
	Extra   map[string]yaml.Node `yaml:",inline"`

	exists  bool
	corrupt []byte
	readErr error
}

// ProjectSection holds project identity.
type ProjectSection struct {
	Name  string               `yaml:"name,omitempty"`
	Extra map[string]yaml.Node `yaml:",inline"`
}

// ModelsSection holds model selection.
type ModelsSection struct {
	Default string               `yaml:"default,omitempty"`
	Extra   map[string]yaml.Node `yaml:",inline"`
}

// UserSection holds per-user preferences.
type UserSection struct {
	Language string               `yaml:"language,omitempty"`
	Extra    map[string]yaml.Node `yaml:",inline"`
}

// MCPSection describes which external capability providers are enabled
// or required.
type MCPSection struct {
	Engine *EngineMCP           `yaml:"engine,omitempty"`
	Assets *AssetsSection       `yaml:"assets,omitempty"`
	Extra  map[string]yaml.Node `yaml:",inline"`
}

// EngineMCP lists the engine MCP servers and which one is active.
type EngineMCP struct {
	Active string               `yaml:"active,omitempty"`
	Unity  *MCPStatus           `yaml:"unity,omitempty"`
	GDAI   *MCPStatus           `yaml:"gdai,omitempty"`
	Extra  map[string]yaml.Node `yaml:",inline"`
}

// MCPStatus is the required/status pair tracked per engine MCP. Fields
// the document leaves out stay out.
type MCPStatus struct {
	Required *bool                `yaml:"required,omitempty"`
	Status   string               `yaml:"status,omitempty"`
	Extra    map[string]yaml.Node `yaml:",inline"`
}

// AssetsSection configures the asset pipeline. A nil Profile means no art
// style was chosen; it is written as null only when the loaded document
// had it as null or NewAssetsSection built the section.
type AssetsSection struct {
	Profile  *string              `yaml:"profile,omitempty"`
	Blender  *AssetProvider       `yaml:"blender,omitempty"`
	PixelLab *AssetProvider       `yaml:"pixellab,omitempty"`
	Extra    map[string]yaml.Node `yaml:",inline"`

	nullProfile bool
}

// assetsFields has the fields of AssetsSection without its YAML methods.
type assetsFields AssetsSection

// UnmarshalYAML decodes the section and remembers an explicit
// "profile: null".
func (s *AssetsSection) UnmarshalYAML(n *yaml.Node) error {
	if err := n.Decode((*assetsFields)(s)); err != nil {
		return err
	}
	s.nullProfile = false
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "profile" && n.Content[i+1].ShortTag() == "!!null" {
			s.nullProfile = true
		}
	}
	return nil
}

// MarshalYAML writes the section, with a leading "profile: null" when the
// profile is unset but was null when loaded or built.
func (s AssetsSection) MarshalYAML() (any, error) {
	var n yaml.Node
	if err := n.Encode(assetsFields(s)); err != nil {
		return nil, err
	}
	if s.Profile == nil && s.nullProfile {
		n.Content = append([]*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "profile"},
			{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"},
		}, n.Content...)
	}
	return &n, nil
}

// AssetProvider is one asset-creation MCP.
type AssetProvider struct {
	Enabled      *bool                `yaml:"enabled,omitempty"`
	Status       string               `yaml:"status,omitempty"`
	ExportFormat string               `yaml:"export_format,omitempty"`
	Extra        map[string]yaml.Node `yaml:",inline"`
}

// StatusUnchecked is the initial status of every MCP entry.
const StatusUnchecked = "unchecked"

// NewMCPStatus returns an unchecked engine MCP entry.
func NewMCPStatus(required bool) *MCPStatus {
	return &MCPStatus{Required: &required, Status: StatusUnchecked}
}

// IsRequired reports required, treating an absent key as false.
func (s *MCPStatus) IsRequired() bool {
	return s != nil && s.Required != nil && *s.Required
}

// IsEnabled reports enabled, treating an absent key as false.
func (p *AssetProvider) IsEnabled() bool {
	return p != nil && p.Enabled != nil && *p.Enabled
}

// ConfigPath returns the full path to .skgd/config.yaml.
func (w Workspace) ConfigPath() string {
	return w.Marker(ConfigFile)
}

// LoadConfig reads .skgd/config.yaml. It never fails: a missing file
// yields an empty document and an unparseable one yields an empty
// document that remembers the original bytes, so SaveConfig can back
// them up before replacing them. A file that exists but cannot be read
// yields an empty document that SaveConfig refuses to write.
func LoadConfig(w Workspace) *Config {
	data, err := os.ReadFile(w.ConfigPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}
		}
		return &Config{exists: true, readErr: err}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &Config{exists: true, corrupt: data}
	}
	cfg.exists = true
	return &cfg
}

// SaveConfig writes cfg to .skgd/config.yaml atomically. If the document
// was loaded from an unparseable file, the original bytes are copied to
// .skgd/config.yaml.bak first.
func SaveConfig(w Workspace, cfg *Config) error {
	if cfg.readErr != nil {
		return fmt.Errorf("refusing to overwrite config that could not be read: %w", cfg.readErr)
	}
	if cfg.corrupt != nil {
		backup := w.Marker(ConfigBackupFile)
		if err := os.WriteFile(backup, cfg.corrupt, 0o644); err != nil {
			return fmt.Errorf("backing up unreadable config to %s: %w", backup, err)
		}
		cfg.corrupt = nil
	}

	data, err := marshalYAML(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := writeDocument(w.ConfigPath(), data); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	cfg.exists = true
	return nil
}

// Exists reports whether config.yaml was present when loaded.
func (c *Config) Exists() bool { return c.exists }

// Corrupt reports whether config.yaml was present but unparseable.
func (c *Config) Corrupt() bool { return c.corrupt != nil }

// Err returns the error that kept config.yaml from being read, if any.
func (c *Config) Err() error { return c.readErr }

// VersionOrDefault returns the version field, or DefaultVersion when the
// document or field is absent.
func (c *Config) VersionOrDefault() string {
	if c.Version == "" {
		return DefaultVersion
	}
	return c.Version
}

// Language returns user.language, or "" when unset.
func (c *Config) Language() string {
	if c.User == nil {
		return ""
	}
	return c.User.Language
}

// HasAssets reports whether the mcp.assets section is present.
func (c *Config) HasAssets() bool {
	return c.MCP != nil && c.MCP.Assets != nil
}

// EnsureProject returns the project section, creating it if absent.
func (c *Config) EnsureProject() *ProjectSection {
	if c.Project == nil {
		c.Project = &ProjectSection{}
	}
	return c.Project
}

// EnsureModels returns the models section, creating it if absent.
func (c *Config) EnsureModels() *ModelsSection {
	if c.Models == nil {
		c.Models = &ModelsSection{}
	}
	return c.Models
}

// EnsureUser returns the user section, creating it if absent.
func (c *Config) EnsureUser() *UserSection {
	if c.User == nil {
		c.User = &UserSection{}
	}
	return c.User
}

// EnsureMCP returns the mcp section, creating it if absent.
func (c *Config) EnsureMCP() *MCPSection {
	if c.MCP == nil {
		c.MCP = &MCPSection{}
	}
	return c.MCP
}

// EnsureEngineMCP returns mcp.engine, creating the path if absent.
func (c *Config) EnsureEngineMCP() *EngineMCP {
	m := c.EnsureMCP()
	if m.Engine == nil {
		m.Engine = &EngineMCP{}
	}
	return m.Engine
}

// NewAssetsSection builds the default mcp.assets section for an art style
// and the set of enabled providers. An empty artStyle leaves the profile
// null.
func NewAssetsSection(artStyle string, providers []string) *AssetsSection {
	enabled := make(map[string]bool, len(providers))
	for _, p := range providers {
		enabled[p] = true
	}
	blender, pixelLab := enabled[ProviderBlender], enabled[ProviderPixelLab]
	s := &AssetsSection{
		Blender: &AssetProvider{
			Enabled:      &blender,
			Status:       StatusUnchecked,
			ExportFormat: "fbx",
		},
		PixelLab: &AssetProvider{
			Enabled: &pixelLab,
			Status:  StatusUnchecked,
		},
		nullProfile: artStyle == "",
	}
	if artStyle != "" {
		profile := artStyle
		s.Profile = &profile
	}
	return s
}

// Asset provider identifiers.
const (
	ProviderBlender  = "blender"
	ProviderPixelLab = "pixellab"
)

// marshalYAML encodes v with the two-space indentation used by every
// document in a workspace.
func marshalYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeDocument replaces path atomically. atomic.WriteFile does not set
// permissions for new files, so they are fixed up afterwards.
func writeDocument(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	_, statErr := os.Stat(path)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return err
	}
	if errors.Is(statErr, fs.ErrNotExist) {
		return os.Chmod(path, 0o644)
	}
	return nil
}
