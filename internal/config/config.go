package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/viper"

	"github.com/skgd-labs/skgd/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known keys.
const (
	KeyLanguage = "lang"
	KeyEngine   = "engine"
	KeyModel    = "model"
	KeyShell    = "shell"
)

// Keys lists the known keys in display order.
var Keys = []string{KeyLanguage, KeyEngine, KeyModel, KeyShell}

// Dir returns the path to the user config directory (~/.skgd-cli/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.skgd-cli/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Store reads and writes one user config file.
type Store struct {
	v    *viper.Viper
	path string
}

// Load reads the config file at path plus the environment. A missing file
// is not an error.
func Load(path string) *Store {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = v.ReadInConfig()
	return &Store{v: v, path: path}
}

// LoadDefault reads ~/.skgd-cli/config.yaml.
func LoadDefault() *Store {
	return Load(FilePath())
}

// Path returns the file backing the store.
func (s *Store) Path() string { return s.path }

// Get returns a config value by key. Returns empty string if not set.
func (s *Store) Get(key string) string {
	return s.v.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func (s *Store) Set(key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown key %q (known: %v)", key, Keys)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	s.v.Set(key, value)
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Defaults are the user's preferred answers. Empty fields mean "ask".
type Defaults struct {
	Language string
	Engine   string
	Model    string
	Shell    string
}

// Defaults returns the configured defaults.
func (s *Store) Defaults() Defaults {
	return Defaults{
		Language: s.Get(KeyLanguage),
		Engine:   s.Get(KeyEngine),
		Model:    s.Get(KeyModel),
		Shell:    s.Get(KeyShell),
	}
}
