package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.yaml.in/yaml/v3"
)

// State represents .skgd/state.yaml, the run-state document the workflow
// commands keep their queues in. Only the assets section is modelled; all
// other sections pass through Extra untouched.
type State struct {
	Assets *AssetsState         `yaml:"assets,omitempty"`
	Extra  map[string]yaml.Node `yaml:",inline"`

	exists  bool
	corrupt bool
}

// AssetsState holds the asset pipeline queues.
type AssetsState struct {
	Queue        []any                `yaml:"queue"`
	Generated    []any                `yaml:"generated"`
	Placeholders []any                `yaml:"placeholders"`
	Extra        map[string]yaml.Node `yaml:",inline"`
}

// NewAssetsState returns an assets section with empty queues.
func NewAssetsState() *AssetsState {
	return &AssetsState{
		Queue:        []any{},
		Generated:    []any{},
		Placeholders: []any{},
	}
}

// StatePath returns the full path to .skgd/state.yaml.
func (w Workspace) StatePath() string {
	return w.Marker(StateFile)
}

// LoadState reads .skgd/state.yaml. Like LoadConfig it never fails; callers
// check Exists and Corrupt before deciding whether to write.
func LoadState(w Workspace) *State {
	data, err := os.ReadFile(w.StatePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &State{}
		}
		return &State{exists: true, corrupt: true}
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return &State{exists: true, corrupt: true}
	}
	st.exists = true
	return &st
}

// SaveState writes st to .skgd/state.yaml atomically. Saving a state that
// was loaded from an unparseable file is refused so it is never replaced
// wholesale.
func SaveState(w Workspace, st *State) error {
	if st.corrupt {
		return fmt.Errorf("refusing to overwrite unreadable %s", w.StatePath())
	}
	data, err := marshalYAML(st)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	if err := writeDocument(w.StatePath(), data); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	st.exists = true
	return nil
}

// Exists reports whether state.yaml was present when loaded.
func (s *State) Exists() bool { return s.exists }

// Corrupt reports whether state.yaml was present but unparseable.
func (s *State) Corrupt() bool { return s.corrupt }

// Sections returns the number of top-level sections in the document.
func (s *State) Sections() int {
	n := len(s.Extra)
	if s.Assets != nil {
		n++
	}
	return n
}
