package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/skgd-labs/skgd/internal/prompt"
	"github.com/skgd-labs/skgd/internal/templates"
	"github.com/skgd-labs/skgd/internal/tools"
)

// fakeDetector reports the listed tools as installed.
type fakeDetector map[string]string

func (f fakeDetector) Detect(_ context.Context, name string) tools.Status {
	version, ok := f[name]
	return tools.Status{Name: name, Installed: ok, Version: version}
}

func testEnv(p prompt.Prompter, installed fakeDetector) (*env, *bytes.Buffer) {
	var out bytes.Buffer
	return &env{
		out:      &out,
		prompter: p,
		detector: installed,
		src:      templates.Embedded(),
		log:      zap.NewNop(),
		ctx:      context.Background(),
	}, &out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
