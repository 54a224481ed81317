package tools

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// fakeTool installs an executable shell script named name on a private PATH.
func fakeTool(t *testing.T, name, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, name)
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestExecDetector(t *testing.T) {
	t.Run("installed", func(t *testing.T) {
		fakeTool(t, Blender, "echo 'Blender 4.2.0'\necho 'build date: today'\n")

		st := ExecDetector{}.Detect(context.Background(), Blender)
		if !st.Installed {
			t.Fatalf("Installed = false, want true (%+v)", st)
		}
		if st.Version != "Blender 4.2.0" {
			t.Errorf("Version = %q, want first line", st.Version)
		}
	})

	t.Run("failing version command", func(t *testing.T) {
		fakeTool(t, Claude, "exit 3\n")

		st := ExecDetector{}.Detect(context.Background(), Claude)
		if st.Installed {
			t.Error("Installed = true for a failing probe")
		}
		if st.Path == "" {
			t.Error("Path empty, want the resolved executable")
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())

		st := ExecDetector{}.Detect(context.Background(), Claude)
		if st.Installed || st.Path != "" {
			t.Errorf("Detect() = %+v, want not found", st)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		fakeTool(t, Blender, "exec sleep 5\n")

		start := time.Now()
		st := ExecDetector{Timeout: 100 * time.Millisecond}.Detect(context.Background(), Blender)
		if st.Installed {
			t.Error("Installed = true for a hung probe")
		}
		if elapsed := time.Since(start); elapsed > 3*time.Second {
			t.Errorf("probe took %v, want it bounded by the timeout", elapsed)
		}
	})
}
