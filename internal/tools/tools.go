// Package tools detects the external programs the workflow relies on.
package tools

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// Known tool executables.
const (
	Claude  = "claude"
	Blender = "blender"
)

// DefaultTimeout bounds each version probe.
const DefaultTimeout = 5 * time.Second

// Status is the result of probing one tool.
type Status struct {
	Name      string
	Path      string
	Version   string
	Installed bool
}

// Detector probes for an installed tool.
type Detector interface {
	Detect(ctx context.Context, name string) Status
}

// ExecDetector finds a tool on PATH and runs `<tool> --version`. A tool
// counts as installed only if that command exits zero within Timeout.
type ExecDetector struct {
	Timeout time.Duration
}

// Detect probes name. It never fails; problems show up as Installed=false.
func (d ExecDetector) Detect(ctx context.Context, name string) Status {
	st := Status{Name: name}
	bin, err := exec.LookPath(name)
	if err != nil {
		return st
	}
	st.Path = bin

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, "--version")
	cmd.WaitDelay = timeout
	out, err := cmd.Output()
	if err != nil {
		return st
	}
	st.Installed = true
	st.Version = firstLine(string(out))
	return st
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
