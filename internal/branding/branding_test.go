package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if got := CLIName(); got != "skgd" {
		t.Errorf("CLIName() = %q, want %q", got, "skgd")
	}
	if got := WorkspaceDir(); got != ".skgd" {
		t.Errorf("WorkspaceDir() = %q, want %q", got, ".skgd")
	}
	if got := SKGDVersion(); got == "" {
		t.Error("SKGDVersion() should not be empty")
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("lang"); got != "SKGD_LANG" {
		t.Errorf("EnvVar(lang) = %q, want %q", got, "SKGD_LANG")
	}
}
