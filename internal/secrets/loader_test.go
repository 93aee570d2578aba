package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrefersFile(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "from-env")

	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	got, err := Load(Source{Name: "gemini api key", Value: "inline", File: path, Env: "TEST_GEMINI_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file value, got %q", got)
	}
}

func TestLoadFallsBackToEnv(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", " from-env ")

	got, err := Load(Source{Env: "TEST_GEMINI_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-env" {
		t.Fatalf("expected env value, got %q", got)
	}

	got, err = Load(Source{Value: "inline", Env: "TEST_GEMINI_KEY"})
	if err != nil || got != "inline" {
		t.Fatalf("expected inline value to win, got %q, %v", got, err)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "")

	_, err := Load(Source{Name: "gemini api key", Env: "TEST_GEMINI_KEY"})
	if err == nil || !strings.Contains(err.Error(), "TEST_GEMINI_KEY") {
		t.Fatalf("expected error naming the variable, got %v", err)
	}

	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	if _, err := Load(Source{File: empty}); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}

	if _, err := Load(Source{File: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatal("expected error for missing file")
	}
}
