// Package testutil provides common test helpers for the envctx project.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempConfigFile creates a temporary config.toml with the given content
// and returns its path. The file is automatically cleaned up.
func TempConfigFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("TempConfigFile: write failed: %v", err)
	}

	return path
}

// TempProjectDir creates a temporary project directory containing an
// environment.yml with the given content. Returns the directory path.
func TempProjectDir(t *testing.T, descriptor string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "environment.yml")

	if err := os.WriteFile(path, []byte(descriptor), 0644); err != nil {
		t.Fatalf("TempProjectDir: write failed: %v", err)
	}

	return dir
}

// SampleDescriptor returns a minimal valid descriptor with the given name.
func SampleDescriptor(name string) string {
	return "name: " + name + "\nchannels:\n  - conda-forge\ndependencies:\n  - python=3.8\n"
}

// MakeVenv creates a fake virtual environment layout (bin/activate and
// bin/activate.fish) under dir/name and returns its path.
func MakeVenv(t *testing.T, dir, name string) string {
	t.Helper()

	venv := filepath.Join(dir, name)
	binDir := filepath.Join(venv, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatalf("MakeVenv: mkdir failed: %v", err)
	}
	for _, f := range []string{"activate", "activate.fish"} {
		if err := os.WriteFile(filepath.Join(binDir, f), []byte("# stub\n"), 0644); err != nil {
			t.Fatalf("MakeVenv: write failed: %v", err)
		}
	}

	return venv
}

// MakeSubdir creates an empty subdirectory under dir and returns its path.
func MakeSubdir(t *testing.T, dir, name string) string {
	t.Helper()

	sub := filepath.Join(dir, name)
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("MakeSubdir: mkdir failed: %v", err)
	}

	return sub
}
