package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunReportsConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "malformed yaml", body: "window: [\n", want: "export failed"},
		{name: "invalid value", body: "page:\n  dpi: 5000\n", want: "dpi 5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			cfg := writeConfig(t, tt.body)

			code := run([]string{"page", "-config", cfg, "-o", t.TempDir()}, &stderr)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(stderr.String(), tt.want) {
				t.Errorf("stderr %q does not mention %q", stderr.String(), tt.want)
			}
		})
	}
}

func TestRunWritesMesh(t *testing.T) {
	var stderr bytes.Buffer
	out := t.TempDir()

	if code := run([]string{"mesh", "-o", out, "-dpi", "100"}, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(out, "mobius.obj")); err != nil {
		t.Errorf("mesh not written: %v", err)
	}
	if !strings.Contains(stderr.String(), "no effect") {
		t.Errorf("expected a warning about page options, got %q", stderr.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{"bogus"}, &stderr); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Unknown command: bogus") {
		t.Errorf("stderr = %q", stderr.String())
	}
}
