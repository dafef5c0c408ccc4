package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPage(t *testing.T) {
	page := DefaultPage()

	if !strings.HasPrefix(page, "Online Experience:\n") {
		t.Errorf("unexpected first line: %q", strings.SplitN(page, "\n", 2)[0])
	}
	if strings.HasSuffix(page, "\n") {
		t.Error("trailing newline not dropped")
	}
	if n := strings.Count(page, "\n") + 1; n < 50 {
		t.Errorf("built-in page has %d lines, expected a full page", n)
	}
}

func TestPageTextDefault(t *testing.T) {
	m := NewManager()
	defer m.Close()

	got, err := m.PageText("")
	if err != nil {
		t.Fatalf("PageText: %v", err)
	}
	if got != DefaultPage() {
		t.Error("empty path should select the built-in page")
	}
}

func TestPageTextDefaultIgnoresWorkingDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(DefaultPageName, []byte("stray file"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	m.AddDir(dir)
	defer m.Close()

	got, err := m.PageText("")
	if err != nil {
		t.Fatalf("PageText: %v", err)
	}
	if got != DefaultPage() {
		t.Errorf("PageText(\"\") = %q, want the built-in page", got)
	}
}

func TestPageTextFromSearchDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("from config dir\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	m.AddDir(dir)
	defer m.Close()

	got, err := m.PageText("notes.txt")
	if err != nil {
		t.Fatalf("PageText: %v", err)
	}
	if got != "from config dir" {
		t.Errorf("PageText = %q", got)
	}
}

func TestPageTextFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("first\r\nsecond\r\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	got, err := m.PageText(path)
	if err != nil {
		t.Fatalf("PageText: %v", err)
	}
	if got != "first\r\nsecond" {
		t.Errorf("PageText = %q", got)
	}
}

func TestPageTextRejectsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.bin")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 'a'}, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewManager().PageText(path)
	if !errors.Is(err, ErrNotUTF8) {
		t.Errorf("PageText error = %v, want ErrNotUTF8", err)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	low := t.TempDir()
	high := t.TempDir()
	os.WriteFile(filepath.Join(low, "a.txt"), []byte("low"), 0644)
	os.WriteFile(filepath.Join(high, "a.txt"), []byte("high"), 0644)
	os.WriteFile(filepath.Join(low, "b.txt"), []byte("only low"), 0644)

	m := NewManager()
	m.AddDir(low)
	m.AddDir(high)

	tests := map[string]string{
		"a.txt": "high",
		"b.txt": "only low",
	}
	for name, want := range tests {
		got, err := m.Load(name)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if string(got) != want {
			t.Errorf("Load(%s) = %q, want %q", name, got, want)
		}
	}

	if _, err := m.Load("missing.txt"); err == nil {
		t.Error("expected error for missing asset")
	}
}

func TestLoadCaches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.txt")
	os.WriteFile(path, []byte("v1"), 0644)

	m := NewManager()
	if _, err := m.Load(path); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(path, []byte("v2"), 0644)

	got, _ := m.Load(path)
	if string(got) != "v1" {
		t.Errorf("second Load = %q, want cached v1", got)
	}

	m.Close()
	got, _ = m.Load(path)
	if string(got) != "v2" {
		t.Errorf("Load after Close = %q, want v2", got)
	}
}
