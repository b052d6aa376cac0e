package platform

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "exists.txt")
	os.WriteFile(f, []byte("hi"), 0644)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file", f, true},
		{"existing directory", dir, true},
		{"nonexistent file", filepath.Join(dir, "nope.txt"), false},
		{"nonexistent nested", filepath.Join(dir, "a", "b", "nope.txt"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FileExists(tt.path)
			if got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func writeTestZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestExtractZip_FiltersAndFlattens(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "fonts.zip")
	writeTestZip(t, archive, map[string]string{
		"ttf/CaskaydiaCove-Regular.ttf": "regular",
		"ttf/CaskaydiaCove-Bold.ttf":    "bold",
		"LICENSE":                       "license",
	})

	dest := filepath.Join(dir, "out")
	written, err := ExtractZip(archive, dest, func(name string) bool {
		return filepath.Ext(name) == ".ttf"
	})
	if err != nil {
		t.Fatalf("ExtractZip() error = %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("written = %v, want 2 files", written)
	}
	data, err := os.ReadFile(filepath.Join(dest, "CaskaydiaCove-Bold.ttf"))
	if err != nil {
		t.Fatalf("reading extracted file: %v", err)
	}
	if string(data) != "bold" {
		t.Errorf("content = %q, want %q", data, "bold")
	}
	if FileExists(filepath.Join(dest, "LICENSE")) {
		t.Error("filtered file should not be extracted")
	}
}

func TestExtractZip_NilKeepExtractsAll(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "a.zip")
	writeTestZip(t, archive, map[string]string{"a.txt": "a", "nested/b.txt": "b"})

	written, err := ExtractZip(archive, filepath.Join(dir, "out"), nil)
	if err != nil {
		t.Fatalf("ExtractZip() error = %v", err)
	}
	if len(written) != 2 {
		t.Errorf("written = %v, want 2 files", written)
	}
}

func TestExtractZip_NotAZip(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "bogus.zip")
	os.WriteFile(bogus, []byte("not a zip"), 0644)
	if _, err := ExtractZip(bogus, dir, nil); err == nil {
		t.Error("ExtractZip() expected error for invalid archive")
	}
}
