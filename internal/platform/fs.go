package platform

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileExists reports whether the named file or directory exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExtractZip writes the regular files of a zip archive whose base name passes
// keep into destDir, flattening the archive's directory structure. It returns
// the written paths. A nil keep extracts every file.
func ExtractZip(archive, destDir string, keep func(name string) bool) ([]string, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", archive, err)
	}
	defer zr.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, err
	}

	var written []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		base := filepath.Base(filepath.FromSlash(f.Name))
		if base == "." || strings.HasPrefix(base, "..") {
			continue
		}
		if keep != nil && !keep(base) {
			continue
		}
		dest := filepath.Join(destDir, base)
		if err := extractZipFile(f, dest); err != nil {
			return written, err
		}
		written = append(written, dest)
	}
	return written, nil
}

func extractZipFile(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
