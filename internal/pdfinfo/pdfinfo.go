// Package pdfinfo pre-flights PDFs before they are queued for upload.
package pdfinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Info describes a local PDF accepted for processing.
type Info struct {
	Name  string
	Path  string
	Size  int64
	Pages int
}

// IsPDF reports whether the filename has a .pdf extension.
// The backend enforces the same rule; rejecting early saves an upload.
func IsPDF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// Inspect validates that path points at a readable PDF and returns its
// display name, byte size and page count.
func Inspect(path string) (Info, error) {
	if !IsPDF(path) {
		return Info{}, fmt.Errorf("%s is not a PDF", filepath.Base(path))
	}

	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("cannot read %s: %w", filepath.Base(path), err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("%s is not a valid PDF: %w", filepath.Base(path), err)
	}

	return Info{
		Name:  filepath.Base(path),
		Path:  path,
		Size:  fi.Size(),
		Pages: pages,
	}, nil
}

// CollectDir returns all PDFs directly inside dir, sorted by directory order.
func CollectDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsPDF(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}
