package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "clinocontour/internal/errors"
)

// SurveyExtensions are the file extensions treated as survey input
var SurveyExtensions = []string{".csv", ".xlsx"}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds survey files. Relative directories resolve against the
// base path.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// resolve joins a relative dir to the base path
func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindSurveyFiles lists the .csv and .xlsx files directly inside dir,
// sorted by name. Subdirectories and Excel lock files ("~$...") are
// skipped.
func (d *Discovery) FindSurveyFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, apperrors.NewFileAccessError(fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !IsSurveyFile(name) || strings.HasPrefix(name, "~$") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// IsSurveyFile reports whether name has a survey extension
func IsSurveyFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range SurveyExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

// DefaultOutputPath replaces the extension of input with .png, so
// "data/survey.csv" becomes "data/survey.png".
func DefaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
}

// OutputPathIn places the default output name for input inside dir. An
// empty dir keeps the input's directory.
func OutputPathIn(dir, input string) string {
	out := DefaultOutputPath(input)
	if dir == "" {
		return out
	}
	return filepath.Join(dir, filepath.Base(out))
}

// Describe formats a file for log and CLI output
func (f FileInfo) Describe() string {
	return fmt.Sprintf("%s (%d bytes, modified %s)", f.Name, f.Size, f.ModTime.Format(time.RFC3339))
}
