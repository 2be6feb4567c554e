package config

import (
	"os"
	"path/filepath"
)

// ConfigFileName is the file looked up when no explicit config path is given.
const ConfigFileName = "clinocontour.yaml"

// ExecutableDir returns the directory holding the running binary with
// symlinks resolved, or "" if it cannot be determined.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// ConfigSearchPaths lists the default config locations in lookup order: the
// working directory, its configs/ folder, then the same two next to the
// executable.
func ConfigSearchPaths() []string {
	locations := []string{
		ConfigFileName,
		filepath.Join("configs", ConfigFileName),
	}
	if dir := ExecutableDir(); dir != "" {
		locations = append(locations,
			filepath.Join(dir, ConfigFileName),
			filepath.Join(dir, "configs", ConfigFileName),
		)
	}
	return locations
}
