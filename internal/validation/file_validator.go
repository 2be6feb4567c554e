package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "clinocontour/internal/errors"
	"clinocontour/internal/files"
)

// FileValidator checks survey inputs and output locations before a run
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateInputDirectory checks that dir exists and is a directory
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		v.logger.Error("Input directory is not accessible",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewFileAccessError(dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return apperrors.NewFileAccessError(dir, fmt.Errorf("%s is not a directory", dir))
	}
	return nil
}

// ValidateOutputDirectory creates dir if needed and checks it is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewFileAccessError(dir, err)
	}

	check, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewFileAccessError(dir, err)
	}
	check.Close()
	os.Remove(check.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateSurveyFile checks that path is a readable .csv or .xlsx file
func (v *FileValidator) ValidateSurveyFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		v.logger.Error("Survey file is not accessible",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewFileAccessError(path, err)
	}
	if info.IsDir() {
		return apperrors.NewFileAccessError(path, fmt.Errorf("%s is a directory, not a file", path))
	}

	if !files.IsSurveyFile(path) {
		ext := strings.ToLower(filepath.Ext(path))
		v.logger.Error("Unsupported survey file type",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewConfigError(
			fmt.Sprintf("unsupported survey file type %q (want .csv or .xlsx)", ext), nil).
			WithContext(apperrors.KeyPath, path)
	}
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return apperrors.NewConfigError(fmt.Sprintf("%s is a temporary Excel file", path), nil).
			WithContext(apperrors.KeyPath, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewFileAccessError(path, err)
	}
	file.Close()

	v.logger.Debug("Survey file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}
