package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "clinocontour/internal/errors"
	"clinocontour/internal/shared/testutil"
)

func newValidator(t *testing.T) *FileValidator {
	logger, _ := testutil.NewTestLogger(t)
	return NewFileValidator(logger)
}

func TestFileValidator_ValidateInputDirectory(t *testing.T) {
	v := newValidator(t)
	dir := t.TempDir()

	assert.NoError(t, v.ValidateInputDirectory(dir))
	assert.ErrorIs(t, v.ValidateInputDirectory(filepath.Join(dir, "missing")), apperrors.ErrFileAccess)

	file := testutil.WriteSurveyIn(t, dir, "survey.csv", testutil.ExampleSurvey)
	assert.ErrorIs(t, v.ValidateInputDirectory(file), apperrors.ErrFileAccess)
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := newValidator(t)

	nested := filepath.Join(t.TempDir(), "plots", "2020")
	require.NoError(t, v.ValidateOutputDirectory(nested))
	assert.DirExists(t, nested)

	entries, err := os.ReadDir(nested)
	require.NoError(t, err)
	assert.Empty(t, entries, "write check file must be removed")

	blocker := testutil.WriteSurvey(t, "blocker", "x")
	assert.ErrorIs(t, v.ValidateOutputDirectory(filepath.Join(blocker, "sub")), apperrors.ErrFileAccess)
}

func TestFileValidator_ValidateSurveyFile(t *testing.T) {
	v := newValidator(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"csv", testutil.WriteSurveyIn(t, dir, "survey.csv", testutil.ExampleSurvey), nil},
		{"xlsx by extension", testutil.WriteSurveyIn(t, dir, "survey.XLSX", "x"), nil},
		{"missing", filepath.Join(dir, "missing.csv"), apperrors.ErrFileAccess},
		{"directory", dir, apperrors.ErrFileAccess},
		{"wrong extension", testutil.WriteSurveyIn(t, dir, "notes.txt", "x"), apperrors.ErrConfig},
		{"excel lock file", testutil.WriteSurveyIn(t, dir, "~$survey.xlsx", "x"), apperrors.ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSurveyFile(tt.path)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
