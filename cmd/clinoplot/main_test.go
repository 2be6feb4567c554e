package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinocontour/internal/shared/testutil"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"-log-level", "error"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_SingleFile(t *testing.T) {
	input := testutil.WriteSurvey(t, "bh1.csv", testutil.ExampleSurvey)

	code, stdout, stderr := runCLI(t, "-i", input, "-title", "BH1")

	require.Equal(t, 0, code, stderr)
	want := filepath.Join(filepath.Dir(input), "bh1.png")
	assert.FileExists(t, want)
	assert.Contains(t, stdout, want)
	assert.Contains(t, stdout, "3 dates x 3 depths")
}

func TestRun_SingleFileExplicitOutput(t *testing.T) {
	input := testutil.WriteSurvey(t, "bh1.csv", testutil.ExampleSurvey)

	t.Run("file", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "custom.png")
		code, _, stderr := runCLI(t, "-i", input, "-o", out, "-resolution", "Halved", "-colormap", "Greys")
		require.Equal(t, 0, code, stderr)
		assert.FileExists(t, out)
	})

	t.Run("existing directory", func(t *testing.T) {
		dir := t.TempDir()
		code, _, stderr := runCLI(t, "-i", input, "-o", dir)
		require.Equal(t, 0, code, stderr)
		assert.FileExists(t, filepath.Join(dir, "bh1.png"))
	})
}

func TestRun_DirectoryWithSummary(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSurveyIn(t, dir, "bh1.csv", testutil.ExampleSurvey)
	testutil.WriteSurveyIn(t, dir, "bh2.csv", testutil.ExampleSurvey)
	testutil.WriteSurveyIn(t, dir, "notes.txt", "ignored")
	out := filepath.Join(t.TempDir(), "plots")

	code, stdout, stderr := runCLI(t, "-dir", dir, "-o", out, "-summary")

	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, filepath.Join(out, "bh1.png"))
	assert.FileExists(t, filepath.Join(out, "bh2.png"))
	assert.NoFileExists(t, filepath.Join(out, "notes.png"))

	assert.Contains(t, stdout, "2 of 2 surveys plotted")
	assert.Contains(t, stdout, "bh1.csv")
	assert.Contains(t, stdout, "01/01/2020")
	assert.Contains(t, stdout, "01/02/2020")
	assert.Contains(t, stdout, "0.5-2.5")
}

func TestRun_BadFileContinues(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSurveyIn(t, dir, "bad.csv", testutil.BadDateSurvey)
	testutil.WriteSurveyIn(t, dir, "good.csv", testutil.ExampleSurvey)

	code, stdout, stderr := runCLI(t, "-dir", dir)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "bad.csv")
	assert.Contains(t, stdout, "1 of 2 surveys plotted")
	assert.FileExists(t, filepath.Join(dir, "good.png"))
	assert.NoFileExists(t, filepath.Join(dir, "bad.png"))
}

func TestRun_CancelledContextSkipsRemainingFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSurveyIn(t, dir, "bh1.csv", testutil.ExampleSurvey)
	testutil.WriteSurveyIn(t, dir, "bh2.csv", testutil.ExampleSurvey)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"-log-level", "error", "-dir", dir}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "skipped: context canceled")
	assert.Contains(t, stdout.String(), "0 of 2 surveys plotted")
	assert.NoFileExists(t, filepath.Join(dir, "bh1.png"))
	assert.NoFileExists(t, filepath.Join(dir, "bh2.png"))
}

func TestRun_Errors(t *testing.T) {
	empty := t.TempDir()
	input := testutil.WriteSurvey(t, "bh1.csv", testutil.ExampleSurvey)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"unknown flag", []string{"-bogus"}, 2, "bogus"},
		{"stray argument", []string{"-i", input, "extra"}, 2, "unexpected arguments"},
		{"unsupported colormap", []string{"-i", input, "-colormap", "viridis"}, 1, "viridis"},
		{"unsupported resolution", []string{"-i", input, "-resolution", "7"}, 1, "7"},
		{"missing input", []string{"-i", filepath.Join(empty, "nope.csv")}, 1, "nope.csv"},
		{"empty directory", []string{"-dir", empty}, 1, "no .csv or .xlsx surveys"},
		{"missing config", []string{"-i", input, "-config", filepath.Join(empty, "missing.yaml")}, 1, "missing.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestRun_ConfigFileDefaults(t *testing.T) {
	input := testutil.WriteSurvey(t, "bh1.csv", testutil.ExampleSurvey)
	cfgPath := filepath.Join(t.TempDir(), "clinocontour.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("render:\n  colormap: viridis\n"), 0644))

	code, _, stderr := runCLI(t, "-i", input, "-config", cfgPath)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "viridis")
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "-version")
	assert.Equal(t, 0, code)
	assert.NotEmpty(t, stdout)
}
