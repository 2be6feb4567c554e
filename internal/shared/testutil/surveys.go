package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ExampleSurvey is a small well-formed survey: three depths by three
// unsorted dates.
const ExampleSurvey = `Depth,15/01/2020,01/01/2020,01/02/2020
0.5,1.3,1.1,1.0
1.5,2.0,2.2,1.9
2.5,1.8,1.6,1.2
`

// BadDateSurvey has an unparseable date in column 2.
const BadDateSurvey = `Depth,01/01/2020,not-a-date
0.5,1.0,2.0
1.5,1.5,2.5
`

// WriteSurvey writes content to name inside a fresh temp directory and
// returns the file path.
func WriteSurvey(t *testing.T, name, content string) string {
	t.Helper()
	return WriteSurveyIn(t, t.TempDir(), name, content)
}

// WriteSurveyIn writes content to dir/name and returns the file path.
func WriteSurveyIn(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write survey %s: %v", path, err)
	}
	return path
}
