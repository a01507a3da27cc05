package helpers

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quickcore/internal/models"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects the Print helpers into a buffer without colour codes.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prevOutput, prevNoColor := Output, color.NoColor
	Output, color.NoColor = buf, true
	t.Cleanup(func() { Output, color.NoColor = prevOutput, prevNoColor })
	return buf
}

func TestPrintHelpers(t *testing.T) {
	buf := captureOutput(t)

	PrintSuccess("saved %d files", 2)
	PrintError("failed: %s", "boom")
	PrintWarning("budget disabled")
	PrintText(4, "• %s", "Practice problems")
	PrintSeparator()

	out := buf.String()
	assert.Contains(t, out, "✅ saved 2 files\n")
	assert.Contains(t, out, "❌ failed: boom\n")
	assert.Contains(t, out, "budget disabled\n")
	assert.Contains(t, out, "    • Practice problems\n")
	assert.Contains(t, out, "────")
}

func TestPriorityColor(t *testing.T) {
	assert.Same(t, ErrorColor, PriorityColor("high"))
	assert.Same(t, WarningColor, PriorityColor(models.PriorityMedium))
	assert.Same(t, SuccessColor, PriorityColor(" Low "))
	assert.Same(t, SubtleColor, PriorityColor("Optional"))
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"syllabus.pdf":            "syllabus",
		"Week 3 Notes.pdf":        "week-3-notes",
		"/tmp/uploads/CS_101.PDF": "cs-101",
		"---.pdf":                 "document",
		"":                        "document",
	}

	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestGenerateOutputFilename(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, "syllabus-20240309-140507.json", GenerateOutputFilename("syllabus", ts, "json"))
}

func TestSaveAndLoadFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	require.NoError(t, EnsureDir(dir))

	jsonPath := GetOutputPath(dir, "plan.json")
	require.NoError(t, SaveJSON(map[string]string{"title": "Algebra"}, jsonPath))
	assert.True(t, FileExists(jsonPath))

	var loaded map[string]string
	require.NoError(t, LoadJSON(jsonPath, &loaded))
	assert.Equal(t, "Algebra", loaded["title"])

	mdPath := GetOutputPath(dir, "plan.md")
	require.NoError(t, SaveText("# Algebra\n", mdPath))
	data, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Equal(t, "# Algebra\n", string(data))

	assert.False(t, FileExists(GetOutputPath(dir, "missing.json")))
	assert.Error(t, LoadJSON(mdPath, &loaded))
}

func TestIsTerminal_FalseForPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { r.Close(); w.Close() })

	prev := os.Stdout
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = prev })

	assert.False(t, IsTerminal())
}
