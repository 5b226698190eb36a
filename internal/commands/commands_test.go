package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `{"MeetingName":"Weekly","Agenda":{"title":"Agenda","blocks":[{"content":"  Hello "},{"content":"World"}]}}`

func writePayload(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weekly.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExport_Stdout(t *testing.T) {
	out, err := run(t, "export", writePayload(t), "--out", "-", "--meeting-id", "42", "--date", "2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, "# AI Generated Summary of Meeting: 42 - Weekly\n\n## Date: 3/9/2024\n\n## Agenda\n\n- Hello\n- World\n\n", out)
}

func TestExport_HTMLFile(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "export", writePayload(t), "--format", "html", "--out", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "Weekly.html")
	assert.Contains(t, out, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<li>Hello</li>")
}

func TestExport_Errors(t *testing.T) {
	_, err := run(t, "export", writePayload(t), "--format", "pdf", "--out", "-")
	assert.Error(t, err)

	_, err = run(t, "export", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = run(t, "export")
	assert.Error(t, err)
}

func fakeClipboard(t *testing.T) *string {
	t.Helper()
	var copied string
	prev := writeClipboard
	writeClipboard = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { writeClipboard = prev })
	return &copied
}

func TestCopy_MarkdownByDefault(t *testing.T) {
	copied := fakeClipboard(t)
	out, err := run(t, "copy", writePayload(t), "--meeting-id", "42", "--date", "2024-03-09")
	require.NoError(t, err)

	want := "# AI Generated Summary of Meeting: 42 - Weekly\n\n## Date: 3/9/2024\n\n## Agenda\n\n- Hello\n- World\n\n"
	assert.Equal(t, want, *copied)
	assert.Contains(t, out, "copied")
}

func TestCopy_PlainText(t *testing.T) {
	copied := fakeClipboard(t)
	_, err := run(t, "copy", writePayload(t), "--text")
	require.NoError(t, err)
	assert.Equal(t, "Hello\nWorld", *copied)

	_, err = run(t, "copy", writePayload(t), "--date", "yesterday")
	assert.Error(t, err)
}

func TestSessions_EmptyDatabase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SUMMARYEDIT_CONFIG_PATH", dir)
	t.Setenv("SUMMARYEDIT_LOG_FILE", filepath.Join(dir, "log"))
	out, err := run(t, "sessions", "--data-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
	_, err = os.Stat(filepath.Join(dir, "summaryedit.db"))
	assert.NoError(t, err)
}

func TestSessionsDelete_Unknown(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SUMMARYEDIT_CONFIG_PATH", dir)
	t.Setenv("SUMMARYEDIT_LOG_FILE", filepath.Join(dir, "log"))
	_, err := run(t, "sessions", "delete", "nope", "--data-dir", dir)
	assert.ErrorContains(t, err, "session not found")
}
