package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	main "github.com/fwojciec/pagemd/cmd/pagemd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHTML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCmdConvert_converts_file(t *testing.T) {
	t.Parallel()

	path := writeHTML(t, "<h1>Hi</h1><p>Bold <strong>word</strong>.</p>")

	stdout := &bytes.Buffer{}
	err := main.Run(context.Background(), []string{"convert", path}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "# Hi")
	assert.Contains(t, stdout.String(), "**word**")
}

func TestCmdConvert_pattern_strategy(t *testing.T) {
	t.Parallel()

	path := writeHTML(t, "<h2>Section</h2>")

	stdout := &bytes.Buffer{}
	err := main.Run(context.Background(), []string{"convert", "--strategy", "pattern", path}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "## Section")
}

func TestCmdConvert_no_links_flag(t *testing.T) {
	t.Parallel()

	path := writeHTML(t, `<p><a href="https://x.dev">docs</a></p>`)

	stdout := &bytes.Buffer{}
	err := main.Run(context.Background(), []string{"convert", "--no-links", path}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "docs")
	assert.NotContains(t, stdout.String(), "](")
}

func TestCmdConvert_missing_file_fails(t *testing.T) {
	t.Parallel()

	err := main.Run(context.Background(), []string{"convert", filepath.Join(t.TempDir(), "nope.html")}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
}
