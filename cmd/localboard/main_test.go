package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"LOCALBOARD_STORAGE", "LOCALBOARD_REDIS_ADDR", "LOCALBOARD_HUB", "LOCALBOARD_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	conf := "storage:\n  backend: sqlite\n  path: " + filepath.Join(dir, "board.db") + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(conf), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestNotesCommands(t *testing.T) {
	conf := setup(t)

	_, err := execute(t, "--config", conf, "notes", "add", "--from", "Ana", "see", "you", "soon")
	require.NoError(t, err)

	out, err := execute(t, "--config", conf, "notes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Notes since June 1, 2021")
	assert.Contains(t, out, "Ana: see you soon")

	file := filepath.Join(t.TempDir(), "notes.json")
	_, err = execute(t, "--config", conf, "notes", "export", file)
	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	var exported []map[string]any
	require.NoError(t, json.Unmarshal(data, &exported))
	require.Len(t, exported, 1)
	assert.Equal(t, "Ana", exported[0]["from"])

	_, err = execute(t, "--config", conf, "notes", "add", "--from", "Ana", "   ")
	assert.Error(t, err)
}

func TestExportCommands(t *testing.T) {
	conf := setup(t)
	dir := t.TempDir()

	_, err := execute(t, "--config", conf, "export", "pdf", filepath.Join(dir, "board"))
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "board.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	out, err := execute(t, "--config", conf, "export", "link")
	require.NoError(t, err)
	assert.Contains(t, out, "localboard://board#drawing=data%3Aimage%2Fpng")

	_, err = execute(t, "--config", conf, "export", "png")
	assert.Error(t, err)
}

func TestGalleryCommands(t *testing.T) {
	conf := setup(t)

	out, err := execute(t, "--config", conf, "gallery", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved drawings")

	_, err = execute(t, "--config", conf, "gallery", "export", "0", filepath.Join(t.TempDir(), "x.png"))
	assert.ErrorContains(t, err, "no drawing at index 0")
}

func TestLocalBusMarksSyncUnavailable(t *testing.T) {
	conn := localBus("localboard-canvas")
	defer conn.close()
	assert.Equal(t, syncUnavailable, conn.unavailable)
	assert.Empty(t, conn.share)
	assert.Nil(t, conn.done)
}
