package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/devblok/sxs/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBundled(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, validate(nil, &out))
	assert.Regexp(t, `components\s+95`, out.String())
	assert.Regexp(t, `views\s+4`, out.String())
	assert.Contains(t, out.String(), "ok\n")
	assert.NotContains(t, out.String(), "untextured")
}

func TestValidateBroken(t *testing.T) {
	dir := t.TempDir()
	doc := `<sxs><scene root="missing" axis_length="1"/></sxs>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.xml"), []byte(doc), 0644))

	var out bytes.Buffer
	err := validate([]string{"-assets", dir, "broken.xml"}, &out)
	require.Error(t, err)
	var pe *scene.ParseError
	assert.ErrorAs(t, err, &pe)
	assert.NotContains(t, out.String(), "ok")
}

func writeLog(t *testing.T, doc string) string {
	path := filepath.Join(t.TempDir(), "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

func TestReplay(t *testing.T) {
	path := writeLog(t, "moves:\n  - {color: black, from: {row: 2, col: 0}, to: {row: 3, col: 1}}\n")

	var out bytes.Buffer
	require.NoError(t, replay([]string{path}, &out))
	assert.Contains(t, out.String(), "moves: 1\n")
	assert.Contains(t, out.String(), "captures: black 0, white 0\n")
	assert.Contains(t, out.String(), "to play: white\n")
}

func TestReplayIllegal(t *testing.T) {
	path := writeLog(t, "moves:\n  - {color: black, from: {row: 2, col: 0}, to: {row: 4, col: 2}}\n")

	var out bytes.Buffer
	assert.Error(t, replay([]string{path}, &out))
	assert.Contains(t, out.String(), "to play: black\n")
}

func TestReplayNeedsLog(t *testing.T) {
	assert.Error(t, replay(nil, &bytes.Buffer{}))
}
