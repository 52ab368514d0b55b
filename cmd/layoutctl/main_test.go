package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/layout-backend/internal/models"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	catalogFile, gridConfig = "", ""
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogScope(t *testing.T) {
	out, err := run(t, "", "catalog", "--scope", "guild")
	require.NoError(t, err)
	assert.Contains(t, out, "guild_members")
	assert.NotContains(t, out, "habit-graph")

	_, err = run(t, "", "catalog", "--scope", "moon")
	assert.Error(t, err)
}

func TestCompactFromStdin(t *testing.T) {
	in := `{"layout":{"widgets":[
		{"id":"A","type":"text","position":{"x":0,"y":5},"size":{"w":2,"h":1},"visibility":"public","config":{}},
		{"id":"B","type":"text","position":{"x":2,"y":null},"size":{"w":2,"h":1},"config":{}}
	]}}`
	out, err := run(t, in, "compact", "-")
	require.NoError(t, err)

	var got models.Layout
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Widgets, 2)
	assert.Equal(t, 0, got.Widgets[0].Position.Y)
	assert.False(t, got.Widgets[1].Position.Pending)
	assert.Equal(t, models.VisibilityPublic, got.Widgets[1].Visibility)
}

func TestCompactRemapsColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	body := `[{"id":"A","type":"text","position":{"x":0,"y":0},"size":{"w":4,"h":1}},
		{"id":"B","type":"text","position":{"x":0,"y":1},"size":{"w":1,"h":1}}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	out, err := run(t, "", "compact", "--cols", "2", path)
	require.NoError(t, err)

	var got models.Layout
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	for _, w := range got.Widgets {
		assert.LessOrEqual(t, w.Position.X+w.Size.W, 2, w.ID)
	}
}

func TestValidate(t *testing.T) {
	ok := `[{"id":"A","type":"text","position":{"x":0,"y":0},"size":{"w":1,"h":1}}]`
	out, err := run(t, ok, "validate", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 1 widget(s)")

	bad := `[{"id":"A","type":"text","position":{"x":0,"y":0},"size":{"w":2,"h":2}},
		{"id":"B","type":"nope","position":{"x":1,"y":1},"size":{"w":1,"h":1}}]`
	out, err = run(t, bad, "validate", "-")
	require.Error(t, err)
	assert.Contains(t, out, `unknown widget type "nope"`)
	assert.Contains(t, out, "A overlaps B")

	dup := `[{"id":"A","type":"text"},{"id":"A","type":"text"}]`
	_, err = run(t, dup, "validate", "-")
	assert.Error(t, err)
}
