package widgets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/layout-backend/internal/grid"
	"github.com/GregMSThompson/layout-backend/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	d, ok := c.Lookup(TypeTasks)
	require.True(t, ok)
	assert.Equal(t, models.Size{W: 2, H: 2}, d.DefaultSize)

	_, ok = c.Lookup("weather")
	assert.False(t, ok)

	// every embedded type has a dedicated renderer
	for _, d := range c.List() {
		_, ok := c.renderers[d.Type]
		assert.True(t, ok, "missing renderer for %s", d.Type)
	}
}

func TestCatalogForScope(t *testing.T) {
	c := Default()

	var guild []string
	for _, d := range c.ForScope(models.KindGuild) {
		guild = append(guild, d.Type)
	}
	assert.Contains(t, guild, TypeGuildMembers)
	assert.Contains(t, guild, TypeText)
	assert.NotContains(t, guild, TypeTasks)
}

func TestCatalogDashboardTypes(t *testing.T) {
	c := Default()

	sizes := map[string]models.Size{}
	for _, d := range c.ForScope(models.KindDashboard) {
		sizes[d.Type] = d.DefaultSize
	}
	assert.Equal(t, models.Size{W: 2, H: 2}, sizes[TypeTodaysFocus])
	assert.Equal(t, models.Size{W: 1, H: 1}, sizes[TypeQuickActions])
	assert.Equal(t, models.Size{W: 1, H: 2}, sizes[TypePomodoro])
	assert.Equal(t, models.Size{W: 1, H: 2}, sizes[TypeGoals])

	goals, ok := c.Lookup(TypeGoals)
	require.True(t, ok)
	assert.Equal(t, models.Size{W: 2, H: 1}, goals.SizeIn(models.KindProfile))

	for _, d := range c.ForScope(models.KindProfile) {
		assert.NotEqual(t, TypePomodoro, d.Type)
	}
}

func TestNewCatalogValidation(t *testing.T) {
	ok := Descriptor{Type: "a", Name: "A", DefaultSize: models.Size{W: 1, H: 1}}

	tests := []struct {
		name    string
		entries []Descriptor
	}{
		{"empty", nil},
		{"no type", []Descriptor{{Name: "x", DefaultSize: models.Size{W: 1, H: 1}}}},
		{"duplicate", []Descriptor{ok, ok}},
		{"too wide", []Descriptor{{Type: "b", DefaultSize: models.Size{W: 5, H: 1}}}},
		{"zero height", []Descriptor{{Type: "b", DefaultSize: models.Size{W: 1, H: 0}}}},
		{"bad scope", []Descriptor{{Type: "b", DefaultSize: models.Size{W: 1, H: 1}, Scopes: []models.LayoutKind{"team"}}}},
		{"bad scope size", []Descriptor{{Type: "b", DefaultSize: models.Size{W: 1, H: 1}, ScopeSizes: map[models.LayoutKind]models.Size{models.KindDashboard: {W: 9, H: 1}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.entries, grid.DefaultBounds)
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := "widgets:\n  - type: clock\n    name: Clock\n    defaultSize: {w: 1, h: 1}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := Load(path, grid.DefaultBounds)
	require.NoError(t, err)
	require.Len(t, c.List(), 1)

	// no dedicated renderer: the generic one echoes the config
	r, ok := c.Renderer("clock")
	require.True(t, ok)
	out, err := r.Render(Input{Widget: models.Widget{Type: "clock", Config: models.Config{"tz": "UTC"}}})
	require.NoError(t, err)
	assert.Equal(t, "Clock", out.Title)
	assert.Equal(t, models.Config{"tz": "UTC"}, out.Body)

	_, ok = c.Renderer(TypeTasks)
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), grid.DefaultBounds)
	assert.Error(t, err)
}

func TestRegisterOverridesRenderer(t *testing.T) {
	c := Default()
	c.Register(TypeText, RendererFunc(func(Input) (Output, error) {
		return Output{Title: "custom"}, nil
	}))
	r, ok := c.Renderer(TypeText)
	require.True(t, ok)
	out, err := r.Render(Input{})
	require.NoError(t, err)
	assert.Equal(t, "custom", out.Title)
}
