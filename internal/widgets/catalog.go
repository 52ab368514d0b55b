// Package widgets holds the catalog of widget types and the renderer for each type.
package widgets

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/GregMSThompson/layout-backend/internal/grid"
	"github.com/GregMSThompson/layout-backend/internal/models"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Descriptor is a catalog entry: the template a widget instance is created from.
type Descriptor struct {
	Type        string              `yaml:"type" json:"type"`
	Name        string              `yaml:"name" json:"name"`
	Description string              `yaml:"description" json:"description"`
	Icon        string              `yaml:"icon" json:"icon"`
	DefaultSize models.Size         `yaml:"defaultSize" json:"defaultSize"`
	Scopes      []models.LayoutKind `yaml:"scopes,omitempty" json:"scopes,omitempty"`
	// ScopeSizes overrides DefaultSize for particular layout kinds.
	ScopeSizes map[models.LayoutKind]models.Size `yaml:"scopeSizes,omitempty" json:"-"`
}

// SizeIn returns the size a new widget of this type gets in a layout kind.
func (d Descriptor) SizeIn(kind models.LayoutKind) models.Size {
	if s, ok := d.ScopeSizes[kind]; ok {
		return s
	}
	return d.DefaultSize
}

// AllowedIn reports whether the widget may be added to a layout of the given kind.
func (d Descriptor) AllowedIn(kind models.LayoutKind) bool {
	return len(d.Scopes) == 0 || slices.Contains(d.Scopes, kind)
}

type catalogFile struct {
	Widgets []Descriptor `yaml:"widgets"`
}

// Catalog maps widget type tags to descriptors and renderers. It is built once
// at start-up and only read afterwards.
type Catalog struct {
	entries   []Descriptor
	index     map[string]int
	renderers map[string]Renderer
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) ([]Descriptor, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse widget catalog: %w", err)
	}
	return f.Widgets, nil
}

// NewCatalog validates descriptors against the grid bounds and attaches the
// built-in renderers.
func NewCatalog(entries []Descriptor, bounds grid.Bounds) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("widget catalog is empty")
	}
	c := &Catalog{
		entries:   make([]Descriptor, 0, len(entries)),
		index:     make(map[string]int, len(entries)),
		renderers: builtinRenderers(),
	}
	for _, d := range entries {
		if d.Type == "" {
			return nil, fmt.Errorf("widget catalog entry %q has no type", d.Name)
		}
		if _, dup := c.index[d.Type]; dup {
			return nil, fmt.Errorf("duplicate widget type %q", d.Type)
		}
		if !fits(d.DefaultSize, bounds) {
			return nil, fmt.Errorf("widget type %q default size %dx%d is outside the grid bounds", d.Type, d.DefaultSize.W, d.DefaultSize.H)
		}
		for _, k := range d.Scopes {
			if !k.Valid() {
				return nil, fmt.Errorf("widget type %q has unknown scope %q", d.Type, k)
			}
		}
		for k, s := range d.ScopeSizes {
			if !k.Valid() {
				return nil, fmt.Errorf("widget type %q has a size for unknown scope %q", d.Type, k)
			}
			if !fits(s, bounds) {
				return nil, fmt.Errorf("widget type %q %s size %dx%d is outside the grid bounds", d.Type, k, s.W, s.H)
			}
		}
		c.index[d.Type] = len(c.entries)
		c.entries = append(c.entries, d)
	}
	return c, nil
}

func fits(s models.Size, b grid.Bounds) bool {
	return s.W >= b.MinW && s.W <= b.MaxW && s.H >= b.MinH && s.H <= b.MaxH
}

// Default returns the embedded catalog.
func Default() *Catalog {
	entries, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(err)
	}
	c, err := NewCatalog(entries, grid.DefaultBounds)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog file, or the embedded catalog when path is empty.
func Load(path string, bounds grid.Bounds) (*Catalog, error) {
	data := defaultCatalogYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read widget catalog: %w", err)
		}
		data = b
	}
	entries, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return NewCatalog(entries, bounds)
}

// Lookup returns the descriptor for a widget type.
func (c *Catalog) Lookup(widgetType string) (Descriptor, bool) {
	i, ok := c.index[widgetType]
	if !ok {
		return Descriptor{}, false
	}
	return c.entries[i], true
}

// List returns every descriptor in catalog order.
func (c *Catalog) List() []Descriptor {
	return slices.Clone(c.entries)
}

// ForScope returns the descriptors that may be added to a layout kind, with
// DefaultSize set to the size used in that kind.
func (c *Catalog) ForScope(kind models.LayoutKind) []Descriptor {
	out := make([]Descriptor, 0, len(c.entries))
	for _, d := range c.entries {
		if d.AllowedIn(kind) {
			d.DefaultSize = d.SizeIn(kind)
			out = append(out, d)
		}
	}
	return out
}

// Register installs or replaces the renderer for a widget type. It is not
// safe for concurrent use; call it at start-up before the catalog is shared.
func (c *Catalog) Register(widgetType string, r Renderer) {
	c.renderers[widgetType] = r
}

// Renderer returns the renderer for a catalog type. Catalog types without a
// dedicated renderer get a generic one; types missing from the catalog report false.
func (c *Catalog) Renderer(widgetType string) (Renderer, bool) {
	d, ok := c.Lookup(widgetType)
	if !ok {
		return nil, false
	}
	if r, ok := c.renderers[widgetType]; ok {
		return r, true
	}
	return genericRenderer(d), true
}
