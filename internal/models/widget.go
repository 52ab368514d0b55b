package models

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/GregMSThompson/layout-backend/pkg/helpers"
)

// Visibility controls whether a widget is rendered for viewers other than the owner.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// UnmarshalText decodes a visibility, treating anything but "private" as public.
func (v *Visibility) UnmarshalText(text []byte) error {
	if Visibility(text) == VisibilityPrivate {
		*v = VisibilityPrivate
		return nil
	}
	*v = VisibilityPublic
	return nil
}

// Toggled returns the opposite visibility.
func (v Visibility) Toggled() Visibility {
	if v == VisibilityPrivate {
		return VisibilityPublic
	}
	return VisibilityPrivate
}

// Position is a widget's grid coordinate. A Pending position has no row yet and
// is placed after every settled widget by the next compaction pass.
type Position struct {
	X       int  `firestore:"x"`
	Y       int  `firestore:"y"`
	Pending bool `firestore:"-"`
}

// PendingPosition is the placement given to freshly added widgets.
func PendingPosition() Position {
	return Position{Pending: true}
}

type positionWire struct {
	X int  `json:"x"`
	Y *int `json:"y"`
}

// MarshalJSON encodes a pending row as "y": null.
func (p Position) MarshalJSON() ([]byte, error) {
	wire := positionWire{X: p.X}
	if !p.Pending {
		wire.Y = helpers.Ptr(p.Y)
	}
	return json.Marshal(wire)
}

// UnmarshalJSON reads "y": null (or a missing y) as a pending row.
func (p *Position) UnmarshalJSON(data []byte) error {
	var wire positionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	p.X = wire.X
	p.Y = helpers.Value(wire.Y)
	p.Pending = wire.Y == nil
	return nil
}

// Size is a widget's span in grid cells.
type Size struct {
	W int `firestore:"w" json:"w"`
	H int `firestore:"h" json:"h"`
}

// Config is the open, per-type configuration of a widget. Only the renderer
// named by the widget type interprets it.
type Config map[string]any

// Widget is one placed, configured unit of layout content.
type Widget struct {
	ID         string     `firestore:"id" json:"id"`
	Type       string     `firestore:"type" json:"type"`
	Position   Position   `firestore:"position" json:"position"`
	Size       Size       `firestore:"size" json:"size"`
	Visibility Visibility `firestore:"visibility" json:"visibility"`
	Config     Config     `firestore:"config" json:"config"`
}

// Clone returns a deep copy of the widget, including nested config values.
func (w Widget) Clone() Widget {
	out := w
	out.Config = cloneConfig(w.Config)
	return out
}

// Normalized maps an unset or unknown visibility to public and a nil config
// to an empty one.
func (w Widget) Normalized() Widget {
	if w.Visibility != VisibilityPrivate {
		w.Visibility = VisibilityPublic
	}
	if w.Config == nil {
		w.Config = Config{}
	}
	return w
}

// IsPrivate reports whether the widget is hidden from non-owners.
func (w Widget) IsPrivate() bool {
	return w.Visibility == VisibilityPrivate
}

// Layout is the stored shape of a widget set: { "widgets": [...] }.
type Layout struct {
	Widgets []Widget `firestore:"widgets" json:"widgets"`
}

// CloneWidgets deep copies a widget set. A nil set clones to an empty one.
func CloneWidgets(widgets []Widget) []Widget {
	out := make([]Widget, len(widgets))
	for i, w := range widgets {
		out[i] = w.Clone()
	}
	return out
}

// ValidateWidgets checks the invariants a widget set must hold before it is persisted.
func ValidateWidgets(widgets []Widget) error {
	seen := make(map[string]struct{}, len(widgets))
	for i, w := range widgets {
		if w.ID == "" {
			return fmt.Errorf("widget %d has no id", i)
		}
		if w.Type == "" {
			return fmt.Errorf("widget %q has no type", w.ID)
		}
		if _, dup := seen[w.ID]; dup {
			return fmt.Errorf("duplicate widget id %q", w.ID)
		}
		seen[w.ID] = struct{}{}
	}
	return nil
}

// FindWidget returns the index of the widget with the given id, or -1.
func FindWidget(widgets []Widget, id string) int {
	for i := range widgets {
		if widgets[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneConfig(cfg Config) Config {
	if cfg == nil {
		return Config{}
	}
	out := make(Config, len(cfg))
	for k, v := range cfg {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}
		return m
	case Config:
		return cloneConfig(t)
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	case map[string]string:
		return maps.Clone(t)
	default:
		return v
	}
}
