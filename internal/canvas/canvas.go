// Package canvas turns a stored widget set into what a given viewer sees.
package canvas

import (
	"errors"
	"fmt"
	"time"

	"github.com/GregMSThompson/layout-backend/internal/grid"
	"github.com/GregMSThompson/layout-backend/internal/models"
	"github.com/GregMSThompson/layout-backend/internal/widgets"
)

const (
	EmptyOwnerMessage   = "Empty Canvas"
	EmptyVisitorMessage = "No public widgets enabled"
	UnknownWidgetTitle  = "Unknown widget"
)

// Inline error codes.
const (
	CodeConfigInvalid = "config_invalid"
	CodeRenderFailed  = "render_failed"
)

// View describes who is looking and how.
type View struct {
	IsOwner  bool
	EditMode bool
	// Columns is the viewport's column count; zero keeps the grid's own.
	Columns int
	Now     time.Time
	// Metrics, when set, adds pixel rectangles to items. Its column count is
	// replaced by the canvas's own.
	Metrics *grid.Metrics
}

// Editable reports whether the viewer gets drag, resize and widget controls.
func (v View) Editable() bool { return v.IsOwner && v.EditMode }

type Controls struct {
	Remove           bool `json:"remove"`
	ToggleVisibility bool `json:"toggleVisibility"`
	Configure        bool `json:"configure"`
}

// ItemError is a widget-local failure shown in place of the widget body.
type ItemError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	// Editable is set when the viewer can fix the config from here.
	Editable bool `json:"editable"`
}

type Item struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Placement  grid.Placement    `json:"placement"`
	Rect       *grid.PixelRect   `json:"rect,omitempty"`
	Visibility models.Visibility `json:"visibility"`
	Static     bool              `json:"static"`
	Locked     bool              `json:"locked"`
	Controls   *Controls         `json:"controls,omitempty"`
	Config     models.Config     `json:"config,omitempty"`
	Title      string            `json:"title"`
	Body       any               `json:"body,omitempty"`
	Unknown    bool              `json:"unknown,omitempty"`
	Error      *ItemError        `json:"error,omitempty"`
}

type Canvas struct {
	Columns      int    `json:"columns"`
	Items        []Item `json:"items"`
	Empty        bool   `json:"empty"`
	EmptyMessage string `json:"emptyMessage,omitempty"`
}

type Renderer struct {
	catalog *widgets.Catalog
	grid    grid.Grid
}

func New(catalog *widgets.Catalog, g grid.Grid) *Renderer {
	return &Renderer{catalog: catalog, grid: g}
}

// Render lays out and renders the widgets visible to the viewer. Private
// widgets are dropped before layout for anyone but the owner. A widget that
// fails to render is reported on its own item and never aborts the canvas.
func (r *Renderer) Render(ws []models.Widget, view View, feeds models.Feeds) Canvas {
	visible := make([]models.Widget, 0, len(ws))
	for _, w := range ws {
		if w.IsPrivate() && !view.IsOwner {
			continue
		}
		visible = append(visible, w)
	}

	g := r.grid
	if view.Columns > 0 {
		g.Columns = view.Columns
	}
	placements := g.ComputeLayout(visible)

	c := Canvas{Columns: max(g.Columns, 1), Items: make([]Item, 0, len(visible))}
	var metrics *grid.Metrics
	if view.Metrics != nil {
		m := *view.Metrics
		m.Columns = c.Columns
		metrics = &m
	}
	for i, w := range visible {
		it := r.item(w, placements[i], view, feeds)
		if metrics != nil {
			rect := metrics.Rect(it.Placement)
			it.Rect = &rect
		}
		c.Items = append(c.Items, it)
	}
	if len(c.Items) == 0 {
		c.Empty = true
		c.EmptyMessage = EmptyVisitorMessage
		if view.IsOwner {
			c.EmptyMessage = EmptyOwnerMessage
		}
	}
	return c
}

func (r *Renderer) item(w models.Widget, p grid.Placement, view View, feeds models.Feeds) Item {
	it := Item{
		ID:         w.ID,
		Type:       w.Type,
		Placement:  p,
		Visibility: w.Visibility,
		Static:     !view.Editable(),
		Locked:     w.IsPrivate(),
	}
	if view.Editable() {
		it.Controls = &Controls{Remove: true, ToggleVisibility: true, Configure: true}
		it.Config = w.Clone().Config
	}

	rd, ok := r.catalog.Renderer(w.Type)
	if !ok {
		it.Unknown = true
		it.Title = UnknownWidgetTitle
		return it
	}
	if d, ok := r.catalog.Lookup(w.Type); ok {
		it.Title = d.Name
	}

	out, err := safeRender(rd, widgets.Input{
		Widget:   w.Clone(),
		Feeds:    feeds,
		IsOwner:  view.IsOwner,
		EditMode: view.EditMode,
		Now:      view.Now,
	})
	if err != nil {
		it.Error = itemError(err, view)
		return it
	}
	if out.Title != "" {
		it.Title = out.Title
	}
	it.Body = out.Body
	return it
}

func safeRender(rd widgets.Renderer, in widgets.Input) (out widgets.Output, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("renderer panic: %v", rec)
		}
	}()
	return rd.Render(in)
}

func itemError(err error, view View) *ItemError {
	var ce *widgets.ConfigError
	if errors.As(err, &ce) {
		return &ItemError{
			Code:     CodeConfigInvalid,
			Field:    ce.Field,
			Message:  ce.Message,
			Editable: view.Editable(),
		}
	}
	return &ItemError{Code: CodeRenderFailed, Message: "This widget could not be displayed"}
}
