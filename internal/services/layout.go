package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/layout-backend/internal/canvas"
	"github.com/GregMSThompson/layout-backend/internal/errs"
	"github.com/GregMSThompson/layout-backend/internal/grid"
	"github.com/GregMSThompson/layout-backend/internal/models"
	"github.com/GregMSThompson/layout-backend/internal/widgets"
	"github.com/GregMSThompson/layout-backend/pkg/logger"
)

// layoutStore loads and replaces canonical widget sets.
type layoutStore interface {
	Load(ctx context.Context, ref models.OwnerRef) (*models.LayoutRecord, error)
	SaveWidgets(ctx context.Context, ref models.OwnerRef, widgets []models.Widget) error
}

// feedStore supplies the read-only data widgets render.
type feedStore interface {
	UserFeeds(ctx context.Context, uid string) models.Feeds
	GuildFeeds(ctx context.Context, guildID string) (models.Feeds, error)
}

// gridConfig resolves breakpoints and pixel metrics for a container width.
type gridConfig interface {
	BreakpointTable() grid.Breakpoints
	Metrics(kind models.LayoutKind, containerWidth int) grid.Metrics
}

// CanvasOptions selects how a layout is shown.
type CanvasOptions struct {
	EditMode bool
	// Width is the container width in pixels; it picks the breakpoint.
	Width int
	// Columns overrides the breakpoint's column count when set.
	Columns int
}

type CanvasView struct {
	Ref        models.OwnerRef `json:"ref"`
	IsOwner    bool            `json:"isOwner"`
	EditMode   bool            `json:"editMode"`
	Breakpoint string          `json:"breakpoint,omitempty"`
	UpdatedAt  *time.Time      `json:"updatedAt,omitempty"`
	Canvas     canvas.Canvas   `json:"canvas"`
}

type layoutService struct {
	store      layoutStore
	feeds      feedStore
	catalog    *widgets.Catalog
	grid       grid.Grid
	gridConfig gridConfig
	canvas     *canvas.Renderer
	now        func() time.Time
}

func NewLayoutService(store layoutStore, feeds feedStore, catalog *widgets.Catalog, g grid.Grid, gc gridConfig) *layoutService {
	return &layoutService{
		store:      store,
		feeds:      feeds,
		catalog:    catalog,
		grid:       g,
		gridConfig: gc,
		canvas:     canvas.New(catalog, g),
		now:        time.Now,
	}
}

// DefaultGuildLayout is what a guild shows before an admin saves a layout.
func DefaultGuildLayout() []models.Widget {
	return []models.Widget{
		{
			ID:         "guild-info",
			Type:       widgets.TypeGuildInfo,
			Position:   models.Position{X: 0, Y: 0},
			Size:       models.Size{W: 2, H: 1},
			Visibility: models.VisibilityPublic,
			Config:     models.Config{},
		},
		{
			ID:         "guild-members",
			Type:       widgets.TypeGuildMembers,
			Position:   models.Position{X: 0, Y: 1},
			Size:       models.Size{W: 1, H: 1},
			Visibility: models.VisibilityPublic,
			Config:     models.Config{"show_count": 6},
		},
		{
			ID:         "guild-activity",
			Type:       widgets.TypeGuildActivity,
			Position:   models.Position{X: 1, Y: 1},
			Size:       models.Size{W: 1, H: 1},
			Visibility: models.VisibilityPublic,
			Config:     models.Config{},
		},
	}
}

// readable loads a record for uid. Dashboards are private to their owner and
// look missing to anyone else.
func readable(ctx context.Context, store layoutStore, uid string, ref models.OwnerRef) (*models.LayoutRecord, error) {
	rec, err := store.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if ref.Kind == models.KindDashboard && !rec.IsOwner(uid) {
		return nil, errs.NewNotFoundError("dashboard not found")
	}
	if ref.Kind == models.KindGuild && !rec.Stored {
		rec.Layout.Widgets = DefaultGuildLayout()
	}
	return rec, nil
}

// editable is readable plus the ownership check required for writes.
func editable(ctx context.Context, store layoutStore, uid string, ref models.OwnerRef) (*models.LayoutRecord, error) {
	rec, err := readable(ctx, store, uid, ref)
	if err != nil {
		return nil, err
	}
	if !rec.IsOwner(uid) {
		return nil, errs.NewForbiddenError("only the owner can edit this layout")
	}
	return rec, nil
}

// GetCanvas renders a layout for the viewer. Feeds load alongside the record
// and never fail the request.
func (s *layoutService) GetCanvas(ctx context.Context, uid string, ref models.OwnerRef, opts CanvasOptions) (*CanvasView, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}

	var (
		rec   *models.LayoutRecord
		feeds models.Feeds
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rec, err = readable(gctx, s.store, uid, ref)
		return err
	})
	g.Go(func() error {
		feeds = loadFeeds(gctx, s.feeds, ref)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	isOwner := rec.IsOwner(uid)
	view := canvas.View{
		IsOwner:  isOwner,
		EditMode: opts.EditMode && isOwner,
		Columns:  opts.Columns,
		Now:      s.now(),
	}
	out := &CanvasView{Ref: ref, IsOwner: isOwner, EditMode: view.EditMode}
	if opts.Width > 0 {
		bp := s.gridConfig.BreakpointTable().For(opts.Width)
		out.Breakpoint = bp.Name
		if view.Columns == 0 {
			view.Columns = bp.Columns
		}
		m := s.gridConfig.Metrics(ref.Kind, opts.Width)
		view.Metrics = &m
	}
	if !rec.UpdatedAt.IsZero() {
		out.UpdatedAt = &rec.UpdatedAt
	}
	out.Canvas = s.canvas.Render(rec.Layout.Widgets, view, feeds)
	logRenderErrors(ctx, out.Canvas)
	return out, nil
}

// SaveLayout replaces a layout outright, without an editor session.
func (s *layoutService) SaveLayout(ctx context.Context, uid string, ref models.OwnerRef, ws []models.Widget) ([]models.Widget, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}
	if _, err := editable(ctx, s.store, uid, ref); err != nil {
		return nil, err
	}
	if err := validateWidgetSet(s.catalog, ref.Kind, ws); err != nil {
		return nil, err
	}
	in := make([]models.Widget, len(ws))
	for i, w := range ws {
		in[i] = w.Normalized()
	}
	out := s.grid.Compact(in)
	if err := s.store.SaveWidgets(ctx, ref, out); err != nil {
		logger.FromContext(ctx).Error("layout save failed", "ref", ref.String(), "error", err)
		return nil, err
	}
	logger.FromContext(ctx).Info("layout saved", "ref", ref.String(), "widgets", len(out))
	return out, nil
}

// loadFeeds picks the feeds for a layout kind. A missing guild feed is logged
// and rendered empty.
func loadFeeds(ctx context.Context, feeds feedStore, ref models.OwnerRef) models.Feeds {
	if ref.Kind != models.KindGuild {
		return feeds.UserFeeds(ctx, ref.ID)
	}
	f, err := feeds.GuildFeeds(ctx, ref.ID)
	if err != nil {
		logger.FromContext(ctx).Warn("guild feed unavailable", "guild_id", ref.ID, "error", err)
		return models.Feeds{}
	}
	return f
}

func validateRef(ref models.OwnerRef) error {
	if !ref.Kind.Valid() {
		return errs.NewValidationError(fmt.Sprintf("unknown layout kind %q", ref.Kind))
	}
	if ref.ID == "" {
		return errs.NewValidationError("layout id is required")
	}
	return nil
}

// validateWidgetSet rejects duplicate ids and catalog types placed outside
// their scope. Types missing from the catalog are kept as they are.
func validateWidgetSet(catalog *widgets.Catalog, kind models.LayoutKind, ws []models.Widget) error {
	if err := models.ValidateWidgets(ws); err != nil {
		return errs.NewValidationError(err.Error())
	}
	for _, w := range ws {
		if d, ok := catalog.Lookup(w.Type); ok && !d.AllowedIn(kind) {
			return errs.NewValidationError(fmt.Sprintf("widget type %q is not allowed in a %s layout", w.Type, kind))
		}
	}
	return nil
}

func logRenderErrors(ctx context.Context, c canvas.Canvas) {
	log := logger.FromContext(ctx)
	for _, it := range c.Items {
		if it.Error != nil && it.Error.Code == canvas.CodeRenderFailed {
			log.Error("widget render failed", "widget_id", it.ID, "type", it.Type)
		}
	}
	if logger.IsDebugEnabled(ctx) {
		unknown := 0
		for _, it := range c.Items {
			if it.Unknown {
				unknown++
			}
		}
		log.Debug("canvas rendered", "items", len(c.Items), "unknown_types", unknown, "columns", c.Columns)
	}
}
