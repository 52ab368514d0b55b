package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/layout-backend/internal/canvas"
	"github.com/GregMSThompson/layout-backend/internal/editor"
	"github.com/GregMSThompson/layout-backend/internal/errs"
	"github.com/GregMSThompson/layout-backend/internal/grid"
	"github.com/GregMSThompson/layout-backend/internal/models"
	"github.com/GregMSThompson/layout-backend/internal/widgets"
	"github.com/GregMSThompson/layout-backend/pkg/logger"
)

// SessionView is the state of an editor session as returned to its owner.
type SessionView struct {
	ID        string          `json:"id"`
	Ref       models.OwnerRef `json:"ref"`
	State     string          `json:"state"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Widgets   []models.Widget `json:"widgets"`
	Canvas    canvas.Canvas   `json:"canvas"`
}

type sessionEntry struct {
	id        string
	uid       string
	session   *editor.Session
	expiresAt time.Time
}

// editorService keeps editor sessions in memory, one per open editor. A
// session that sees no calls for the TTL is dropped with its working copy.
type editorService struct {
	store      layoutStore
	feeds      feedStore
	catalog    *widgets.Catalog
	grid       grid.Grid
	gridConfig gridConfig
	canvas     *canvas.Renderer
	ttl        time.Duration
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

func NewEditorService(store layoutStore, feeds feedStore, catalog *widgets.Catalog, g grid.Grid, gc gridConfig, ttl time.Duration) *editorService {
	return &editorService{
		store:      store,
		feeds:      feeds,
		catalog:    catalog,
		grid:       g,
		gridConfig: gc,
		canvas:     canvas.New(catalog, g),
		ttl:        ttl,
		now:        time.Now,
		sessions:   make(map[string]*sessionEntry),
	}
}

func (s *editorService) Open(ctx context.Context, uid string, ref models.OwnerRef) (*SessionView, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}
	rec, err := editable(ctx, s.store, uid, ref)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := logger.FromContext(ctx).With("session_id", id)
	sess := editor.New(s.store, s.catalog,
		editor.WithGrid(s.grid),
		editor.WithOnCommit(func(ref models.OwnerRef, ws []models.Widget) {
			log.Info("layout committed", "ref", ref.String(), "widgets", len(ws))
		}),
	)
	if err := sess.Open(ref, rec.Layout.Widgets); err != nil {
		return nil, err
	}

	e := &sessionEntry{id: id, uid: uid, session: sess}
	s.mu.Lock()
	s.sweepLocked()
	e.expiresAt = s.now().Add(s.ttl)
	s.sessions[e.id] = e
	s.mu.Unlock()

	log.Info("editor session opened", "ref", ref.String())
	return s.view(ctx, e, 0), nil
}

func (s *editorService) Get(ctx context.Context, uid, sid string, columns int) (*SessionView, error) {
	e, err := s.lookup(uid, sid)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, e, columns), nil
}

func (s *editorService) AddWidget(ctx context.Context, uid, sid, widgetType string) (*SessionView, error) {
	return s.apply(ctx, uid, sid, func(sess *editor.Session) error {
		_, err := sess.AddWidget(widgetType)
		return err
	})
}

func (s *editorService) RemoveWidget(ctx context.Context, uid, sid, widgetID string) (*SessionView, error) {
	return s.apply(ctx, uid, sid, func(sess *editor.Session) error {
		return sess.RemoveWidget(widgetID)
	})
}

func (s *editorService) ToggleVisibility(ctx context.Context, uid, sid, widgetID string) (*SessionView, error) {
	return s.apply(ctx, uid, sid, func(sess *editor.Session) error {
		return sess.ToggleVisibility(widgetID)
	})
}

func (s *editorService) UpdateConfig(ctx context.Context, uid, sid, widgetID string, cfg models.Config) (*SessionView, error) {
	return s.apply(ctx, uid, sid, func(sess *editor.Session) error {
		return sess.UpdateConfig(widgetID, cfg)
	})
}

func (s *editorService) LayoutChanged(ctx context.Context, uid, sid string, placements []grid.Placement) (*SessionView, error) {
	return s.apply(ctx, uid, sid, func(sess *editor.Session) error {
		return sess.LayoutChanged(placements)
	})
}

func (s *editorService) Move(ctx context.Context, uid, sid, widgetID string, pos models.Position) (*SessionView, error) {
	return s.apply(ctx, uid, sid, func(sess *editor.Session) error {
		return sess.Move(widgetID, pos)
	})
}

func (s *editorService) Resize(ctx context.Context, uid, sid, widgetID string, size models.Size) (*SessionView, error) {
	return s.apply(ctx, uid, sid, func(sess *editor.Session) error {
		return sess.Resize(widgetID, size)
	})
}

// MoveToPixel moves a widget to the cell nearest to a pixel offset inside an
// editor canvas of the given width.
func (s *editorService) MoveToPixel(ctx context.Context, uid, sid, widgetID string, left, top, containerWidth int) (*SessionView, error) {
	return s.apply(ctx, uid, sid, func(sess *editor.Session) error {
		x, y := s.metrics(sess, containerWidth).CellAt(left, top)
		return sess.Move(widgetID, models.Position{X: x, Y: y})
	})
}

// ResizeToPixels sets a widget's span to the one nearest to a pixel size.
func (s *editorService) ResizeToPixels(ctx context.Context, uid, sid, widgetID string, width, height, containerWidth int) (*SessionView, error) {
	return s.apply(ctx, uid, sid, func(sess *editor.Session) error {
		w, h := s.metrics(sess, containerWidth).SizeFor(width, height)
		return sess.Resize(widgetID, models.Size{W: w, H: h})
	})
}

// metrics describes the editor canvas, which always shows the stored column
// count whatever the breakpoint of the container.
func (s *editorService) metrics(sess *editor.Session, containerWidth int) grid.Metrics {
	m := s.gridConfig.Metrics(sess.Ref().Kind, containerWidth)
	m.Columns = max(sess.Grid().Columns, 1)
	return m
}

func (s *editorService) Reset(ctx context.Context, uid, sid string) (*SessionView, error) {
	return s.apply(ctx, uid, sid, func(sess *editor.Session) error {
		return sess.Reset()
	})
}

// Save commits the working copy. A failed save leaves the session open so the
// caller can retry or cancel.
func (s *editorService) Save(ctx context.Context, uid, sid string) ([]models.Widget, error) {
	e, err := s.lookup(uid, sid)
	if err != nil {
		return nil, err
	}
	saved, err := e.session.Save(ctx)
	if err != nil {
		var saveErr *editor.SaveError
		if errors.As(err, &saveErr) {
			logger.FromContext(ctx).Error("layout save failed",
				"session_id", sid,
				"ref", e.session.Ref().String(),
				"error", saveErr.Err)
			s.touch(e)
			return nil, errs.NewSaveFailedError(sid, saveErr.Err)
		}
		return nil, translateEditorError(err)
	}
	s.drop(sid)
	return saved, nil
}

func (s *editorService) Cancel(ctx context.Context, uid, sid string) error {
	e, err := s.lookup(uid, sid)
	if err != nil {
		return err
	}
	if err := e.session.Cancel(); err != nil {
		return translateEditorError(err)
	}
	s.drop(sid)
	logger.FromContext(ctx).Info("editor session cancelled", "session_id", sid)
	return nil
}

func (s *editorService) apply(ctx context.Context, uid, sid string, fn func(*editor.Session) error) (*SessionView, error) {
	e, err := s.lookup(uid, sid)
	if err != nil {
		return nil, err
	}
	if err := fn(e.session); err != nil {
		return nil, translateEditorError(err)
	}
	s.touch(e)
	return s.view(ctx, e, 0), nil
}

// lookup returns a live session owned by uid. Sessions of other users are
// reported as missing.
func (s *editorService) lookup(uid, sid string) (*sessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sid]
	if !ok || e.uid != uid {
		return nil, errs.NewNotFoundError("editor session not found")
	}
	if !s.now().Before(e.expiresAt) && e.session.State() != editor.Saving {
		delete(s.sessions, sid)
		return nil, errs.NewNotFoundError("editor session expired")
	}
	return e, nil
}

func (s *editorService) touch(e *sessionEntry) {
	s.mu.Lock()
	e.expiresAt = s.now().Add(s.ttl)
	s.mu.Unlock()
}

func (s *editorService) drop(sid string) {
	s.mu.Lock()
	delete(s.sessions, sid)
	s.mu.Unlock()
}

func (s *editorService) sweepLocked() {
	now := s.now()
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) && e.session.State() != editor.Saving {
			delete(s.sessions, id)
		}
	}
}

// Open sessions, for tests and diagnostics.
func (s *editorService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *editorService) view(ctx context.Context, e *sessionEntry, columns int) *SessionView {
	ref := e.session.Ref()
	working := e.session.Working()
	feeds := loadFeeds(ctx, s.feeds, ref)

	s.mu.Lock()
	expires := e.expiresAt
	s.mu.Unlock()

	return &SessionView{
		ID:        e.id,
		Ref:       ref,
		State:     e.session.State().String(),
		ExpiresAt: expires,
		Widgets:   working,
		Canvas: s.canvas.Render(working, canvas.View{
			IsOwner:  true,
			EditMode: true,
			Columns:  columns,
			Now:      s.now(),
		}, feeds),
	}
}

func translateEditorError(err error) error {
	switch {
	case errors.Is(err, editor.ErrClosed):
		return errs.NewNotFoundError("editor session is closed")
	case errors.Is(err, editor.ErrSaveInFlight):
		return errs.NewConflictError("a save is already in progress")
	case errors.Is(err, editor.ErrUnknownType):
		return errs.NewValidationError("unknown widget type")
	case errors.Is(err, editor.ErrNotAllowed):
		return errs.NewValidationError("widget type is not allowed in this layout")
	case errors.Is(err, grid.ErrUnknownWidget):
		return errs.NewNotFoundError("widget not found")
	case errors.Is(err, grid.ErrCollision):
		return errs.NewConflictError("widget would overlap another widget")
	}
	// remaining session errors come from validating the working copy
	return errs.NewValidationError(err.Error())
}
