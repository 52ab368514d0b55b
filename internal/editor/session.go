// Package editor implements the layout editing transaction: a working copy of one
// widget set that is either committed through a Saver or thrown away.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/GregMSThompson/layout-backend/internal/grid"
	"github.com/GregMSThompson/layout-backend/internal/models"
	"github.com/GregMSThompson/layout-backend/internal/widgets"
)

type State int

const (
	Closed State = iota
	Editing
	Saving
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return "closed"
	}
}

var (
	ErrClosed       = errors.New("editor session is closed")
	ErrAlreadyOpen  = errors.New("editor session is already open")
	ErrSaveInFlight = errors.New("editor session is saving")
	ErrUnknownType  = errors.New("widget type is not in the catalog")
	ErrNotAllowed   = errors.New("widget type is not allowed in this layout")
)

// SaveError wraps a Saver failure. The session is back in Editing with the
// working copy untouched when it is returned.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string { return fmt.Sprintf("save layout: %v", e.Err) }
func (e *SaveError) Unwrap() error { return e.Err }

// Saver persists a committed widget set.
type Saver interface {
	SaveWidgets(ctx context.Context, ref models.OwnerRef, widgets []models.Widget) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, ref models.OwnerRef, widgets []models.Widget) error

func (f SaverFunc) SaveWidgets(ctx context.Context, ref models.OwnerRef, w []models.Widget) error {
	return f(ctx, ref, w)
}

type Option func(*Session)

// WithGrid sets the grid used for compaction and single-widget moves.
func WithGrid(g grid.Grid) Option {
	return func(s *Session) { s.grid = g }
}

// WithOnCommit registers a callback that receives every successfully saved set.
func WithOnCommit(fn func(ref models.OwnerRef, widgets []models.Widget)) Option {
	return func(s *Session) { s.onCommit = fn }
}

// WithIDGenerator replaces the widget id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

// Session is safe for concurrent use. Every accessor returns deep copies.
type Session struct {
	saver    Saver
	catalog  *widgets.Catalog
	grid     grid.Grid
	onCommit func(models.OwnerRef, []models.Widget)
	newID    func() string

	mu        sync.Mutex
	state     State
	ref       models.OwnerRef
	canonical []models.Widget
	working   []models.Widget
}

func New(saver Saver, catalog *widgets.Catalog, opts ...Option) *Session {
	s := &Session{
		saver:   saver,
		catalog: catalog,
		grid:    grid.New(grid.DefaultBreakpoints().Widest().Columns),
		newID:   newWidgetID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newWidgetID() string {
	return "widget-" + uuid.Must(uuid.NewV7()).String()
}

// Open starts editing a copy of baseline.
func (s *Session) Open(ref models.OwnerRef, baseline []models.Widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Closed {
		return ErrAlreadyOpen
	}
	s.ref = ref
	s.canonical = models.CloneWidgets(baseline)
	s.working = models.CloneWidgets(baseline)
	s.state = Editing
	return nil
}

// AddWidget appends a new public instance of a catalog type at the pending
// position and returns its id.
func (s *Session) AddWidget(widgetType string) (string, error) {
	d, ok := s.catalog.Lookup(widgetType)
	if !ok {
		return "", ErrUnknownType
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return "", err
	}
	if !d.AllowedIn(s.ref.Kind) {
		return "", ErrNotAllowed
	}
	id := s.mintID()
	s.working = append(s.working, models.Widget{
		ID:         id,
		Type:       d.Type,
		Position:   models.PendingPosition(),
		Size:       s.grid.ClampSize(d.SizeIn(s.ref.Kind)),
		Visibility: models.VisibilityPublic,
		Config:     models.Config{},
	})
	return id, nil
}

// mintID draws ids until one is unused by both the baseline and the working copy.
func (s *Session) mintID() string {
	for {
		id := s.newID()
		if models.FindWidget(s.working, id) < 0 && models.FindWidget(s.canonical, id) < 0 {
			return id
		}
	}
}

// RemoveWidget drops an instance. Removing an absent id is not an error.
func (s *Session) RemoveWidget(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	if i := models.FindWidget(s.working, id); i >= 0 {
		s.working = append(s.working[:i:i], s.working[i+1:]...)
	}
	return nil
}

func (s *Session) ToggleVisibility(id string) error {
	return s.mutate(id, func(w *models.Widget) {
		w.Visibility = w.Visibility.Toggled()
	})
}

// UpdateConfig replaces the config of one instance wholesale.
func (s *Session) UpdateConfig(id string, cfg models.Config) error {
	next := models.Widget{Config: cfg}.Clone().Config
	return s.mutate(id, func(w *models.Widget) {
		w.Config = next
	})
}

// LayoutChanged copies positions and sizes reported by the grid onto the
// matching instances. Entries for unknown ids are skipped.
func (s *Session) LayoutChanged(placements []grid.Placement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	for _, p := range placements {
		i := models.FindWidget(s.working, p.ID)
		if i < 0 {
			continue
		}
		w := &s.working[i]
		w.Position = models.Position{X: max(p.X, 0), Y: max(p.Y, 0)}
		w.Size = s.grid.ClampSize(models.Size{W: p.W, H: p.H})
	}
	return nil
}

// Move repositions one instance through the grid rules.
func (s *Session) Move(id string, pos models.Position) error {
	return s.replace(func(ws []models.Widget) ([]models.Widget, error) {
		return s.grid.ApplyMove(ws, id, pos)
	})
}

// Resize changes the size of one instance through the grid rules.
func (s *Session) Resize(id string, size models.Size) error {
	return s.replace(func(ws []models.Widget) ([]models.Widget, error) {
		return s.grid.ApplyResize(ws, id, size)
	})
}

// Reset discards every edit made since Open.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.working = models.CloneWidgets(s.canonical)
	return nil
}

// Save compacts the working copy and hands it to the Saver. On success the
// saved set becomes canonical and the session closes; on failure it stays
// in Editing and a *SaveError is returned.
func (s *Session) Save(ctx context.Context) ([]models.Widget, error) {
	s.mu.Lock()
	if err := s.editable(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := models.ValidateWidgets(s.working); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	ref := s.ref
	out := s.grid.Compact(s.working)
	s.state = Saving
	s.mu.Unlock()

	err := s.saver.SaveWidgets(ctx, ref, models.CloneWidgets(out))

	s.mu.Lock()
	if err != nil {
		s.state = Editing
		s.mu.Unlock()
		return nil, &SaveError{Err: err}
	}
	s.canonical = out
	s.working = nil
	s.state = Closed
	onCommit := s.onCommit
	s.mu.Unlock()

	if onCommit != nil {
		onCommit(ref, models.CloneWidgets(out))
	}
	return models.CloneWidgets(out), nil
}

// Cancel discards the working copy. The canonical set is left as it was.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Saving:
		return ErrSaveInFlight
	case Closed:
		return nil
	}
	s.working = nil
	s.state = Closed
	return nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Ref() models.OwnerRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ref
}

// Working returns a copy of the widget set being edited, or nil when closed.
func (s *Session) Working() []models.Widget {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Closed {
		return nil
	}
	return models.CloneWidgets(s.working)
}

// Canonical returns a copy of the last committed set.
func (s *Session) Canonical() []models.Widget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneWidgets(s.canonical)
}

func (s *Session) Grid() grid.Grid { return s.grid }

func (s *Session) editable() error {
	switch s.state {
	case Closed:
		return ErrClosed
	case Saving:
		return ErrSaveInFlight
	}
	return nil
}

func (s *Session) mutate(id string, fn func(*models.Widget)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	i := models.FindWidget(s.working, id)
	if i < 0 {
		return grid.ErrUnknownWidget
	}
	fn(&s.working[i])
	return nil
}

func (s *Session) replace(fn func([]models.Widget) ([]models.Widget, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	next, err := fn(s.working)
	if err != nil {
		return err
	}
	s.working = next
	return nil
}
