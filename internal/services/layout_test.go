package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/GregMSThompson/layout-backend/internal/config"
	"github.com/GregMSThompson/layout-backend/internal/errs"
	"github.com/GregMSThompson/layout-backend/internal/grid"
	"github.com/GregMSThompson/layout-backend/internal/models"
	"github.com/GregMSThompson/layout-backend/internal/widgets"
	"github.com/GregMSThompson/layout-backend/pkg/helpers"
)

var (
	aliceProfile   = models.OwnerRef{Kind: models.KindProfile, ID: "alice"}
	aliceDashboard = models.OwnerRef{Kind: models.KindDashboard, ID: "alice"}
	readersGuild   = models.OwnerRef{Kind: models.KindGuild, ID: "readers"}
)

func newTestLayoutService(store *fakeLayoutStore, feeds *fakeFeedStore) *layoutService {
	return NewLayoutService(store, feeds, widgets.Default(), grid.New(4), config.DefaultLayout())
}

func sampleWidgets() []models.Widget {
	return []models.Widget{
		{ID: "tasks", Type: widgets.TypeTasks, Position: models.Position{X: 0, Y: 0}, Size: models.Size{W: 2, H: 2}, Visibility: models.VisibilityPublic, Config: models.Config{}},
		{ID: "secret", Type: widgets.TypeText, Position: models.Position{X: 2, Y: 0}, Size: models.Size{W: 1, H: 1}, Visibility: models.VisibilityPrivate, Config: models.Config{"text": "diary"}},
	}
}

func TestGetCanvasOwnerAndVisitor(t *testing.T) {
	store := newFakeLayoutStore()
	store.put(aliceProfile, []string{"alice"}, sampleWidgets())
	svc := newTestLayoutService(store, &fakeFeedStore{})

	owner, err := svc.GetCanvas(helpers.TestCtx(), "alice", aliceProfile, CanvasOptions{EditMode: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !owner.IsOwner || !owner.EditMode || len(owner.Canvas.Items) != 2 {
		t.Fatalf("unexpected owner view: %+v", owner)
	}

	visitor, err := svc.GetCanvas(helpers.TestCtx(), "bob", aliceProfile, CanvasOptions{EditMode: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if visitor.IsOwner || visitor.EditMode {
		t.Fatalf("visitor must not get edit mode: %+v", visitor)
	}
	if len(visitor.Canvas.Items) != 1 || visitor.Canvas.Items[0].ID != "tasks" {
		t.Fatalf("private widget leaked: %+v", visitor.Canvas.Items)
	}
}

func TestGetCanvasBreakpoint(t *testing.T) {
	store := newFakeLayoutStore()
	store.put(aliceProfile, []string{"alice"}, sampleWidgets())
	svc := newTestLayoutService(store, &fakeFeedStore{})

	view, err := svc.GetCanvas(helpers.TestCtx(), "alice", aliceProfile, CanvasOptions{Width: 800})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Breakpoint != "sm" || view.Canvas.Columns != 2 {
		t.Fatalf("breakpoint = %q columns = %d", view.Breakpoint, view.Canvas.Columns)
	}
	for _, it := range view.Canvas.Items {
		if it.Rect == nil {
			t.Fatalf("item %s has no pixel rect", it.ID)
		}
		if it.Placement.X == 0 && it.Rect.Left != grid.DefaultMargin {
			t.Errorf("item %s left = %d", it.ID, it.Rect.Left)
		}
	}

	view, err = svc.GetCanvas(helpers.TestCtx(), "alice", aliceProfile, CanvasOptions{Width: 800, Columns: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Canvas.Columns != 1 {
		t.Fatalf("columns override ignored: %d", view.Canvas.Columns)
	}
}

func TestDashboardHiddenFromOthers(t *testing.T) {
	store := newFakeLayoutStore()
	store.put(aliceDashboard, []string{"alice"}, sampleWidgets())
	svc := newTestLayoutService(store, &fakeFeedStore{})

	_, err := svc.GetCanvas(helpers.TestCtx(), "bob", aliceDashboard, CanvasOptions{})
	if _, ok := err.(*errs.NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
}

func TestGuildDefaultLayout(t *testing.T) {
	store := newFakeLayoutStore()
	store.put(readersGuild, []string{"admin"}, nil)
	feeds := &fakeFeedStore{guild: models.Feeds{Guild: &models.GuildSummary{Name: "Readers"}}}
	svc := newTestLayoutService(store, feeds)

	view, err := svc.GetCanvas(helpers.TestCtx(), "member", readersGuild, CanvasOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Canvas.Items) != 3 {
		t.Fatalf("expected the default guild layout, got %d items", len(view.Canvas.Items))
	}
	if view.Canvas.Items[0].Title != "Readers" {
		t.Fatalf("guild info title = %q", view.Canvas.Items[0].Title)
	}
	if p := view.Canvas.Items[2].Placement; p.X != 1 || p.Y != 1 {
		t.Fatalf("guild activity placement = %+v", p)
	}
}

func TestGuildFeedFailureDoesNotFailCanvas(t *testing.T) {
	store := newFakeLayoutStore()
	store.put(readersGuild, []string{"admin"}, nil)
	svc := newTestLayoutService(store, &fakeFeedStore{guildErr: errors.New("unavailable")})

	ctx, logs := logCtx()
	view, err := svc.GetCanvas(ctx, "admin", readersGuild, CanvasOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Canvas.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(view.Canvas.Items))
	}
	if !strings.Contains(logs.String(), "guild feed unavailable") {
		t.Fatalf("feed failure not logged: %s", logs.String())
	}
}

func TestGetCanvasLoadError(t *testing.T) {
	store := newFakeLayoutStore()
	store.loadErr = errs.NewDatabaseError("read", "failed to get layout", errors.New("boom"))
	svc := newTestLayoutService(store, &fakeFeedStore{})

	_, err := svc.GetCanvas(helpers.TestCtx(), "alice", aliceProfile, CanvasOptions{})
	if _, ok := err.(*errs.DatabaseError); !ok {
		t.Fatalf("expected DatabaseError, got %T", err)
	}
}

func TestSaveLayoutCompacts(t *testing.T) {
	store := newFakeLayoutStore()
	svc := newTestLayoutService(store, &fakeFeedStore{})

	in := []models.Widget{
		{ID: "a", Type: widgets.TypeText, Position: models.Position{X: 0, Y: 5}, Size: models.Size{W: 1, H: 1}},
		{ID: "b", Type: widgets.TypeImage, Position: models.PendingPosition(), Size: models.Size{W: 9, H: 1}},
	}
	out, err := svc.SaveLayout(helpers.TestCtx(), "alice", aliceProfile, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Position.Y != 0 {
		t.Fatalf("a should move up, got %+v", out[0].Position)
	}
	if out[1].Position.Pending || out[1].Size.W != 4 || out[1].Position.Y != 1 {
		t.Fatalf("b not resolved: %+v", out[1])
	}
	if got := store.widgets(aliceProfile); len(got) != 2 {
		t.Fatalf("store has %d widgets", len(got))
	}
}

func TestSaveLayoutRules(t *testing.T) {
	store := newFakeLayoutStore()
	store.put(readersGuild, []string{"admin"}, nil)
	svc := newTestLayoutService(store, &fakeFeedStore{})
	ctx := helpers.TestCtx()

	if _, err := svc.SaveLayout(ctx, "bob", aliceProfile, sampleWidgets()); !isType[*errs.ForbiddenError](err) {
		t.Errorf("non-owner save: got %T", err)
	}

	dup := sampleWidgets()
	dup[1].ID = dup[0].ID
	if _, err := svc.SaveLayout(ctx, "alice", aliceProfile, dup); !isType[*errs.ValidationError](err) {
		t.Errorf("duplicate ids: got %T", err)
	}

	if _, err := svc.SaveLayout(ctx, "admin", readersGuild, sampleWidgets()); !isType[*errs.ValidationError](err) {
		t.Errorf("tasks widget in a guild: got %T", err)
	}

	unknown := []models.Widget{{ID: "x", Type: "from-the-future", Size: models.Size{W: 1, H: 1}}}
	if _, err := svc.SaveLayout(ctx, "admin", readersGuild, unknown); err != nil {
		t.Errorf("unknown types should be kept: %v", err)
	}

	if _, err := svc.SaveLayout(ctx, "alice", models.OwnerRef{Kind: "team", ID: "x"}, nil); !isType[*errs.ValidationError](err) {
		t.Errorf("bad kind: got %T", err)
	}
	if store.saves != 1 {
		t.Errorf("expected 1 store write, got %d", store.saves)
	}
}

func isType[T error](err error) bool {
	_, ok := err.(T)
	return ok
}
