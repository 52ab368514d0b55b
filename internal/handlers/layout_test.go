package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/layout-backend/internal/errs"
	"github.com/GregMSThompson/layout-backend/internal/models"
	"github.com/GregMSThompson/layout-backend/internal/services"
)

type stubLayoutService struct {
	view    *services.CanvasView
	saved   []models.Widget
	err     error
	lastUID string
	lastRef models.OwnerRef
	lastOpt services.CanvasOptions
	lastSet []models.Widget
}

func (s *stubLayoutService) GetCanvas(_ context.Context, uid string, ref models.OwnerRef, opts services.CanvasOptions) (*services.CanvasView, error) {
	s.lastUID, s.lastRef, s.lastOpt = uid, ref, opts
	return s.view, s.err
}

func (s *stubLayoutService) SaveLayout(_ context.Context, uid string, ref models.OwnerRef, ws []models.Widget) ([]models.Widget, error) {
	s.lastUID, s.lastRef, s.lastSet = uid, ref, ws
	return s.saved, s.err
}

func TestGetLayout_ResolvesMe(t *testing.T) {
	svc := &stubLayoutService{view: &services.CanvasView{}}
	resp := &stubResponseHandler{}
	h := NewLayoutHandlers(&Deps{ResponseHandler: resp, LayoutSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/profile/me/layout?edit=true&width=700&cols=2", nil)
	req = withUID(req, "uid1")
	req = withChiParams(req, "kind", "profile", "id", "me")
	rr := httptest.NewRecorder()
	h.GetLayout(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess with 200, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.lastRef != (models.OwnerRef{Kind: models.KindProfile, ID: "uid1"}) {
		t.Errorf("unexpected ref: %+v", svc.lastRef)
	}
	if !svc.lastOpt.EditMode || svc.lastOpt.Width != 700 || svc.lastOpt.Columns != 2 {
		t.Errorf("unexpected options: %+v", svc.lastOpt)
	}
}

func TestGetLayout_UnknownKind(t *testing.T) {
	svc := &stubLayoutService{}
	resp := &stubResponseHandler{}
	h := NewLayoutHandlers(&Deps{ResponseHandler: resp, LayoutSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/planet/x/layout", nil)
	req = withUID(req, "uid1")
	req = withChiParams(req, "kind", "planet", "id", "x")
	rr := httptest.NewRecorder()
	h.GetLayout(rr, req)

	var nf *errs.NotFoundError
	if !errors.As(resp.handleError, &nf) {
		t.Fatalf("expected NotFoundError, got %v", resp.handleError)
	}
	if svc.lastUID != "" {
		t.Fatal("service should not be called")
	}
}

func TestGetLayout_GuildMeRejected(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewLayoutHandlers(&Deps{ResponseHandler: resp, LayoutSvc: &stubLayoutService{}})

	req := httptest.NewRequest(http.MethodGet, "/guild/me/layout", nil)
	req = withUID(req, "uid1")
	req = withChiParams(req, "kind", "guild", "id", "me")
	rr := httptest.NewRecorder()
	h.GetLayout(rr, req)

	var ve *errs.ValidationError
	if !errors.As(resp.handleError, &ve) {
		t.Fatalf("expected ValidationError, got %v", resp.handleError)
	}
}

func TestGetLayout_BadQuery(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewLayoutHandlers(&Deps{ResponseHandler: resp, LayoutSvc: &stubLayoutService{}})

	req := httptest.NewRequest(http.MethodGet, "/profile/u/layout?cols=abc", nil)
	req = withChiParams(req, "kind", "profile", "id", "u")
	rr := httptest.NewRecorder()
	h.GetLayout(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError on bad cols")
	}
}

func TestSaveLayout_OK(t *testing.T) {
	svc := &stubLayoutService{saved: []models.Widget{{ID: "A", Type: "text"}}}
	resp := &stubResponseHandler{}
	h := NewLayoutHandlers(&Deps{ResponseHandler: resp, LayoutSvc: svc})

	body := `{"layout":{"widgets":[{"id":"A","type":"text","position":{"x":0,"y":3},"size":{"w":1,"h":1},"visibility":"public","config":{}}]}}`
	req := httptest.NewRequest(http.MethodPatch, "/dashboard/me/layout", strings.NewReader(body))
	req = withUID(req, "uid1")
	req = withChiParams(req, "kind", "dashboard", "id", "me")
	rr := httptest.NewRecorder()
	h.SaveLayout(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess with 200, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if len(svc.lastSet) != 1 || svc.lastSet[0].ID != "A" {
		t.Fatalf("unexpected widgets passed to service: %+v", svc.lastSet)
	}
	layout, ok := resp.writeSuccessData.(models.Layout)
	if !ok || len(layout.Widgets) != 1 {
		t.Fatalf("unexpected response data: %#v", resp.writeSuccessData)
	}
}

func TestSaveLayout_MissingLayout(t *testing.T) {
	svc := &stubLayoutService{}
	resp := &stubResponseHandler{}
	h := NewLayoutHandlers(&Deps{ResponseHandler: resp, LayoutSvc: svc})

	req := httptest.NewRequest(http.MethodPatch, "/profile/me/layout", strings.NewReader(`{}`))
	req = withUID(req, "uid1")
	req = withChiParams(req, "kind", "profile", "id", "me")
	rr := httptest.NewRecorder()
	h.SaveLayout(rr, req)

	if !resp.handleErrorCalled || resp.writeSuccessCalled {
		t.Fatal("expected HandleError without WriteSuccess")
	}
	if svc.lastUID != "" {
		t.Fatal("service should not be called")
	}
}

func TestSaveLayout_ServiceError(t *testing.T) {
	svc := &stubLayoutService{err: errs.NewForbiddenError("not yours")}
	resp := &stubResponseHandler{}
	h := NewLayoutHandlers(&Deps{ResponseHandler: resp, LayoutSvc: svc})

	req := httptest.NewRequest(http.MethodPatch, "/profile/other/layout", strings.NewReader(`{"layout":{"widgets":[]}}`))
	req = withUID(req, "uid1")
	req = withChiParams(req, "kind", "profile", "id", "other")
	rr := httptest.NewRecorder()
	h.SaveLayout(rr, req)

	if !errors.Is(resp.handleError, svc.err) {
		t.Fatalf("unexpected error passed to HandleError: %v", resp.handleError)
	}
}
