package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/layout-backend/internal/dto"
	"github.com/GregMSThompson/layout-backend/internal/models"
	"github.com/GregMSThompson/layout-backend/internal/widgets"
)

func TestListWidgetTypes_Scoped(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewCatalogHandlers(&Deps{ResponseHandler: resp, Catalog: widgets.Default()})

	req := httptest.NewRequest(http.MethodGet, "/widget-types?scope=guild", nil)
	rr := httptest.NewRecorder()
	h.ListWidgetTypes(rr, req)

	if !resp.writeSuccessCalled {
		t.Fatal("expected WriteSuccess")
	}
	out, ok := resp.writeSuccessData.(dto.WidgetTypesResponse)
	if !ok {
		t.Fatalf("unexpected response data: %#v", resp.writeSuccessData)
	}
	list := out.Widgets.([]widgets.Descriptor)
	for _, d := range list {
		if !d.AllowedIn(models.KindGuild) {
			t.Errorf("%s is not allowed in guild layouts", d.Type)
		}
	}
	if len(list) == 0 || len(list) >= len(widgets.Default().List()) {
		t.Errorf("expected a strict subset, got %d entries", len(list))
	}
}

func TestListWidgetTypes_All(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewCatalogHandlers(&Deps{ResponseHandler: resp, Catalog: widgets.Default()})

	req := httptest.NewRequest(http.MethodGet, "/widget-types", nil)
	rr := httptest.NewRecorder()
	h.ListWidgetTypes(rr, req)

	out := resp.writeSuccessData.(dto.WidgetTypesResponse)
	if got := len(out.Widgets.([]widgets.Descriptor)); got != len(widgets.Default().List()) {
		t.Errorf("expected the full catalog, got %d entries", got)
	}
}

func TestListWidgetTypes_BadScope(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewCatalogHandlers(&Deps{ResponseHandler: resp, Catalog: widgets.Default()})

	req := httptest.NewRequest(http.MethodGet, "/widget-types?scope=moon", nil)
	rr := httptest.NewRecorder()
	h.ListWidgetTypes(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError on unknown scope")
	}
}
