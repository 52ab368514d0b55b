package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/layout-backend/internal/dto"
	"github.com/GregMSThompson/layout-backend/internal/errs"
	"github.com/GregMSThompson/layout-backend/internal/models"
	"github.com/GregMSThompson/layout-backend/internal/response"
	"github.com/GregMSThompson/layout-backend/internal/widgets"
)

type catalogHandlers struct {
	ResponseHandler response.ResponseHandler
	Catalog         *widgets.Catalog
}

func NewCatalogHandlers(deps *Deps) *catalogHandlers {
	return &catalogHandlers{
		ResponseHandler: deps.ResponseHandler,
		Catalog:         deps.Catalog,
	}
}

func (h *catalogHandlers) CatalogRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListWidgetTypes)
	return r
}

// ListWidgetTypes returns the widget picker, optionally narrowed to one layout kind.
func (h *catalogHandlers) ListWidgetTypes(w http.ResponseWriter, r *http.Request) {
	scope := models.LayoutKind(r.URL.Query().Get("scope"))
	if scope == "" {
		h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.WidgetTypesResponse{Widgets: h.Catalog.List()})
		return
	}
	if !scope.Valid() {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("unknown scope"))
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.WidgetTypesResponse{
		Scope:   scope,
		Widgets: h.Catalog.ForScope(scope),
	})
}
