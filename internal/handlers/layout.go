package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/layout-backend/internal/dto"
	"github.com/GregMSThompson/layout-backend/internal/errs"
	"github.com/GregMSThompson/layout-backend/internal/middleware"
	"github.com/GregMSThompson/layout-backend/internal/models"
	"github.com/GregMSThompson/layout-backend/internal/response"
	"github.com/GregMSThompson/layout-backend/internal/services"
)

type LayoutService interface {
	GetCanvas(ctx context.Context, uid string, ref models.OwnerRef, opts services.CanvasOptions) (*services.CanvasView, error)
	SaveLayout(ctx context.Context, uid string, ref models.OwnerRef, widgets []models.Widget) ([]models.Widget, error)
}

type layoutHandlers struct {
	ResponseHandler response.ResponseHandler
	LayoutSvc       LayoutService
}

func NewLayoutHandlers(deps *Deps) *layoutHandlers {
	return &layoutHandlers{
		ResponseHandler: deps.ResponseHandler,
		LayoutSvc:       deps.LayoutSvc,
	}
}

// LayoutRoutes serves /{kind}/{id}/layout for profile, guild and dashboard records.
func (h *layoutHandlers) LayoutRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{kind}/{id}/layout", h.GetLayout)
	r.Patch("/{kind}/{id}/layout", h.SaveLayout)
	return r
}

func (h *layoutHandlers) GetLayout(w http.ResponseWriter, r *http.Request) {
	ref, err := ownerRef(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	width, err := queryInt(r, "width")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	cols, err := queryInt(r, "cols")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	uid := middleware.UID(r.Context())
	view, err := h.LayoutSvc.GetCanvas(r.Context(), uid, ref, services.CanvasOptions{
		EditMode: queryBool(r, "edit"),
		Width:    width,
		Columns:  cols,
	})
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, view)
}

func (h *layoutHandlers) SaveLayout(w http.ResponseWriter, r *http.Request) {
	ref, err := ownerRef(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.SaveLayoutRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if req.Layout == nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("layout is required"))
		return
	}

	uid := middleware.UID(r.Context())
	saved, err := h.LayoutSvc.SaveLayout(r.Context(), uid, ref, req.Layout.Widgets)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, models.Layout{Widgets: saved})
}
