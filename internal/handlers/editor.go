package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/layout-backend/internal/dto"
	"github.com/GregMSThompson/layout-backend/internal/errs"
	"github.com/GregMSThompson/layout-backend/internal/grid"
	"github.com/GregMSThompson/layout-backend/internal/middleware"
	"github.com/GregMSThompson/layout-backend/internal/models"
	"github.com/GregMSThompson/layout-backend/internal/response"
	"github.com/GregMSThompson/layout-backend/internal/services"
)

type EditorService interface {
	Open(ctx context.Context, uid string, ref models.OwnerRef) (*services.SessionView, error)
	Get(ctx context.Context, uid, sid string, columns int) (*services.SessionView, error)
	AddWidget(ctx context.Context, uid, sid, widgetType string) (*services.SessionView, error)
	RemoveWidget(ctx context.Context, uid, sid, widgetID string) (*services.SessionView, error)
	ToggleVisibility(ctx context.Context, uid, sid, widgetID string) (*services.SessionView, error)
	UpdateConfig(ctx context.Context, uid, sid, widgetID string, cfg models.Config) (*services.SessionView, error)
	LayoutChanged(ctx context.Context, uid, sid string, placements []grid.Placement) (*services.SessionView, error)
	Move(ctx context.Context, uid, sid, widgetID string, pos models.Position) (*services.SessionView, error)
	Resize(ctx context.Context, uid, sid, widgetID string, size models.Size) (*services.SessionView, error)
	MoveToPixel(ctx context.Context, uid, sid, widgetID string, left, top, containerWidth int) (*services.SessionView, error)
	ResizeToPixels(ctx context.Context, uid, sid, widgetID string, width, height, containerWidth int) (*services.SessionView, error)
	Reset(ctx context.Context, uid, sid string) (*services.SessionView, error)
	Save(ctx context.Context, uid, sid string) ([]models.Widget, error)
	Cancel(ctx context.Context, uid, sid string) error
}

type editorHandlers struct {
	ResponseHandler response.ResponseHandler
	EditorSvc       EditorService
}

func NewEditorHandlers(deps *Deps) *editorHandlers {
	return &editorHandlers{
		ResponseHandler: deps.ResponseHandler,
		EditorSvc:       deps.EditorSvc,
	}
}

func (h *editorHandlers) EditorRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Open)
	r.Route("/{sessionId}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Cancel)
		r.Post("/widgets", h.AddWidget)
		r.Delete("/widgets/{widgetId}", h.RemoveWidget)
		r.Post("/widgets/{widgetId}/visibility", h.ToggleVisibility)
		r.Put("/widgets/{widgetId}/config", h.UpdateConfig)
		r.Post("/widgets/{widgetId}/move", h.Move)
		r.Post("/widgets/{widgetId}/resize", h.Resize)
		r.Put("/layout", h.LayoutChanged)
		r.Post("/reset", h.Reset)
		r.Post("/save", h.Save)
	})
	return r
}

func (h *editorHandlers) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	ref, err := resolveOwner(r, req.Kind, req.ID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	view, err := h.EditorSvc.Open(r.Context(), middleware.UID(r.Context()), ref)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, view)
}

func (h *editorHandlers) Get(w http.ResponseWriter, r *http.Request) {
	cols, err := queryInt(r, "cols")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	view, err := h.EditorSvc.Get(r.Context(), uid, chi.URLParam(r, "sessionId"), cols)
	h.write(w, r, view, err)
}

func (h *editorHandlers) AddWidget(w http.ResponseWriter, r *http.Request) {
	var req dto.AddWidgetRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if req.Type == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("type is required"))
		return
	}
	uid := middleware.UID(r.Context())
	view, err := h.EditorSvc.AddWidget(r.Context(), uid, chi.URLParam(r, "sessionId"), req.Type)
	h.write(w, r, view, err)
}

func (h *editorHandlers) RemoveWidget(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	view, err := h.EditorSvc.RemoveWidget(r.Context(), uid, chi.URLParam(r, "sessionId"), chi.URLParam(r, "widgetId"))
	h.write(w, r, view, err)
}

func (h *editorHandlers) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	view, err := h.EditorSvc.ToggleVisibility(r.Context(), uid, chi.URLParam(r, "sessionId"), chi.URLParam(r, "widgetId"))
	h.write(w, r, view, err)
}

func (h *editorHandlers) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	view, err := h.EditorSvc.UpdateConfig(r.Context(), uid, chi.URLParam(r, "sessionId"), chi.URLParam(r, "widgetId"), req.Config)
	h.write(w, r, view, err)
}

func (h *editorHandlers) Move(w http.ResponseWriter, r *http.Request) {
	var req dto.MoveRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	sid, wid := chi.URLParam(r, "sessionId"), chi.URLParam(r, "widgetId")
	var (
		view *services.SessionView
		err  error
	)
	switch {
	case req.Position != nil:
		view, err = h.EditorSvc.Move(r.Context(), uid, sid, wid, *req.Position)
	case req.Pixels != nil:
		if req.Pixels.ContainerWidth <= 0 {
			err = errs.NewValidationError("pixels.containerWidth must be positive")
			break
		}
		px := req.Pixels
		view, err = h.EditorSvc.MoveToPixel(r.Context(), uid, sid, wid, px.Left, px.Top, px.ContainerWidth)
	default:
		err = errs.NewValidationError("position or pixels is required")
	}
	h.write(w, r, view, err)
}

func (h *editorHandlers) Resize(w http.ResponseWriter, r *http.Request) {
	var req dto.ResizeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	sid, wid := chi.URLParam(r, "sessionId"), chi.URLParam(r, "widgetId")
	var (
		view *services.SessionView
		err  error
	)
	switch {
	case req.Size != nil:
		view, err = h.EditorSvc.Resize(r.Context(), uid, sid, wid, *req.Size)
	case req.Pixels != nil:
		if req.Pixels.ContainerWidth <= 0 {
			err = errs.NewValidationError("pixels.containerWidth must be positive")
			break
		}
		px := req.Pixels
		view, err = h.EditorSvc.ResizeToPixels(r.Context(), uid, sid, wid, px.Width, px.Height, px.ContainerWidth)
	default:
		err = errs.NewValidationError("size or pixels is required")
	}
	h.write(w, r, view, err)
}

func (h *editorHandlers) LayoutChanged(w http.ResponseWriter, r *http.Request) {
	var req dto.LayoutChangedRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	view, err := h.EditorSvc.LayoutChanged(r.Context(), uid, chi.URLParam(r, "sessionId"), req.Placements)
	h.write(w, r, view, err)
}

func (h *editorHandlers) Reset(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	view, err := h.EditorSvc.Reset(r.Context(), uid, chi.URLParam(r, "sessionId"))
	h.write(w, r, view, err)
}

func (h *editorHandlers) Save(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	saved, err := h.EditorSvc.Save(r.Context(), uid, chi.URLParam(r, "sessionId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, models.Layout{Widgets: saved})
}

func (h *editorHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.EditorSvc.Cancel(r.Context(), uid, chi.URLParam(r, "sessionId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *editorHandlers) write(w http.ResponseWriter, r *http.Request, view *services.SessionView, err error) {
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, view)
}
