package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/layout-backend/internal/handlers"
	"github.com/GregMSThompson/layout-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps, auth middleware.TokenVerifier) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mw := middleware.NewMiddleware(auth)
	ch := handlers.NewCatalogHandlers(deps)
	lh := handlers.NewLayoutHandlers(deps)
	eh := handlers.NewEditorHandlers(deps)

	r.Group(func(r chi.Router) {
		r.Use(mw.FirebaseAuth)
		r.Mount("/widget-types", ch.CatalogRoutes())
		r.Mount("/editor/sessions", eh.EditorRoutes())
		r.Mount("/", lh.LayoutRoutes())
	})
	return r
}
