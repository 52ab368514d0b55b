package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/GregMSThompson/layout-backend/internal/bootstrap"
	"github.com/GregMSThompson/layout-backend/internal/config"
	"github.com/GregMSThompson/layout-backend/internal/handlers"
	"github.com/GregMSThompson/layout-backend/internal/response"
	"github.com/GregMSThompson/layout-backend/internal/router"
	"github.com/GregMSThompson/layout-backend/internal/services"
	"github.com/GregMSThompson/layout-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg, err := config.New()
	exitOnError("config failed", err, slog.Default())
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	grid := cfg.Layout.Grid()

	// stores
	lstore := store.NewLayoutStore(bs.Firestore)
	fstore := store.NewFeedStore(bs.Firestore)

	// services
	lserv := services.NewLayoutService(lstore, fstore, bs.Catalog, grid, cfg.Layout)
	eserv := services.NewEditorService(lstore, fstore, bs.Catalog, grid, cfg.Layout, cfg.EditorSessionTTL)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Catalog = bs.Catalog
	deps.LayoutSvc = lserv
	deps.EditorSvc = eserv

	// router
	r := router.NewRouter(deps, bs.Firebase)
	bs.Log.Info("listening", "port", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
