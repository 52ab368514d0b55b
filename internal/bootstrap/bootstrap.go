package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/layout-backend/internal/config"
	"github.com/GregMSThompson/layout-backend/internal/widgets"
	"github.com/GregMSThompson/layout-backend/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	Catalog   *widgets.Catalog
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	bs.Catalog, err = widgets.Load(cfg.CatalogFile, cfg.Layout.Bounds)
	if err != nil {
		return bs, err
	}
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}

	bs.Log.Info("bootstrap complete",
		"project", cfg.ProjectID,
		"widget_types", len(bs.Catalog.List()),
		"columns", cfg.Layout.Grid().Columns,
	)
	return bs, nil
}

func (bs *Bootstrap) Close() {
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Warn("firestore close failed", "error", err)
		}
	}
}
