package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/layout-backend/internal/response"
	"github.com/GregMSThompson/layout-backend/internal/widgets"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Catalog         *widgets.Catalog
	LayoutSvc       LayoutService
	EditorSvc       EditorService
}
