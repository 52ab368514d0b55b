package helpers

import (
	"context"
	"log/slog"

	"github.com/GregMSThompson/layout-backend/pkg/logger"
)

// TestCtx returns a context carrying a logger that discards output. Debug is
// enabled so guarded debug paths still run under test.
func TestCtx() context.Context {
	log := slog.New(logger.NewTestHandler(slog.LevelDebug))
	return logger.ToContext(context.Background(), log)
}
