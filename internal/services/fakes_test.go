package services

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/GregMSThompson/layout-backend/internal/errs"
	"github.com/GregMSThompson/layout-backend/internal/models"
	"github.com/GregMSThompson/layout-backend/pkg/logger"
)

// logCtx returns a context whose logger writes text records to the buffer.
func logCtx() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger.ToContext(context.Background(), log), &buf
}

// --- Fakes ---

type fakeLayoutStore struct {
	mu      sync.Mutex
	records map[models.OwnerRef]*models.LayoutRecord
	loadErr error
	saveErr error
	saves   int
}

func newFakeLayoutStore() *fakeLayoutStore {
	return &fakeLayoutStore{records: make(map[models.OwnerRef]*models.LayoutRecord)}
}

func (f *fakeLayoutStore) put(ref models.OwnerRef, owners []string, ws []models.Widget) {
	f.records[ref] = &models.LayoutRecord{
		Ref:      ref,
		Layout:   models.Layout{Widgets: ws},
		OwnerIDs: owners,
		Stored:   ws != nil,
	}
}

func (f *fakeLayoutStore) Load(_ context.Context, ref models.OwnerRef) (*models.LayoutRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	rec, ok := f.records[ref]
	if !ok {
		if ref.Kind == models.KindGuild {
			return nil, errs.NewNotFoundError("guild not found")
		}
		return &models.LayoutRecord{Ref: ref, OwnerIDs: []string{ref.ID}, Layout: models.Layout{Widgets: []models.Widget{}}}, nil
	}
	out := *rec
	out.Layout.Widgets = models.CloneWidgets(rec.Layout.Widgets)
	return &out, nil
}

func (f *fakeLayoutStore) SaveWidgets(_ context.Context, ref models.OwnerRef, ws []models.Widget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	rec, ok := f.records[ref]
	if !ok {
		rec = &models.LayoutRecord{Ref: ref, OwnerIDs: []string{ref.ID}}
		f.records[ref] = rec
	}
	rec.Layout.Widgets = models.CloneWidgets(ws)
	rec.Stored = true
	return nil
}

func (f *fakeLayoutStore) widgets(ref models.OwnerRef) []models.Widget {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.records[ref]; ok {
		return models.CloneWidgets(rec.Layout.Widgets)
	}
	return nil
}

type fakeFeedStore struct {
	user     models.Feeds
	guild    models.Feeds
	guildErr error
	userUIDs []string
}

func (f *fakeFeedStore) UserFeeds(_ context.Context, uid string) models.Feeds {
	f.userUIDs = append(f.userUIDs, uid)
	return f.user
}

func (f *fakeFeedStore) GuildFeeds(_ context.Context, _ string) (models.Feeds, error) {
	if f.guildErr != nil {
		return models.Feeds{}, f.guildErr
	}
	return f.guild, nil
}
