package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/layout-backend/internal/errs"
	"github.com/GregMSThompson/layout-backend/internal/models"
	"github.com/GregMSThompson/layout-backend/pkg/logger"
)

// layoutDoc is the part of a profile, guild or dashboard document the layout
// store reads. Other fields on those documents are left alone.
type layoutDoc struct {
	Layout    *models.Layout `firestore:"layout"`
	AdminIDs  []string       `firestore:"adminIds"`
	UpdatedAt time.Time      `firestore:"updatedAt"`
}

type layoutStore struct {
	client *firestore.Client
}

func NewLayoutStore(client *firestore.Client) *layoutStore {
	return &layoutStore{client: client}
}

func (s *layoutStore) doc(ref models.OwnerRef) (*firestore.DocumentRef, error) {
	var coll string
	switch ref.Kind {
	case models.KindProfile:
		coll = "profiles"
	case models.KindGuild:
		coll = "guilds"
	case models.KindDashboard:
		coll = "dashboards"
	default:
		return nil, errs.NewValidationError(fmt.Sprintf("unknown layout kind %q", ref.Kind))
	}
	if ref.ID == "" {
		return nil, errs.NewValidationError("layout id is required")
	}
	return s.client.Collection(coll).Doc(ref.ID), nil
}

// Load returns the stored widget set of a record. Profiles and dashboards are
// keyed by their owner's uid and load as empty before their first save; a
// guild must exist.
func (s *layoutStore) Load(ctx context.Context, ref models.OwnerRef) (*models.LayoutRecord, error) {
	dr, err := s.doc(ref)
	if err != nil {
		return nil, err
	}

	rec := &models.LayoutRecord{Ref: ref, Layout: models.Layout{Widgets: []models.Widget{}}}
	if ref.Kind != models.KindGuild {
		rec.OwnerIDs = []string{ref.ID}
	}

	snap, err := dr.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			if ref.Kind == models.KindGuild {
				return nil, errs.NewNotFoundError("guild not found")
			}
			return rec, nil
		}
		return nil, errs.NewDatabaseError("read", "failed to get layout", err)
	}

	var d layoutDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse layout data", err)
	}
	if ref.Kind == models.KindGuild {
		rec.OwnerIDs = d.AdminIDs
	}
	rec.UpdatedAt = d.UpdatedAt
	if d.Layout != nil {
		rec.Stored = true
		rec.Layout.Widgets = normalize(d.Layout.Widgets)
	}
	logger.FromContext(ctx).Debug("layout loaded", "ref", ref.String(), "widgets", len(rec.Layout.Widgets))
	return rec, nil
}

// SaveWidgets replaces the stored widget set wholesale. Only layout.widgets and
// updatedAt are written; the rest of the document is merged untouched.
func (s *layoutStore) SaveWidgets(ctx context.Context, ref models.OwnerRef, widgets []models.Widget) error {
	dr, err := s.doc(ref)
	if err != nil {
		return err
	}
	if widgets == nil {
		widgets = []models.Widget{}
	}
	data := map[string]any{
		"layout":    map[string]any{"widgets": widgets},
		"updatedAt": firestore.ServerTimestamp,
	}
	if _, err := dr.Set(ctx, data, firestore.MergeAll); err != nil {
		return errs.NewDatabaseError("update", "failed to save layout", err)
	}
	return nil
}

// normalize maps stored visibility strings onto the two known values; the
// Firestore decoder does not go through Visibility.UnmarshalText.
func normalize(ws []models.Widget) []models.Widget {
	out := make([]models.Widget, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Normalized())
	}
	return out
}
