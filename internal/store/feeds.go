package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/layout-backend/internal/errs"
	"github.com/GregMSThompson/layout-backend/internal/models"
	"github.com/GregMSThompson/layout-backend/pkg/logger"
)

const (
	taskFeedLimit     = 20
	guildMemberLimit  = 50
	guildActivityFeed = 10
)

type feedStore struct {
	client *firestore.Client
}

func NewFeedStore(client *firestore.Client) *feedStore {
	return &feedStore{client: client}
}

func (s *feedStore) user(uid string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(uid)
}

// UserFeeds loads the page data shown by profile and dashboard widgets. A feed
// that fails to load is logged and left empty.
func (s *feedStore) UserFeeds(ctx context.Context, uid string) models.Feeds {
	log := logger.FromContext(ctx)
	var f models.Feeds
	u := s.user(uid)

	var g errgroup.Group
	g.Go(func() error {
		q := u.Collection("tasks").OrderBy("createdAt", firestore.Desc).Limit(taskFeedLimit)
		f.Tasks = loadAll[models.Task](ctx, q, "tasks")
		return nil
	})
	g.Go(func() error {
		f.Habits = loadAll[models.Habit](ctx, u.Collection("habits").Query, "habits")
		return nil
	})
	g.Go(func() error {
		f.Interests = loadAll[models.Interest](ctx, u.Collection("interests").Query, "interests")
		return nil
	})
	g.Go(func() error {
		f.Goals = loadAll[models.Goal](ctx, u.Collection("goals").Query, "goals")
		return nil
	})
	_ = g.Wait()

	log.Debug("feeds loaded",
		"tasks", len(f.Tasks),
		"habits", len(f.Habits),
		"interests", len(f.Interests),
		"goals", len(f.Goals))
	return f
}

// GuildFeeds loads the guild summary rendered by the guild widgets.
func (s *feedStore) GuildFeeds(ctx context.Context, guildID string) (models.Feeds, error) {
	gr := s.client.Collection("guilds").Doc(guildID)
	snap, err := gr.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.Feeds{}, errs.NewNotFoundError("guild not found")
		}
		return models.Feeds{}, errs.NewDatabaseError("read", "failed to get guild", err)
	}
	var summary models.GuildSummary
	if err := snap.DataTo(&summary); err != nil {
		return models.Feeds{}, errs.NewDatabaseError("read", "failed to parse guild data", err)
	}
	summary.ID = guildID

	var g errgroup.Group
	g.Go(func() error {
		summary.Members = loadAll[models.GuildMember](ctx, gr.Collection("members").Limit(guildMemberLimit), "guild_members")
		return nil
	})
	g.Go(func() error {
		q := gr.Collection("activity").OrderBy("at", firestore.Desc).Limit(guildActivityFeed)
		summary.Activity = loadAll[models.GuildActivity](ctx, q, "guild_activity")
		return nil
	})
	_ = g.Wait()

	return models.Feeds{Guild: &summary}, nil
}

func loadAll[T any](ctx context.Context, q firestore.Query, feed string) []T {
	log := logger.FromContext(ctx)
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		log.Warn("feed unavailable", "feed", feed, "error", err)
		return []T{}
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := d.DataTo(&v); err != nil {
			log.Warn("skipping malformed feed entry", "feed", feed, "doc", d.Ref.ID, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out
}
