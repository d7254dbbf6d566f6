package channels

import (
	"context"
	"testing"
	"time"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

type fakeUserFinder struct {
	users map[string]models.User
}

func (f *fakeUserFinder) FindByUsername(_ context.Context, username string) (models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

type fakeSubscriptionReader struct {
	stats      map[string]models.ChannelStats
	edges      map[[2]string]bool
	statsCalls int
}

func (f *fakeSubscriptionReader) ChannelStats(_ context.Context, userID string) (models.ChannelStats, error) {
	f.statsCalls++
	return f.stats[userID], nil
}

func (f *fakeSubscriptionReader) IsSubscribed(_ context.Context, subscriberID, channelID string) (bool, error) {
	return f.edges[[2]string{subscriberID, channelID}], nil
}

func newFixture() (*fakeUserFinder, *fakeSubscriptionReader) {
	users := &fakeUserFinder{users: map[string]models.User{
		"alice": {
			ID:       "user-1",
			Username: "alice",
			Email:    "alice@example.com",
			Password: "bcrypt-digest",
			FullName: "Alice Example",
		},
		"lonely": {
			ID:       "user-2",
			Username: "lonely",
			Email:    "lonely@example.com",
		},
	}}

	subs := &fakeSubscriptionReader{
		stats: map[string]models.ChannelStats{
			"user-1": {TotalSubscribers: 3, TotalSubscribedTo: 1},
		},
		edges: map[[2]string]bool{
			{"viewer-1", "user-1"}: true,
		},
	}

	return users, subs
}

func TestProfileAggregation(t *testing.T) {
	users, subs := newFixture()
	agg := NewAggregator(users, subs, nil)

	profile, err := agg.Profile(context.Background(), "alice", "viewer-1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}

	if profile.Username != "alice" || profile.FullName != "Alice Example" {
		t.Fatalf("unexpected profile fields: %+v", profile.PublicProfile)
	}
	if profile.TotalSubscribers != 3 || profile.TotalSubscribedTo != 1 {
		t.Fatalf("unexpected stats: %+v", profile.ChannelStats)
	}
	if !profile.IsSubscribed {
		t.Fatal("expected viewer-1 to be a subscriber")
	}
}

func TestProfileViewerNotSubscribed(t *testing.T) {
	users, subs := newFixture()
	agg := NewAggregator(users, subs, nil)

	profile, err := agg.Profile(context.Background(), "alice", "viewer-2")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.IsSubscribed {
		t.Fatal("expected viewer-2 not to be a subscriber")
	}
}

func TestProfileZeroSubscribers(t *testing.T) {
	users, subs := newFixture()
	agg := NewAggregator(users, subs, nil)

	profile, err := agg.Profile(context.Background(), "lonely", "viewer-1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.TotalSubscribers != 0 || profile.IsSubscribed {
		t.Fatalf("expected zero subscribers and no subscription, got %+v", profile)
	}
}

func TestProfileUnknownChannel(t *testing.T) {
	users, subs := newFixture()
	agg := NewAggregator(users, subs, nil)

	if _, err := agg.Profile(context.Background(), "ghost", "viewer-1"); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if _, err := agg.Profile(context.Background(), "", "viewer-1"); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error for empty username, got %v", err)
	}
}

func TestProfileStatsServedFromCache(t *testing.T) {
	users, subs := newFixture()
	agg := NewAggregator(users, subs, NewMemoryStatsCache(time.Minute))
	ctx := context.Background()

	if _, err := agg.Profile(ctx, "alice", "viewer-1"); err != nil {
		t.Fatalf("first profile: %v", err)
	}
	if _, err := agg.Profile(ctx, "alice", "viewer-2"); err != nil {
		t.Fatalf("second profile: %v", err)
	}

	if subs.statsCalls != 1 {
		t.Fatalf("expected stats computed once, got %d calls", subs.statsCalls)
	}
}

func TestMemoryStatsCacheExpiry(t *testing.T) {
	cache := NewMemoryStatsCache(time.Millisecond)
	ctx := context.Background()

	cache.Set(ctx, "user-1", models.ChannelStats{TotalSubscribers: 5})
	if _, ok := cache.Get(ctx, "user-1"); !ok {
		t.Fatal("expected fresh entry to hit")
	}

	time.Sleep(5 * time.Millisecond)

	if _, ok := cache.Get(ctx, "user-1"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestProfileNeverExposesCredentials(t *testing.T) {
	users, subs := newFixture()
	agg := NewAggregator(users, subs, nil)

	profile, err := agg.Profile(context.Background(), "alice", "")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}

	// PublicProfile has no hash or token fields; this guards the mapping
	// from ever widening to include them.
	if profile.Email != "alice@example.com" || profile.ID != "user-1" {
		t.Fatalf("unexpected sanitized view: %+v", profile.PublicProfile)
	}
}
