package collab

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/tunekit/cache"
	"github.com/rushteam/tunekit/core"
	"github.com/rushteam/tunekit/store"
)

func TestWeight(t *testing.T) {
	tests := []struct {
		in     core.InteractionType
		want   float64
		wantOK bool
	}{
		{core.InteractionLike, 2.0, true},
		{core.InteractionPlay, 1.0, true},
		{core.InteractionListen, 1.0, true},
		{core.InteractionAddToPlaylist, 1.5, true},
		{core.InteractionSkip, -0.5, true},
		{core.InteractionDislike, -1.0, true},
		{core.InteractionType("mystery"), 0, false},
	}
	for _, tt := range tests {
		got, ok := Weight(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Weight(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMatrix_Add(t *testing.T) {
	m := make(Matrix)
	m.Add(core.Interaction{UserID: "u1", TrackID: "t1", Type: core.InteractionLike})
	m.Add(core.Interaction{UserID: "u1", TrackID: "t1", Type: core.InteractionPlay})
	m.Add(core.Interaction{UserID: "u1", TrackID: "t2", Type: core.InteractionSkip})
	m.Add(core.Interaction{UserID: "u1", TrackID: "t3", Type: core.InteractionType("mystery")})
	m.Add(core.Interaction{UserID: "u2", TrackID: "t1", Type: core.InteractionDislike})

	// repeat interactions accumulate
	if got := m["u1"]["t1"]; got != 3.0 {
		t.Errorf("u1/t1 weight = %v, want 3.0 (like + play)", got)
	}
	if got := m["u1"]["t2"]; got != -0.5 {
		t.Errorf("u1/t2 weight = %v, want -0.5", got)
	}
	// unknown types leave no trace
	if _, ok := m["u1"]["t3"]; ok {
		t.Error("unknown interaction type was added to the matrix")
	}
	if got := m["u2"]["t1"]; got != -1.0 {
		t.Errorf("u2/t1 weight = %v, want -1.0", got)
	}
}

func newTestEngine(t *testing.T) (*Engine, *store.MemoryMusicStore) {
	t.Helper()
	c, err := cache.New(cache.MemoryAddr)
	if err != nil {
		t.Fatalf("cache.New() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	s := store.NewMemoryMusicStore()
	return NewEngine(s, c), s
}

func like(user, track string) core.Interaction {
	return core.Interaction{UserID: user, TrackID: track, Type: core.InteractionLike, Timestamp: time.Now()}
}

func TestEngine_Recommend_UnknownUser(t *testing.T) {
	e, _ := newTestEngine(t)

	got := e.Recommend(context.Background(), "nobody", 10)
	if got == nil {
		t.Fatal("Recommend() = nil, want empty non-nil slice")
	}
	if len(got) != 0 {
		t.Errorf("Recommend() = %v, want empty", got)
	}
}

func TestEngine_Recommend_Neighbors(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	s.AddUser(core.User{ID: "alice"})
	// alice's taste
	s.AddInteraction(like("alice", "t1"))
	s.AddInteraction(like("alice", "t2"))
	// bob shares alice's taste and knows one more track
	s.AddInteraction(like("bob", "t1"))
	s.AddInteraction(like("bob", "t2"))
	s.AddInteraction(like("bob", "t3"))
	// carol overlaps on one track
	s.AddInteraction(like("carol", "t1"))
	s.AddInteraction(like("carol", "t4"))
	// dave only dislikes: never a neighbor
	s.AddInteraction(core.Interaction{UserID: "dave", TrackID: "t5", Type: core.InteractionDislike})
	// eve has no overlap: cold-start similarity 0.1 does not pass the threshold
	s.AddInteraction(like("eve", "t6"))

	got := e.Recommend(ctx, "alice", 10)
	if len(got) != 2 || got[0] != "t3" || got[1] != "t4" {
		t.Fatalf("Recommend() = %v, want [t3 t4]", got)
	}

	// already-interacted tracks never resurface
	for _, id := range got {
		if id == "t1" || id == "t2" {
			t.Errorf("Recommend() returned already-rated track %s", id)
		}
	}

	// limit truncates
	if got := e.Recommend(ctx, "alice", 1); len(got) != 1 || got[0] != "t3" {
		t.Errorf("Recommend(limit=1) = %v, want [t3]", got)
	}
}

func TestEngine_Recommend_SmallPopulationRelaxed(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	s.AddUser(core.User{ID: "alice"})
	s.AddInteraction(like("alice", "t1"))
	// bob has nothing positive and nothing in common with alice
	s.AddInteraction(core.Interaction{UserID: "bob", TrackID: "t2", Type: core.InteractionDislike})

	// two users total: the relaxed branch still surfaces bob's track
	got := e.Recommend(ctx, "alice", 10)
	if len(got) != 1 || got[0] != "t2" {
		t.Errorf("Recommend() = %v, want [t2] via small-population fallback", got)
	}
}

func TestEngine_Recommend_CachedPerUser(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	s.AddUser(core.User{ID: "alice"})
	s.AddInteraction(like("alice", "t1"))
	s.AddInteraction(like("bob", "t1"))
	s.AddInteraction(like("bob", "t2"))
	// filler users so the strict (large-population) branch applies
	s.AddInteraction(like("carol", "c1"))
	s.AddInteraction(like("dave", "d1"))

	first := e.Recommend(ctx, "alice", 10)
	if len(first) != 1 || first[0] != "t2" {
		t.Fatalf("Recommend() = %v, want [t2]", first)
	}

	// new interactions are invisible until TTL expiry or explicit invalidation
	s.AddInteraction(like("bob", "t3"))
	if again := e.Recommend(ctx, "alice", 10); len(again) != 1 {
		t.Errorf("Recommend() after new data = %v, want cached [t2]", again)
	}

	if err := e.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	fresh := e.Recommend(ctx, "alice", 10)
	if len(fresh) != 2 {
		t.Errorf("Recommend() after Invalidate = %v, want [t2 t3]", fresh)
	}
}

func TestEngine_BuildMatrix_RowBackfill(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	// matrix is built (and cached) before frank's first interaction lands
	s.AddUser(core.User{ID: "frank"})
	s.AddInteraction(like("bob", "t1"))
	s.AddInteraction(like("bob", "t2"))
	s.AddInteraction(like("carol", "c1"))
	s.AddInteraction(like("dave", "d1"))
	s.AddInteraction(like("eve", "e1"))
	e.BuildMatrix(ctx)

	s.AddInteraction(like("frank", "t1"))

	// frank's row is backfilled from his own interactions, so bob becomes
	// a neighbor and t2 is recommended
	got := e.Recommend(ctx, "frank", 10)
	if len(got) != 1 || got[0] != "t2" {
		t.Errorf("Recommend() = %v, want [t2]", got)
	}
}
