package content

import (
	"context"
	"testing"

	"github.com/rushteam/tunekit/cache"
	"github.com/rushteam/tunekit/core"
	"github.com/rushteam/tunekit/store"
)

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

func track(id string, artists []string, popularity float64) core.TrackRecord {
	return core.TrackRecord{
		ID:            id,
		Name:          id,
		Artists:       artists,
		Popularity:    popularity,
		AudioFeatures: map[string]float64{"energy": 0.5},
	}
}

func TestEngine_Recommend_NoPreference(t *testing.T) {
	e, _ := newTestEngine(t)

	got := e.Recommend(context.Background(), "nobody", 10)
	if got == nil {
		t.Fatal("Recommend() = nil, want empty non-nil slice")
	}
	if len(got) != 0 {
		t.Errorf("Recommend() = %v, want empty", got)
	}
}

func TestEngine_Recommend_TieBreakOrder(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	s.SetPreference(core.UserPreference{
		UserID:     "alice",
		TopArtists: []string{"Radiohead"},
		Genres:     []string{"rock"},
		Features:   map[string]float64{"energy": 0.5},
	})
	s.AddTrack(track("miss", []string{"Someone"}, 100))
	s.AddTrack(track("hit-genre-obscure", []string{"Rock Star"}, 10))
	s.AddTrack(track("hit-genre-popular", []string{"Rock Star"}, 80))
	s.AddTrack(track("hit-artist", []string{"Radiohead"}, 20))
	s.AddTrack(track("hit-both", []string{"Radiohead", "Rock Band"}, 5))

	got := e.Recommend(ctx, "alice", 10)

	// artist hit dominates, then genre hit, then weighted score (popularity here)
	want := []string{"hit-both", "hit-artist", "hit-genre-popular", "hit-genre-obscure", "miss"}
	if len(got) != len(want) {
		t.Fatalf("Recommend() returned %d tracks, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].ID != w {
			t.Errorf("Recommend()[%d] = %s, want %s", i, got[i].ID, w)
		}
	}
}

func TestEngine_Recommend_ExcludesInteracted(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	s.SetPreference(core.UserPreference{
		UserID:     "alice",
		TopArtists: []string{"Radiohead"},
	})
	s.AddTrack(track("heard", []string{"Radiohead"}, 50))
	s.AddTrack(track("new", []string{"Radiohead"}, 50))
	s.AddInteraction(core.Interaction{UserID: "alice", TrackID: "heard", Type: core.InteractionPlay})

	got := e.Recommend(ctx, "alice", 10)
	if len(got) != 1 || got[0].ID != "new" {
		t.Errorf("Recommend() = %v, want only [new]", trackIDs(got))
	}

	// skip also counts as contact
	s.AddInteraction(core.Interaction{UserID: "bob", TrackID: "new", Type: core.InteractionSkip})
	s.SetPreference(core.UserPreference{UserID: "bob", TopArtists: []string{"Radiohead"}})
	if got := e.Recommend(ctx, "bob", 10); len(got) != 1 || got[0].ID != "heard" {
		t.Errorf("Recommend(bob) = %v, want only [heard]", trackIDs(got))
	}
}

func TestEngine_Recommend_LimitAndCaching(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	s.SetPreference(core.UserPreference{UserID: "alice", TopArtists: []string{"Radiohead"}})
	s.AddTrack(track("t1", []string{"Radiohead"}, 90))
	s.AddTrack(track("t2", []string{"Radiohead"}, 50))
	s.AddTrack(track("t3", []string{"Someone"}, 50))

	got := e.Recommend(ctx, "alice", 2)
	if len(got) != 2 || got[0].ID != "t1" || got[1].ID != "t2" {
		t.Fatalf("Recommend(limit=2) = %v, want [t1 t2]", trackIDs(got))
	}

	// the corpus is cached: a track added afterwards is not visible yet
	s.AddTrack(track("t4", []string{"Radiohead"}, 99))
	if got := e.Recommend(ctx, "alice", 10); len(got) != 3 {
		t.Errorf("Recommend() after corpus change = %v, want cached 3 tracks", trackIDs(got))
	}
}

func TestEngine_Recommend_TracksWithoutFeaturesExcluded(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	s.SetPreference(core.UserPreference{UserID: "alice", TopArtists: []string{"Radiohead"}})
	s.AddTrack(track("with", []string{"Radiohead"}, 50))
	s.AddTrack(core.TrackRecord{ID: "without", Artists: []string{"Radiohead"}, Popularity: 90})

	got := e.Recommend(ctx, "alice", 10)
	if len(got) != 1 || got[0].ID != "with" {
		t.Errorf("Recommend() = %v, want only [with]", trackIDs(got))
	}
}

func trackIDs(tracks []core.TrackRecord) []string {
	out := make([]string, 0, len(tracks))
	for _, tr := range tracks {
		out = append(out, tr.ID)
	}
	return out
}
