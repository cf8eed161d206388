package store

import (
	"context"
	"testing"

	"github.com/rushteam/tunekit/core"
)

func TestMemoryMusicStore_FindInteractions(t *testing.T) {
	s := NewMemoryMusicStore()
	s.AddInteraction(core.Interaction{UserID: "u1", TrackID: "t1", Type: core.InteractionLike})
	s.AddInteraction(core.Interaction{UserID: "u2", TrackID: "t2", Type: core.InteractionPlay})
	s.AddInteraction(core.Interaction{UserID: "u1", TrackID: "t3", Type: core.InteractionSkip})

	ctx := context.Background()

	all, err := s.FindInteractions(ctx, core.InteractionFilter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("FindInteractions(all) = %d records, err %v; want 3, nil", len(all), err)
	}

	byUser, _ := s.FindInteractions(ctx, core.InteractionFilter{UserID: "u1"})
	if len(byUser) != 2 || byUser[0].TrackID != "t1" || byUser[1].TrackID != "t3" {
		t.Errorf("FindInteractions(u1) = %v, want [t1 t3] in insertion order", byUser)
	}

	byType, _ := s.FindInteractions(ctx, core.InteractionFilter{
		UserID: "u1",
		Types:  []core.InteractionType{core.InteractionLike},
	})
	if len(byType) != 1 || byType[0].TrackID != "t1" {
		t.Errorf("FindInteractions(u1, like) = %v, want [t1]", byType)
	}
}

func TestMemoryMusicStore_NotFound(t *testing.T) {
	s := NewMemoryMusicStore()
	ctx := context.Background()

	if _, err := s.FindUser(ctx, "nobody"); !core.IsStoreNotFound(err) {
		t.Errorf("FindUser(nobody) error = %v, want store not-found", err)
	}
	if _, err := s.FindUserPreference(ctx, "nobody"); !core.IsStoreNotFound(err) {
		t.Errorf("FindUserPreference(nobody) error = %v, want store not-found", err)
	}

	s.AddUser(core.User{ID: "u1", DisplayName: "User One"})
	u, err := s.FindUser(ctx, "u1")
	if err != nil || u.DisplayName != "User One" {
		t.Errorf("FindUser(u1) = (%v, %v), want user with display name", u, err)
	}
}

func TestMemoryMusicStore_FindTracksWithFeatures(t *testing.T) {
	s := NewMemoryMusicStore()
	s.AddTrack(core.TrackRecord{ID: "t1", AudioFeatures: map[string]float64{"energy": 0.5}})
	s.AddTrack(core.TrackRecord{ID: "t2"}) // no features: excluded
	s.AddTrack(core.TrackRecord{ID: "t3", AudioFeatures: map[string]float64{"energy": 0.9}})

	got, err := s.FindTracksWithFeatures(context.Background())
	if err != nil {
		t.Fatalf("FindTracksWithFeatures() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "t1" || got[1].ID != "t3" {
		t.Errorf("FindTracksWithFeatures() = %v, want [t1 t3]", got)
	}

	// overwrite keeps the original position
	s.AddTrack(core.TrackRecord{ID: "t1", Name: "renamed", AudioFeatures: map[string]float64{"energy": 0.7}})
	got, _ = s.FindTracksWithFeatures(context.Background())
	if got[0].ID != "t1" || got[0].Name != "renamed" {
		t.Errorf("FindTracksWithFeatures() after overwrite = %v, want renamed t1 first", got)
	}
}

func TestMemoryMusicStore_FindInteractedTrackIDs(t *testing.T) {
	s := NewMemoryMusicStore()
	s.AddInteraction(core.Interaction{UserID: "u1", TrackID: "t1", Type: core.InteractionPlay})
	s.AddInteraction(core.Interaction{UserID: "u1", TrackID: "t1", Type: core.InteractionLike})
	s.AddInteraction(core.Interaction{UserID: "u1", TrackID: "t2", Type: core.InteractionShare})
	s.AddInteraction(core.Interaction{UserID: "u2", TrackID: "t9", Type: core.InteractionPlay})

	got, err := s.FindInteractedTrackIDs(context.Background(), "u1", []core.InteractionType{
		core.InteractionPlay, core.InteractionLike,
	})
	if err != nil {
		t.Fatalf("FindInteractedTrackIDs() error = %v", err)
	}
	// t1 deduped, t2 filtered by type, t9 belongs to u2
	if len(got) != 1 || got[0] != "t1" {
		t.Errorf("FindInteractedTrackIDs() = %v, want [t1]", got)
	}
}
