package content

import (
	"math"
	"testing"

	"github.com/rushteam/tunekit/core"
)

func TestArtistSimilarity(t *testing.T) {
	pref := &core.UserPreference{TopArtists: []string{"Radiohead", "Portishead"}}

	tests := []struct {
		name    string
		artists []string
		want    float64
	}{
		{"exact match", []string{"Radiohead"}, 1},
		{"case insensitive", []string{"RADIOHEAD"}, 1},
		{"any of several artists", []string{"Nobody", "portishead"}, 1},
		{"no match", []string{"Nobody"}, 0},
		{"no artists on track", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := core.TrackRecord{Artists: tt.artists}
			if got := ArtistSimilarity(track, pref); got != tt.want {
				t.Errorf("ArtistSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := ArtistSimilarity(core.TrackRecord{Artists: []string{"Radiohead"}}, &core.UserPreference{}); got != 0 {
		t.Errorf("ArtistSimilarity() with empty preference = %v, want 0", got)
	}
}

func TestGenreSimilarity(t *testing.T) {
	pref := &core.UserPreference{Genres: []string{"rock", "jazz"}}

	tests := []struct {
		name    string
		artists []string
		want    float64
	}{
		{"word split on space", []string{"Rock Band"}, 1},
		{"word split on hyphen", []string{"Post-Rock Collective"}, 1},
		{"substring is not a word hit", []string{"Rockwell"}, 0},
		{"no hit", []string{"Someone Else"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := core.TrackRecord{Artists: tt.artists}
			if got := GenreSimilarity(track, pref); got != tt.want {
				t.Errorf("GenreSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFeatureSimilarity(t *testing.T) {
	pref := &core.UserPreference{Features: map[string]float64{
		"energy":       0.8,
		"danceability": 0.4,
	}}

	tests := []struct {
		name     string
		features map[string]float64
		want     float64
	}{
		{
			name:     "mean of 1 - |delta| over shared dimensions",
			features: map[string]float64{"energy": 0.6, "danceability": 0.4},
			want:     0.9, // (0.8 + 1.0) / 2
		},
		{
			name:     "non-shared dimensions ignored",
			features: map[string]float64{"energy": 0.8, "tempo": 120},
			want:     1.0,
		},
		{
			name:     "no shared dimensions",
			features: map[string]float64{"tempo": 120},
			want:     0,
		},
		{
			name:     "no features on track",
			features: nil,
			want:     0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := core.TrackRecord{AudioFeatures: tt.features}
			got := FeatureSimilarity(track, pref)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("FeatureSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore_Weights(t *testing.T) {
	pref := &core.UserPreference{
		TopArtists: []string{"Radiohead"},
		Genres:     []string{"rock"},
		Features:   map[string]float64{"energy": 0.8},
	}
	track := core.TrackRecord{
		Artists:       []string{"Radiohead"},
		Popularity:    60,
		AudioFeatures: map[string]float64{"energy": 0.8},
	}

	score, artistSim, genreSim := Score(track, pref)
	if artistSim != 1 || genreSim != 0 {
		t.Fatalf("Score() sims = (%v, %v), want (1, 0)", artistSim, genreSim)
	}
	// 0.7*1 + 0.2*0 + 0.05*1 + 0.05*0.6
	want := 0.7 + 0.05 + 0.03
	if math.Abs(score-want) > 1e-9 {
		t.Errorf("Score() = %v, want %v", score, want)
	}
}
