package models

import (
	"time"

	"github.com/google/uuid"
)

// LeaderboardEntry aggregates one case-insensitive artist name across public lineups.
type LeaderboardEntry struct {
	ArtistName       string  `json:"artist_name"`
	ArtistImage      *string `json:"artist_image"`
	LineupCount      int64   `json:"lineup_count"`
	HeadlinerCount   int64   `json:"headliner_count"`
	CoheadlinerCount int64   `json:"coheadliner_count"`
	AvgPosition      float64 `json:"avg_position"`
}

// ArtistStats is the per-slot breakdown for one artist.
type ArtistStats struct {
	ArtistName        string  `json:"artist_name"`
	ArtistImage       *string `json:"artist_image"`
	LineupCount       int64   `json:"lineup_count"`
	HeadlinerCount    int64   `json:"headliner_count"`
	CoheadlinerCount  int64   `json:"coheadliner_count"`
	SpecialGuestCount int64   `json:"special_guest_count"`
	OpenerCount       int64   `json:"opener_count"`
	LocalOpenerCount  int64   `json:"local_opener_count"`
	AvgPosition       float64 `json:"avg_position"`
}

// ArtistLineup is a public lineup seen from one of its artists.
type ArtistLineup struct {
	ID              uuid.UUID      `json:"id"`
	Title           string         `json:"title"`
	Description     *string        `json:"description"`
	CreatedAt       time.Time      `json:"created_at"`
	SlotPosition    int            `json:"slot_position"`
	SlotLabel       string         `json:"slot_label" gorm:"-"`
	ArtistNote      *string        `json:"artist_note"`
	CreatorUsername string         `json:"creator_username"`
	AllArtists      []LineupArtist `json:"all_artists" gorm:"-"`
}

// Pairing counts how often another artist shares a public lineup with the subject.
type Pairing struct {
	ArtistName string `json:"artist_name"`
	PairCount  int64  `json:"pair_count"`
}

// ArtistDetail is the full artist page payload.
type ArtistDetail struct {
	Stats    ArtistStats    `json:"stats"`
	Lineups  []ArtistLineup `json:"lineups"`
	Pairings []Pairing      `json:"pairings"`
}

// ArtistMatch is a local artist-name search hit.
type ArtistMatch struct {
	ArtistName  string  `json:"artist_name"`
	ArtistImage *string `json:"artist_image"`
	LineupCount int64   `json:"lineup_count"`
}

// SiteTotals are the global counters shown on the home page.
type SiteTotals struct {
	TotalUsers    int64 `json:"total_users"`
	TotalLineups  int64 `json:"total_lineups"`
	UniqueArtists int64 `json:"unique_artists"`
}
