package repository

import (
	"context"
	"strings"

	"github.com/Baaaki/backyard-marquee/internal/models"
	"gorm.io/gorm"
)

// Every statistics query only looks at public lineups and groups artists by LOWER(artist_name).
const (
	artistLineupsLimit = 20
	pairingsLimit      = 10
)

const publicArtistsFrom = `
FROM lineup_artists la
JOIN lineups l ON la.lineup_id = l.id
WHERE l.is_public = ?`

const leaderboardQuery = `
SELECT MIN(la.artist_name) AS artist_name,
       MAX(la.artist_image) AS artist_image,
       COUNT(*) AS lineup_count,
       COUNT(CASE WHEN la.slot_position = 0 THEN 1 END) AS headliner_count,
       COUNT(CASE WHEN la.slot_position = 1 THEN 1 END) AS coheadliner_count,
       ROUND(AVG(la.slot_position), 2) AS avg_position` + publicArtistsFrom + `
GROUP BY LOWER(la.artist_name)
ORDER BY lineup_count DESC, headliner_count DESC, LOWER(la.artist_name) ASC
LIMIT ? OFFSET ?`

const distinctArtistsQuery = `
SELECT COUNT(DISTINCT LOWER(la.artist_name))` + publicArtistsFrom

const artistStatsQuery = `
SELECT MIN(la.artist_name) AS artist_name,
       MAX(la.artist_image) AS artist_image,
       COUNT(*) AS lineup_count,
       COUNT(CASE WHEN la.slot_position = 0 THEN 1 END) AS headliner_count,
       COUNT(CASE WHEN la.slot_position = 1 THEN 1 END) AS coheadliner_count,
       COUNT(CASE WHEN la.slot_position = 2 THEN 1 END) AS special_guest_count,
       COUNT(CASE WHEN la.slot_position = 3 THEN 1 END) AS opener_count,
       COUNT(CASE WHEN la.slot_position = 4 THEN 1 END) AS local_opener_count,
       ROUND(AVG(la.slot_position), 2) AS avg_position` + publicArtistsFrom + `
  AND LOWER(la.artist_name) = LOWER(?)
GROUP BY LOWER(la.artist_name)`

const artistLineupsQuery = `
SELECT l.id, l.title, l.description, l.created_at,
       la.slot_position, la.note AS artist_note,
       u.username AS creator_username
FROM lineup_artists la
JOIN lineups l ON la.lineup_id = l.id
JOIN users u ON l.user_id = u.id
WHERE l.is_public = ?
  AND LOWER(la.artist_name) = LOWER(?)
ORDER BY l.created_at DESC
LIMIT ?`

const pairingsQuery = `
SELECT MIN(other.artist_name) AS artist_name,
       COUNT(*) AS pair_count
FROM lineup_artists la
JOIN lineups l ON la.lineup_id = l.id
JOIN lineup_artists other ON other.lineup_id = la.lineup_id
WHERE l.is_public = ?
  AND LOWER(la.artist_name) = LOWER(?)
  AND LOWER(other.artist_name) <> LOWER(?)
GROUP BY LOWER(other.artist_name)
ORDER BY pair_count DESC, LOWER(other.artist_name) ASC
LIMIT ?`

const searchArtistsQuery = `
SELECT MIN(la.artist_name) AS artist_name,
       MAX(la.artist_image) AS artist_image,
       COUNT(*) AS lineup_count` + publicArtistsFrom + `
  AND LOWER(la.artist_name) LIKE ? ESCAPE '\'
GROUP BY LOWER(la.artist_name)
ORDER BY lineup_count DESC, LOWER(la.artist_name) ASC
LIMIT ?`

const siteTotalsQuery = `
SELECT (SELECT COUNT(*) FROM users) AS total_users,
       (SELECT COUNT(*) FROM lineups WHERE is_public = ?) AS total_lineups,
       (SELECT COUNT(DISTINCT LOWER(la.artist_name))` + publicArtistsFrom + `) AS unique_artists`

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetLeaderboard ranks artists by how many public lineups include them.
func (r *StatsRepository) GetLeaderboard(ctx context.Context, limit, offset int) ([]models.LeaderboardEntry, error) {
	entries := []models.LeaderboardEntry{}
	err := r.db.WithContext(ctx).Raw(leaderboardQuery, true, limit, offset).Scan(&entries).Error
	return entries, err
}

func (r *StatsRepository) CountDistinctArtists(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Raw(distinctArtistsQuery, true).Scan(&total).Error
	return total, err
}

// GetArtistStats returns (nil, nil) when the artist is in no public lineup.
func (r *StatsRepository) GetArtistStats(ctx context.Context, name string) (*models.ArtistStats, error) {
	var rows []models.ArtistStats
	if err := r.db.WithContext(ctx).Raw(artistStatsQuery, true, name).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// GetArtistLineups lists the newest public lineups featuring the artist.
// AllArtists is left for the caller to fill.
func (r *StatsRepository) GetArtistLineups(ctx context.Context, name string) ([]models.ArtistLineup, error) {
	lineups := []models.ArtistLineup{}
	err := r.db.WithContext(ctx).Raw(artistLineupsQuery, true, name, artistLineupsLimit).Scan(&lineups).Error
	return lineups, err
}

// GetPairings counts co-billed artists, excluding the artist itself.
func (r *StatsRepository) GetPairings(ctx context.Context, name string) ([]models.Pairing, error) {
	pairings := []models.Pairing{}
	err := r.db.WithContext(ctx).Raw(pairingsQuery, true, name, name, pairingsLimit).Scan(&pairings).Error
	return pairings, err
}

// SearchArtists matches a case-insensitive substring of the artist name.
func (r *StatsRepository) SearchArtists(ctx context.Context, q string, limit int) ([]models.ArtistMatch, error) {
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	matches := []models.ArtistMatch{}
	err := r.db.WithContext(ctx).Raw(searchArtistsQuery, true, pattern, limit).Scan(&matches).Error
	return matches, err
}

func (r *StatsRepository) GetSiteTotals(ctx context.Context) (*models.SiteTotals, error) {
	var totals models.SiteTotals
	if err := r.db.WithContext(ctx).Raw(siteTotalsQuery, true, true).Scan(&totals).Error; err != nil {
		return nil, err
	}
	return &totals, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
