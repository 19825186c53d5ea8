package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/Baaaki/backyard-marquee/internal/models"
	"github.com/Baaaki/backyard-marquee/internal/repository"
	"github.com/Baaaki/backyard-marquee/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MaxPageLimit           = 100
	DefaultLeaderboardSize = 50
	DefaultBrowseSize      = 20
	DefaultSearchSize      = 20

	SortRecent = "recent"

	msgArtistNotFound = "Artist not found in any lineups"
)

// Page is a validated limit/offset pair.
type Page struct {
	Limit  int
	Offset int
}

// ParsePage reads optional query values. Blank values take the defaults,
// anything non-numeric or negative is rejected and limit is capped at MaxPageLimit.
func ParsePage(limitStr, offsetStr string, defaultLimit int) (Page, error) {
	page := Page{Limit: defaultLimit}

	if limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			return Page{}, validationError("limit must be a non-negative integer")
		}
		page.Limit = limit
	}
	if offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return Page{}, validationError("offset must be a non-negative integer")
		}
		page.Offset = offset
	}

	if page.Limit > MaxPageLimit {
		page.Limit = MaxPageLimit
	}
	return page, nil
}

type LeaderboardResult struct {
	Artists []models.LeaderboardEntry `json:"artists"`
	Total   int64                     `json:"total"`
}

type BrowseResult struct {
	Lineups []models.Lineup `json:"lineups"`
	Total   int64           `json:"total"`
}

// StatsService answers the read-only aggregate queries over public lineups.
type StatsService struct {
	statsRepo  *repository.StatsRepository
	lineupRepo *repository.LineupRepository
}

func NewStatsService(statsRepo *repository.StatsRepository, lineupRepo *repository.LineupRepository) *StatsService {
	return &StatsService{
		statsRepo:  statsRepo,
		lineupRepo: lineupRepo,
	}
}

func (s *StatsService) Leaderboard(ctx context.Context, page Page) (*LeaderboardResult, error) {
	entries, err := s.statsRepo.GetLeaderboard(ctx, page.Limit, page.Offset)
	if err != nil {
		logger.Log.Error("Failed to load leaderboard", zap.Error(err))
		return nil, err
	}

	total, err := s.statsRepo.CountDistinctArtists(ctx)
	if err != nil {
		logger.Log.Error("Failed to count artists", zap.Error(err))
		return nil, err
	}

	return &LeaderboardResult{Artists: entries, Total: total}, nil
}

// ArtistDetail collects stats, recent lineups and frequent co-billings for one artist.
func (s *StatsService) ArtistDetail(ctx context.Context, name string) (*models.ArtistDetail, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, notFoundError(msgArtistNotFound)
	}

	stats, err := s.statsRepo.GetArtistStats(ctx, name)
	if err != nil {
		logger.Log.Error("Failed to load artist stats",
			zap.String("artist", name),
			zap.Error(err),
		)
		return nil, err
	}
	if stats == nil {
		return nil, notFoundError(msgArtistNotFound)
	}

	lineups, err := s.statsRepo.GetArtistLineups(ctx, name)
	if err != nil {
		logger.Log.Error("Failed to load artist lineups",
			zap.String("artist", name),
			zap.Error(err),
		)
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(lineups))
	for _, l := range lineups {
		ids = append(ids, l.ID)
	}
	artists, err := s.lineupRepo.GetArtistsByLineupIDs(ctx, ids)
	if err != nil {
		logger.Log.Error("Failed to load lineup artists", zap.Error(err))
		return nil, err
	}
	for i := range lineups {
		lineups[i].SlotLabel = models.SlotLabelFor(lineups[i].SlotPosition)
		lineups[i].AllArtists = artists[lineups[i].ID]
		if lineups[i].AllArtists == nil {
			lineups[i].AllArtists = []models.LineupArtist{}
		}
	}

	pairings, err := s.statsRepo.GetPairings(ctx, name)
	if err != nil {
		logger.Log.Error("Failed to load artist pairings",
			zap.String("artist", name),
			zap.Error(err),
		)
		return nil, err
	}

	return &models.ArtistDetail{
		Stats:    *stats,
		Lineups:  lineups,
		Pairings: pairings,
	}, nil
}

// Browse pages through public lineups; sort "recent" (or empty) is newest first, anything else oldest first.
func (s *StatsService) Browse(ctx context.Context, page Page, sort string) (*BrowseResult, error) {
	newestFirst := sort == "" || sort == SortRecent

	lineups, total, err := s.lineupRepo.GetPublicLineups(ctx, page.Limit, page.Offset, newestFirst)
	if err != nil {
		logger.Log.Error("Failed to browse lineups", zap.Error(err))
		return nil, err
	}
	return &BrowseResult{Lineups: lineups, Total: total}, nil
}

// SearchArtists finds artists already used in public lineups.
func (s *StatsService) SearchArtists(ctx context.Context, q string, limit int) ([]models.ArtistMatch, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.ArtistMatch{}, nil
	}

	matches, err := s.statsRepo.SearchArtists(ctx, q, limit)
	if err != nil {
		logger.Log.Error("Failed to search artists",
			zap.String("query", q),
			zap.Error(err),
		)
		return nil, err
	}
	return matches, nil
}

func (s *StatsService) SiteTotals(ctx context.Context) (*models.SiteTotals, error) {
	totals, err := s.statsRepo.GetSiteTotals(ctx)
	if err != nil {
		logger.Log.Error("Failed to load site totals", zap.Error(err))
		return nil, err
	}
	return totals, nil
}
