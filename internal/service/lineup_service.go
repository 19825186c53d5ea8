package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Baaaki/backyard-marquee/internal/models"
	"github.com/Baaaki/backyard-marquee/internal/repository"
	"github.com/Baaaki/backyard-marquee/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgLineupRequired    = "Title and at least one artist required"
	msgTooManyArtists    = "Maximum 5 artists allowed"
	msgOneLineupPerUser  = "You can only create one lineup. Delete your existing lineup first."
	msgLineupNotFound    = "Lineup not found"
	msgLineupPrivate     = "This lineup is private"
	msgNotAllowedEdit    = "Not authorized to edit this lineup"
	msgNotAllowedDelete  = "Not authorized to delete this lineup"
	msgArtistNameMissing = "Every artist needs a name"
	msgArtistRepeated    = "Each artist can only appear once in a lineup"
)

// LineupArtistInput is one requested slot.
type LineupArtistInput struct {
	SlotPosition int     `json:"slot_position"`
	ArtistName   string  `json:"artist_name"`
	ArtistImage  *string `json:"artist_image"`
	ArtistMBID   *string `json:"artist_mbid"`
	Note         *string `json:"note"`
}

// LineupInput is the body of create and update requests.
type LineupInput struct {
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	IsPublic    bool                `json:"is_public"`
	Artists     []LineupArtistInput `json:"artists"`
}

type LineupService struct {
	lineupRepo *repository.LineupRepository
}

func NewLineupService(lineupRepo *repository.LineupRepository) *LineupService {
	return &LineupService{lineupRepo: lineupRepo}
}

// ListOwn returns the caller's lineups, newest first.
func (s *LineupService) ListOwn(ctx context.Context, userID uuid.UUID) ([]models.Lineup, error) {
	lineups, err := s.lineupRepo.GetLineupsByUser(ctx, userID)
	if err != nil {
		logger.Log.Error("Failed to list lineups",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return lineups, nil
}

// GetOne returns a lineup visible to the requester. requesterID is uuid.Nil for anonymous callers.
func (s *LineupService) GetOne(ctx context.Context, lineupID string, requesterID uuid.UUID) (*models.Lineup, error) {
	lineup, err := s.find(ctx, lineupID)
	if err != nil {
		return nil, err
	}
	if !lineup.IsPublic && lineup.UserID != requesterID {
		return nil, forbiddenError(msgLineupPrivate)
	}
	return lineup, nil
}

// Create stores the caller's only lineup.
func (s *LineupService) Create(ctx context.Context, userID uuid.UUID, input LineupInput) (*models.Lineup, error) {
	if err := validateLineupInput(input); err != nil {
		return nil, err
	}

	exists, err := s.lineupRepo.UserHasLineup(ctx, userID)
	if err != nil {
		logger.Log.Error("Failed to check existing lineup",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	if exists {
		return nil, conflictError(msgOneLineupPerUser)
	}

	lineup := buildLineup(input)
	lineup.UserID = userID

	if err := s.lineupRepo.CreateLineup(ctx, lineup); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, conflictError(msgOneLineupPerUser)
		}
		logger.Log.Error("Failed to create lineup",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Lineup created",
		zap.String("lineup_id", lineup.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("artists", len(lineup.Artists)),
		zap.Bool("public", lineup.IsPublic),
	)
	return s.reload(ctx, lineup.ID)
}

// Update replaces the lineup fields and all of its slots.
func (s *LineupService) Update(ctx context.Context, lineupID string, userID uuid.UUID, input LineupInput) (*models.Lineup, error) {
	if err := validateLineupInput(input); err != nil {
		return nil, err
	}

	existing, err := s.find(ctx, lineupID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		logger.Log.Warn("Lineup edit refused",
			zap.String("lineup_id", existing.ID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, forbiddenError(msgNotAllowedEdit)
	}

	lineup := buildLineup(input)
	lineup.ID = existing.ID
	lineup.UserID = existing.UserID

	if err := s.lineupRepo.ReplaceLineup(ctx, lineup); err != nil {
		logger.Log.Error("Failed to update lineup",
			zap.String("lineup_id", existing.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Lineup updated",
		zap.String("lineup_id", existing.ID.String()),
		zap.Int("artists", len(lineup.Artists)),
	)
	return s.reload(ctx, existing.ID)
}

func (s *LineupService) Delete(ctx context.Context, lineupID string, userID uuid.UUID) error {
	existing, err := s.find(ctx, lineupID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return forbiddenError(msgNotAllowedDelete)
	}

	if err := s.lineupRepo.DeleteLineup(ctx, existing.ID); err != nil {
		logger.Log.Error("Failed to delete lineup",
			zap.String("lineup_id", existing.ID.String()),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Lineup deleted",
		zap.String("lineup_id", existing.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

// find treats an unparseable id the same as a missing lineup.
func (s *LineupService) find(ctx context.Context, lineupID string) (*models.Lineup, error) {
	id, err := uuid.Parse(lineupID)
	if err != nil {
		return nil, notFoundError(msgLineupNotFound)
	}

	lineup, err := s.lineupRepo.GetLineupByID(ctx, id)
	if err != nil {
		logger.Log.Error("Failed to load lineup",
			zap.String("lineup_id", lineupID),
			zap.Error(err),
		)
		return nil, err
	}
	if lineup == nil {
		return nil, notFoundError(msgLineupNotFound)
	}
	return lineup, nil
}

func (s *LineupService) reload(ctx context.Context, id uuid.UUID) (*models.Lineup, error) {
	lineup, err := s.lineupRepo.GetLineupByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lineup == nil {
		return nil, fmt.Errorf("lineup %s vanished after write", id)
	}
	return lineup, nil
}

func validateLineupInput(input LineupInput) error {
	if strings.TrimSpace(input.Title) == "" || len(input.Artists) == 0 {
		return validationError(msgLineupRequired)
	}
	if len(input.Artists) > models.MaxSlots {
		return validationError(msgTooManyArtists)
	}

	var used [models.MaxSlots]bool
	names := make(map[string]struct{}, len(input.Artists))
	for _, a := range input.Artists {
		if a.SlotPosition < 0 || a.SlotPosition >= models.MaxSlots {
			return validationError(fmt.Sprintf("Slot position must be between 0 and %d", models.MaxSlots-1))
		}
		if used[a.SlotPosition] {
			return validationError(fmt.Sprintf("Slot %d is used more than once", a.SlotPosition))
		}
		used[a.SlotPosition] = true

		name := strings.ToLower(strings.TrimSpace(a.ArtistName))
		if name == "" {
			return validationError(msgArtistNameMissing)
		}
		// Stats group names case-insensitively, so "A" and "a" are the same artist
		if _, seen := names[name]; seen {
			return validationError(msgArtistRepeated)
		}
		names[name] = struct{}{}
	}
	return nil
}

func buildLineup(input LineupInput) *models.Lineup {
	lineup := &models.Lineup{
		Title:       strings.TrimSpace(input.Title),
		Description: optional(input.Description),
		IsPublic:    input.IsPublic,
		Artists:     make([]models.LineupArtist, 0, len(input.Artists)),
	}
	for _, a := range input.Artists {
		lineup.Artists = append(lineup.Artists, models.LineupArtist{
			SlotPosition: a.SlotPosition,
			ArtistName:   strings.TrimSpace(a.ArtistName),
			ArtistImage:  optional(a.ArtistImage),
			ArtistMBID:   optional(a.ArtistMBID),
			Note:         optional(a.Note),
		})
	}
	return lineup
}

// optional stores empty strings as NULL.
func optional(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}
