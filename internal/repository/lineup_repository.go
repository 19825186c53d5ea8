package repository

import (
	"context"
	"errors"

	"github.com/Baaaki/backyard-marquee/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LineupRepository struct {
	db *gorm.DB
}

func NewLineupRepository(db *gorm.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

func orderBySlot(db *gorm.DB) *gorm.DB {
	return db.Order("slot_position ASC")
}

// withCreator selects lineups together with the owner's username and ordered slots.
func (r *LineupRepository) withCreator(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Lineup{}).
		Select("lineups.*, users.username AS creator_username").
		Joins("JOIN users ON users.id = lineups.user_id").
		Preload("Artists", orderBySlot)
}

// CreateLineup inserts the lineup and its slots in one transaction.
// A second lineup for the same user fails with a *DuplicateError on user_id.
func (r *LineupRepository) CreateLineup(ctx context.Context, lineup *models.Lineup) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(lineup).Error; err != nil {
			return translateWriteError(err)
		}
		return insertArtists(tx, lineup.ID, lineup.Artists)
	})
}

// ReplaceLineup rewrites the lineup row and swaps the whole slot set atomically.
func (r *LineupRepository) ReplaceLineup(ctx context.Context, lineup *models.Lineup) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Lineup{}).
			Where("id = ?", lineup.ID).
			Updates(map[string]interface{}{
				"title":       lineup.Title,
				"description": lineup.Description,
				"is_public":   lineup.IsPublic,
			}).Error
		if err != nil {
			return err
		}

		if err := tx.Where("lineup_id = ?", lineup.ID).Delete(&models.LineupArtist{}).Error; err != nil {
			return err
		}

		return insertArtists(tx, lineup.ID, lineup.Artists)
	})
}

// DeleteLineup removes the slots and the lineup together.
func (r *LineupRepository) DeleteLineup(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lineup_id = ?", id).Delete(&models.LineupArtist{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Lineup{}).Error
	})
}

func insertArtists(tx *gorm.DB, lineupID uuid.UUID, artists []models.LineupArtist) error {
	if len(artists) == 0 {
		return nil
	}
	for i := range artists {
		artists[i].ID = uuid.Nil
		artists[i].LineupID = lineupID
	}
	return tx.Create(&artists).Error
}

// GetLineupByID returns (nil, nil) when the lineup does not exist.
func (r *LineupRepository) GetLineupByID(ctx context.Context, id uuid.UUID) (*models.Lineup, error) {
	var lineup models.Lineup
	err := r.withCreator(ctx).Where("lineups.id = ?", id).Take(&lineup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lineup, nil
}

// GetLineupsByUser lists a user's lineups newest first.
func (r *LineupRepository) GetLineupsByUser(ctx context.Context, userID uuid.UUID) ([]models.Lineup, error) {
	lineups := []models.Lineup{}
	err := r.withCreator(ctx).
		Where("lineups.user_id = ?", userID).
		Order("lineups.created_at DESC").
		Find(&lineups).Error
	return lineups, err
}

func (r *LineupRepository) UserHasLineup(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Lineup{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

// GetPublicLineups pages through public lineups ordered by creation time.
func (r *LineupRepository) GetPublicLineups(ctx context.Context, limit, offset int, newestFirst bool) ([]models.Lineup, int64, error) {
	order := "lineups.created_at ASC"
	if newestFirst {
		order = "lineups.created_at DESC"
	}

	lineups := []models.Lineup{}
	err := r.withCreator(ctx).
		Where("lineups.is_public = ?", true).
		Order(order).
		Limit(limit).
		Offset(offset).
		Find(&lineups).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = r.db.WithContext(ctx).Model(&models.Lineup{}).Where("is_public = ?", true).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	return lineups, total, nil
}

// GetArtistsByLineupIDs loads slots for several lineups, grouped by lineup id.
func (r *LineupRepository) GetArtistsByLineupIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.LineupArtist, error) {
	grouped := make(map[uuid.UUID][]models.LineupArtist, len(ids))
	if len(ids) == 0 {
		return grouped, nil
	}

	var artists []models.LineupArtist
	err := r.db.WithContext(ctx).
		Where("lineup_id IN ?", ids).
		Order("slot_position ASC").
		Find(&artists).Error
	if err != nil {
		return nil, err
	}

	for _, a := range artists {
		grouped[a.LineupID] = append(grouped[a.LineupID], a)
	}
	return grouped, nil
}
