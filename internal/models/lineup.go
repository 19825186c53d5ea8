package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxSlots is the fixed size of a lineup.
const MaxSlots = 5

// SlotLabels names each billing position, index 0 plays first (the headliner slot).
var SlotLabels = [MaxSlots]string{"first", "second", "third", "fourth", "last"}

type Lineup struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"` // one lineup per user
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	IsPublic    bool      `gorm:"not null;index" json:"is_public"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Filled by queries that join users
	CreatorUsername string `gorm:"->;-:migration" json:"creator_username,omitempty"`

	Artists []LineupArtist `gorm:"foreignKey:LineupID;constraint:OnDelete:CASCADE" json:"artists"`
}

func (l *Lineup) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type LineupArtist struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	LineupID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lineup_slot" json:"-"`
	SlotPosition int       `gorm:"not null;uniqueIndex:idx_lineup_slot" json:"slot_position"`
	ArtistName   string    `gorm:"type:varchar(255);not null;index" json:"artist_name"`
	ArtistImage  *string   `gorm:"type:text" json:"artist_image"`
	ArtistMBID   *string   `gorm:"column:artist_mbid;type:varchar(64)" json:"artist_mbid"`
	Note         *string   `gorm:"type:text" json:"note"`
	CreatedAt    time.Time `json:"-"`
}

func (a *LineupArtist) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// SlotLabelFor returns the billing label of a slot position, or "" when out of range.
func SlotLabelFor(position int) string {
	if position < 0 || position >= MaxSlots {
		return ""
	}
	return SlotLabels[position]
}

func (a LineupArtist) SlotLabel() string {
	return SlotLabelFor(a.SlotPosition)
}
