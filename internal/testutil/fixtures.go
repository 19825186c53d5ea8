package testutil

import (
	"testing"
	"time"

	"github.com/Baaaki/backyard-marquee/internal/models"
	"github.com/Baaaki/backyard-marquee/internal/security"
	"gorm.io/gorm"
)

// FastHashParams keeps argon2id cheap in tests.
var FastHashParams = security.Argon2Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// CreateTestUser inserts a user whose password hashes with FastHashParams
func CreateTestUser(t *testing.T, db *gorm.DB, username, password string) *models.User {
	hash, err := security.NewPasswordHasher(FastHashParams).Hash(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// CreateTestLineup inserts a lineup whose artists fill slots 0..n-1 in order.
// createdAt is explicit so tests can rely on newest-first ordering.
func CreateTestLineup(t *testing.T, db *gorm.DB, owner *models.User, title string, public bool, createdAt time.Time, artists ...string) *models.Lineup {
	lineup := &models.Lineup{
		UserID:    owner.ID,
		Title:     title,
		IsPublic:  public,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	for i, name := range artists {
		lineup.Artists = append(lineup.Artists, models.LineupArtist{
			SlotPosition: i,
			ArtistName:   name,
		})
	}
	if err := db.Create(lineup).Error; err != nil {
		t.Fatalf("Failed to create lineup %s: %v", title, err)
	}
	return lineup
}
