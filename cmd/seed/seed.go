package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Baaaki/backyard-marquee/internal/config"
	"github.com/Baaaki/backyard-marquee/internal/database"
	"github.com/Baaaki/backyard-marquee/internal/models"
	"github.com/Baaaki/backyard-marquee/internal/repository"
	"github.com/Baaaki/backyard-marquee/internal/security"
	"github.com/Baaaki/backyard-marquee/internal/service"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

type demoLineup struct {
	username string
	title    string
	artists  []string
}

// demoLineups overlap on purpose so the leaderboard and pairings have something to show.
var demoLineups = []demoLineup{
	{"festival_fan", "Desert Sunset", []string{"Radiohead", "Bjork", "Portishead", "Massive Attack", "Air"}},
	{"indie_kid", "Basement Show", []string{"Arcade Fire", "Radiohead", "The National", "Bon Iver", "Beach House"}},
	{"night_owl", "After Hours", []string{"Massive Attack", "Portishead", "Burial", "Radiohead", "Four Tet"}},
	{"vinyl_digger", "Crate Finds", []string{"Bjork", "Air", "Stereolab", "Broadcast", "Beach House"}},
}

func openDatabase() (*gorm.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, nil, err
	}
	return db, cfg, nil
}

func migrateAction(ctx context.Context, cmd *cli.Command) error {
	db, _, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close(db)

	fmt.Fprintln(cmd.Root().Writer, "schema up to date")
	return nil
}

func demoAction(ctx context.Context, cmd *cli.Command) error {
	db, cfg, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close(db)

	tokens, err := security.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return err
	}
	auth := service.NewAuthService(
		repository.NewUserRepository(db),
		security.NewPasswordHasher(security.DefaultParams),
		tokens,
	)
	lineups := service.NewLineupService(repository.NewLineupRepository(db))

	created, err := seedDemo(ctx, auth, lineups, cmd.String("password"), cmd.Root().Writer)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "%d new lineups\n", created)
	return nil
}

// seedDemo registers (or logs in) each demo user and gives them their lineup.
// Users that already own a lineup are left alone.
func seedDemo(ctx context.Context, auth *service.AuthService, lineups *service.LineupService, password string, out io.Writer) (int, error) {
	created := 0
	for _, demo := range demoLineups {
		result, err := auth.Register(ctx, demo.username, password, "")
		if errors.Is(err, service.ErrConflict) {
			result, err = auth.Login(ctx, demo.username, password)
		}
		if err != nil {
			return created, fmt.Errorf("user %s: %w", demo.username, err)
		}

		lineup, err := lineups.Create(ctx, result.User.ID, demoInput(demo))
		if errors.Is(err, service.ErrConflict) {
			fmt.Fprintf(out, "%-14s already has a lineup\n", demo.username)
			continue
		}
		if err != nil {
			return created, fmt.Errorf("lineup for %s: %w", demo.username, err)
		}

		created++
		fmt.Fprintf(out, "%-14s %q\n", demo.username, lineup.Title)
		for _, a := range lineup.Artists {
			fmt.Fprintf(out, "  %-7s %s\n", a.SlotLabel(), a.ArtistName)
		}
	}
	return created, nil
}

func demoInput(demo demoLineup) service.LineupInput {
	input := service.LineupInput{Title: demo.title, IsPublic: true}
	for i, name := range demo.artists {
		if i >= models.MaxSlots {
			break
		}
		input.Artists = append(input.Artists, service.LineupArtistInput{SlotPosition: i, ArtistName: name})
	}
	return input
}
