package main

import (
	"context"
	"log"
	"os"

	"github.com/Baaaki/backyard-marquee/pkg/logger"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := logger.Init(true); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	app := &cli.Command{
		Name:  "seed",
		Usage: "Prepare a Backyard Marquee database",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Create or update the schema",
				Action: migrateAction,
			},
			{
				Name:  "demo",
				Usage: "Register sample users with public lineups (safe to re-run)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Password given to every demo user",
						Value:   "marquee-demo",
						Sources: cli.EnvVars("SEED_PASSWORD"),
					},
				},
				Action: demoAction,
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("seed: %v", err)
	}
}
