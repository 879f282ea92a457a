// Seed loads listing fixtures from a YAML file into the database.
//
// Usage:
//
//	seed [flags] fixtures.yaml
//
// The database is selected with the same FYYUR_DB_* variables and flags
// as the server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/database"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/seed"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		color.Red("seed failed: %v", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags, path := splitArgs(args)
	cfg, err := config.Load(flags)
	if err != nil {
		if errors.Is(err, config.ErrHelpWanted) {
			usage, _ := config.Usage()
			fmt.Println(usage)
			return nil
		}
		return err
	}
	if path == "" {
		return errors.New("missing fixtures file")
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	fx, err := seed.Load(f)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DB.Driver, cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, db, cfg.DB.Driver); err != nil {
			return err
		}
	}

	res, err := seed.Apply(ctx, seed.Repos{
		Venues:  repository.NewVenueRepo(db),
		Artists: repository.NewArtistRepo(db),
		Shows:   repository.NewShowRepo(db),
	}, fx)
	if err != nil {
		color.Yellow("partial load: %d venues, %d artists, %d shows", len(res.VenueIDs), len(res.ArtistIDs), res.Shows)
		return err
	}

	color.Green("seeded %s", path)
	fmt.Printf("  venues:  %s\n", color.CyanString("%d", len(res.VenueIDs)))
	fmt.Printf("  artists: %s\n", color.CyanString("%d", len(res.ArtistIDs)))
	fmt.Printf("  shows:   %s\n", color.CyanString("%d", res.Shows))
	return nil
}

// splitArgs separates the trailing fixtures path from the config flags.
// A help flag anywhere, or a flag in last position, leaves path empty.
func splitArgs(args []string) (flags []string, path string) {
	for _, a := range args {
		if a == "-h" || a == "--help" {
			return args, ""
		}
	}
	if len(args) == 0 {
		return nil, ""
	}
	last := args[len(args)-1]
	if strings.HasPrefix(last, "-") {
		return args, ""
	}
	return args[:len(args)-1], last
}
