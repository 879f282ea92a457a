// Package seed loads listing fixtures from YAML and inserts them through
// the repositories.  Shows reference venues and artists by their
// position in the same file, since ids are assigned on insert.
package seed

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/repository"
)

// Venue is the fixture form of model.Venue.
type Venue struct {
	Name               string   `yaml:"name"`
	City               string   `yaml:"city"`
	State              string   `yaml:"state"`
	Address            string   `yaml:"address"`
	Phone              string   `yaml:"phone"`
	Genres             []string `yaml:"genres"`
	SeekingTalent      bool     `yaml:"seeking_talent"`
	SeekingDescription string   `yaml:"seeking_description"`
	ImageLink          string   `yaml:"image_link"`
	FacebookLink       string   `yaml:"facebook_link"`
	WebsiteLink        string   `yaml:"website_link"`
}

// Artist is the fixture form of model.Artist.
type Artist struct {
	Name               string   `yaml:"name"`
	City               string   `yaml:"city"`
	State              string   `yaml:"state"`
	Phone              string   `yaml:"phone"`
	Genres             []string `yaml:"genres"`
	Website            string   `yaml:"website"`
	SeekingVenue       bool     `yaml:"seeking_venue"`
	SeekingDescription string   `yaml:"seeking_description"`
	ImageLink          string   `yaml:"image_link"`
	FacebookLink       string   `yaml:"facebook_link"`
}

// Show books Artists[Artist] at Venues[Venue].
type Show struct {
	Artist    int    `yaml:"artist"`
	Venue     int    `yaml:"venue"`
	StartTime string `yaml:"start_time"`
}

// Fixtures is the root of a seed file.
type Fixtures struct {
	Venues  []Venue  `yaml:"venues"`
	Artists []Artist `yaml:"artists"`
	Shows   []Show   `yaml:"shows"`
}

// Repos are the write targets of Apply.
type Repos struct {
	Venues  *repository.VenueRepo
	Artists *repository.ArtistRepo
	Shows   *repository.ShowRepo
}

// Result lists the ids assigned to the inserted rows, in file order.
type Result struct {
	VenueIDs  []uint64
	ArtistIDs []uint64
	Shows     int
}

// Load decodes fixtures and checks that every show points inside the
// venue and artist lists.
func Load(r io.Reader) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding fixtures: %w", err)
	}
	for i, s := range fx.Shows {
		if s.Artist < 0 || s.Artist >= len(fx.Artists) {
			return nil, fmt.Errorf("show %d: artist index %d out of range", i, s.Artist)
		}
		if s.Venue < 0 || s.Venue >= len(fx.Venues) {
			return nil, fmt.Errorf("show %d: venue index %d out of range", i, s.Venue)
		}
		if _, err := model.ParseStartTime(s.StartTime); err != nil {
			return nil, fmt.Errorf("show %d: %w", i, err)
		}
	}
	return &fx, nil
}

// Apply inserts venues, then artists, then shows.  It stops at the first
// failure; rows inserted before it stay.
func Apply(ctx context.Context, repos Repos, fx *Fixtures) (Result, error) {
	var res Result
	for _, f := range fx.Venues {
		v := &model.Venue{
			Name:               f.Name,
			City:               f.City,
			State:              f.State,
			Address:            f.Address,
			Phone:              f.Phone,
			Genres:             model.JoinGenres(f.Genres),
			SeekingTalent:      f.SeekingTalent,
			SeekingDescription: f.SeekingDescription,
			ImageLink:          f.ImageLink,
			FacebookLink:       f.FacebookLink,
			WebsiteLink:        f.WebsiteLink,
		}
		if err := repos.Venues.Create(ctx, v); err != nil {
			return res, fmt.Errorf("venue %q: %w", f.Name, err)
		}
		res.VenueIDs = append(res.VenueIDs, v.ID)
	}
	for _, f := range fx.Artists {
		a := &model.Artist{
			Name:               f.Name,
			City:               f.City,
			State:              f.State,
			Phone:              f.Phone,
			Genres:             model.JoinGenres(f.Genres),
			Website:            f.Website,
			SeekingVenue:       f.SeekingVenue,
			SeekingDescription: f.SeekingDescription,
			ImageLink:          f.ImageLink,
			FacebookLink:       f.FacebookLink,
		}
		if err := repos.Artists.Create(ctx, a); err != nil {
			return res, fmt.Errorf("artist %q: %w", f.Name, err)
		}
		res.ArtistIDs = append(res.ArtistIDs, a.ID)
	}
	for i, f := range fx.Shows {
		s := &model.Show{
			ArtistID:  res.ArtistIDs[f.Artist],
			VenueID:   res.VenueIDs[f.Venue],
			StartTime: f.StartTime,
		}
		if err := repos.Shows.Create(ctx, s); err != nil {
			return res, fmt.Errorf("show %d: %w", i, err)
		}
		res.Shows++
	}
	return res, nil
}
