// Package repository contains data access logic separated from HTTP handlers.
// This file holds the venue queries: CRUD, the city-grouped listing and
// name search.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/fyyur/internal/model"
)

// VenueRepo encapsulates all database queries related to venues.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

const venueColumns = `id, COALESCE(name, ''), COALESCE(city, ''), COALESCE(state, ''),
	COALESCE(address, ''), COALESCE(phone, ''), COALESCE(genres, ''), seeking_talent,
	COALESCE(seeking_description, ''), COALESCE(image_link, ''), COALESCE(facebook_link, ''),
	COALESCE(website_link, '')`

// startTimeShape matches the fixed-width model.StartTimeLayout.  Within
// that shape string order is time order; anything else is not counted as
// upcoming, the same as the detail pages which refuse to classify it.
const startTimeShape = `s.start_time LIKE '____-__-__ __:__:__'`

// upcomingVenueShows is a correlated subquery counting shows that start after
// the bound time.
const upcomingVenueShows = `(SELECT COUNT(*) FROM shows s WHERE s.venue_id = v.id AND ` + startTimeShape + ` AND s.start_time > ?)`

// Create inserts a new venue.  On success v.ID holds the generated id.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (name, city, state, address, phone, genres, seeking_talent,
	           seeking_description, image_link, facebook_link, website_link)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, v.Phone, v.Genres,
			v.SeekingTalent, v.SeekingDescription, v.ImageLink, v.FacebookLink, v.WebsiteLink)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		v.ID = uint64(id)
		return nil
	})
}

// GetByID fetches a venue.  It returns ErrVenueNotFound if no row is found.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	q := `SELECT ` + venueColumns + ` FROM venues WHERE id = ?`
	var v model.Venue
	err := r.db.QueryRowContext(ctx, q, id).Scan(&v.ID, &v.Name, &v.City, &v.State, &v.Address,
		&v.Phone, &v.Genres, &v.SeekingTalent, &v.SeekingDescription, &v.ImageLink,
		&v.FacebookLink, &v.WebsiteLink)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListAreas returns venues grouped by (city, state), ordered by city.
// Each venue carries only its id, name and upcoming show count.
func (r *VenueRepo) ListAreas(ctx context.Context, now time.Time) ([]model.Area, error) {
	q := `SELECT COALESCE(v.city, ''), COALESCE(v.state, ''), v.id, COALESCE(v.name, ''), ` + upcomingVenueShows + `
	      FROM venues v
	      ORDER BY v.city, v.state, v.id`
	rows, err := r.db.QueryContext(ctx, q, now.Format(model.StartTimeLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var located []areaVenue
	for rows.Next() {
		var av areaVenue
		if err := rows.Scan(&av.city, &av.state, &av.ref.ID, &av.ref.Name, &av.ref.NumUpcomingShows); err != nil {
			return nil, err
		}
		located = append(located, av)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groupAreas(located), nil
}

type areaVenue struct {
	city, state string
	ref         model.Ref
}

// groupAreas groups on the exact (city, state) pair, keeping areas in
// first-seen order.  A case-insensitive collation may interleave "Austin"
// and "austin" rows; each spelling still gets a single area.
func groupAreas(rows []areaVenue) []model.Area {
	type key struct{ city, state string }
	index := map[key]int{}
	var out []model.Area
	for _, row := range rows {
		k := key{row.city, row.state}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, model.Area{City: row.city, State: row.state})
		}
		out[i].Venues = append(out[i].Venues, row.ref)
	}
	return out
}

// Search matches term case-insensitively against the venue name only.
// An empty term matches every venue.
func (r *VenueRepo) Search(ctx context.Context, term string, now time.Time) (SearchResult, error) {
	pattern := likePattern(term)
	var res SearchResult
	const qCount = `SELECT COUNT(*) FROM venues WHERE LOWER(COALESCE(name, '')) LIKE ?`
	if err := r.db.QueryRowContext(ctx, qCount, pattern).Scan(&res.Count); err != nil {
		return SearchResult{}, err
	}
	q := `SELECT v.id, COALESCE(v.name, ''), ` + upcomingVenueShows + `
	      FROM venues v
	      WHERE LOWER(COALESCE(v.name, '')) LIKE ?
	      ORDER BY v.id`
	data, err := scanRefs(r.db.QueryContext(ctx, q, now.Format(model.StartTimeLayout), pattern))
	if err != nil {
		return SearchResult{}, err
	}
	res.Data = data
	return res, nil
}

// Update overwrites the editable venue fields (name, address, genres,
// city, state, phone, facebook_link) with the values in v.  Every field
// is written, changed or not.  ErrVenueNotFound is returned when v.ID
// does not exist.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	const q = `UPDATE venues
	           SET name = ?, address = ?, genres = ?, city = ?, state = ?, phone = ?, facebook_link = ?
	           WHERE id = ?`
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, q, v.Name, v.Address, v.Genres, v.City, v.State, v.Phone,
			v.FacebookLink, v.ID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrVenueNotFound
		}
		return nil
	})
}

// Delete removes a venue unconditionally.  Shows booked at the venue are
// not touched and keep pointing at the removed id.  Deleting an unknown
// id is not an error.
func (r *VenueRepo) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
		return err
	})
}

// ListOptions returns every venue's id and name ordered by name, for
// select inputs.
func (r *VenueRepo) ListOptions(ctx context.Context) ([]model.Ref, error) {
	const q = `SELECT id, COALESCE(name, ''), 0 FROM venues ORDER BY name, id`
	return scanRefs(r.db.QueryContext(ctx, q))
}
