// Package repository contains data access logic for Show domain operations.
// A show books one artist at one venue; the (artist_id, venue_id) pair is
// the primary key, so the same artist can play a venue only once.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/fyyur/internal/model"
)

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// Create inserts a show.  Both the artist and the venue must exist:
// an unknown id fails with ErrArtistNotFound or ErrVenueNotFound.
// StartTime is stored verbatim.  A second show for the same pair fails
// with ErrDuplicateShow.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	const q = `INSERT INTO shows (artist_id, venue_id, start_time) VALUES (?, ?, ?)`
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := rowExists(ctx, tx, `SELECT 1 FROM artists WHERE id = ?`, s.ArtistID, ErrArtistNotFound); err != nil {
			return err
		}
		if err := rowExists(ctx, tx, `SELECT 1 FROM venues WHERE id = ?`, s.VenueID, ErrVenueNotFound); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, q, s.ArtistID, s.VenueID, s.StartTime); err != nil {
			if isDuplicateKey(err) {
				return fmt.Errorf("%w: %v", ErrDuplicateShow, err)
			}
			return err
		}
		return nil
	})
}

// rowExists runs a single-row lookup and maps "no rows" to missing.
func rowExists(ctx context.Context, tx *sql.Tx, q string, id uint64, missing error) error {
	var one int
	err := tx.QueryRowContext(ctx, q, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id %d", missing, id)
	}
	return err
}

// ListAll returns every show whose artist and venue both exist, with
// their names denormalised, ordered by start time.
func (r *ShowRepo) ListAll(ctx context.Context) ([]model.ShowListing, error) {
	const q = `SELECT s.artist_id, COALESCE(a.name, ''), COALESCE(a.image_link, ''),
	                  s.venue_id, COALESCE(v.name, ''), COALESCE(v.image_link, ''),
	                  COALESCE(s.start_time, '')
	           FROM shows s
	           JOIN artists a ON a.id = s.artist_id
	           JOIN venues v  ON v.id = s.venue_id
	           ORDER BY s.start_time, s.artist_id, s.venue_id`
	return scanListings(r.db.QueryContext(ctx, q))
}

// ListByVenue returns the shows booked at a venue with artist details.
// The venue itself is not joined, so shows of a deleted venue are still
// returned.
func (r *ShowRepo) ListByVenue(ctx context.Context, venueID uint64) ([]model.ShowListing, error) {
	const q = `SELECT s.artist_id, COALESCE(a.name, ''), COALESCE(a.image_link, ''),
	                  s.venue_id, '', '', COALESCE(s.start_time, '')
	           FROM shows s
	           JOIN artists a ON a.id = s.artist_id
	           WHERE s.venue_id = ?
	           ORDER BY s.start_time`
	return scanListings(r.db.QueryContext(ctx, q, venueID))
}

// ListByArtist returns the shows of an artist with venue details.
func (r *ShowRepo) ListByArtist(ctx context.Context, artistID uint64) ([]model.ShowListing, error) {
	const q = `SELECT s.artist_id, '', '',
	                  s.venue_id, COALESCE(v.name, ''), COALESCE(v.image_link, ''), COALESCE(s.start_time, '')
	           FROM shows s
	           JOIN venues v ON v.id = s.venue_id
	           WHERE s.artist_id = ?
	           ORDER BY s.start_time`
	return scanListings(r.db.QueryContext(ctx, q, artistID))
}

func scanListings(rows *sql.Rows, err error) ([]model.ShowListing, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ShowListing
	for rows.Next() {
		var l model.ShowListing
		if err := rows.Scan(&l.ArtistID, &l.ArtistName, &l.ArtistImageLink,
			&l.VenueID, &l.VenueName, &l.VenueImageLink, &l.StartTime); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
