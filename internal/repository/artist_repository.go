package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/fyyur/internal/model"
)

// ArtistRepo manages persistence for artists.  Artists are never deleted.
type ArtistRepo struct {
	db *sql.DB
}

// NewArtistRepo constructs an ArtistRepo with the given DB handle.
func NewArtistRepo(db *sql.DB) *ArtistRepo {
	return &ArtistRepo{db: db}
}

const artistColumns = `id, COALESCE(name, ''), COALESCE(city, ''), COALESCE(state, ''),
	COALESCE(phone, ''), genres, COALESCE(website, ''), seeking_venue,
	COALESCE(seeking_description, ''), COALESCE(image_link, ''), COALESCE(facebook_link, '')`

const upcomingArtistShows = `(SELECT COUNT(*) FROM shows s WHERE s.artist_id = a.id AND ` + startTimeShape + ` AND s.start_time > ?)`

// Create inserts a new artist and assigns the generated id to a.ID.
func (r *ArtistRepo) Create(ctx context.Context, a *model.Artist) error {
	const q = `INSERT INTO artists (name, city, state, phone, genres, website, seeking_venue,
	           seeking_description, image_link, facebook_link)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, a.Genres, a.Website,
			a.SeekingVenue, a.SeekingDescription, a.ImageLink, a.FacebookLink)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		a.ID = uint64(id)
		return nil
	})
}

// GetByID retrieves an artist by id.  It returns ErrArtistNotFound if
// there is no matching row.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (*model.Artist, error) {
	q := `SELECT ` + artistColumns + ` FROM artists WHERE id = ?`
	var a model.Artist
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Name, &a.City, &a.State, &a.Phone,
		&a.Genres, &a.Website, &a.SeekingVenue, &a.SeekingDescription, &a.ImageLink, &a.FacebookLink)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListAll returns the id and name of every artist ordered by id.
func (r *ArtistRepo) ListAll(ctx context.Context) ([]model.Ref, error) {
	const q = `SELECT id, COALESCE(name, ''), 0 FROM artists ORDER BY id`
	return scanRefs(r.db.QueryContext(ctx, q))
}

// ListOptions returns every artist ordered by name, for select inputs.
func (r *ArtistRepo) ListOptions(ctx context.Context) ([]model.Ref, error) {
	const q = `SELECT id, COALESCE(name, ''), 0 FROM artists ORDER BY name, id`
	return scanRefs(r.db.QueryContext(ctx, q))
}

// Search matches term case-insensitively against the artist name only.
// An empty term matches every artist.
func (r *ArtistRepo) Search(ctx context.Context, term string, now time.Time) (SearchResult, error) {
	pattern := likePattern(term)
	var res SearchResult
	const qCount = `SELECT COUNT(*) FROM artists WHERE LOWER(COALESCE(name, '')) LIKE ?`
	if err := r.db.QueryRowContext(ctx, qCount, pattern).Scan(&res.Count); err != nil {
		return SearchResult{}, err
	}
	q := `SELECT a.id, COALESCE(a.name, ''), ` + upcomingArtistShows + `
	      FROM artists a
	      WHERE LOWER(COALESCE(a.name, '')) LIKE ?
	      ORDER BY a.id`
	data, err := scanRefs(r.db.QueryContext(ctx, q, now.Format(model.StartTimeLayout), pattern))
	if err != nil {
		return SearchResult{}, err
	}
	res.Data = data
	return res, nil
}

// Update overwrites the six editable artist fields: name, genres, city,
// state, phone and facebook_link.  There is no partial update; empty
// values are written as-is.
func (r *ArtistRepo) Update(ctx context.Context, a *model.Artist) error {
	const q = `UPDATE artists
	           SET name = ?, genres = ?, city = ?, state = ?, phone = ?, facebook_link = ?
	           WHERE id = ?`
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, q, a.Name, a.Genres, a.City, a.State, a.Phone, a.FacebookLink, a.ID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrArtistNotFound
		}
		return nil
	})
}
