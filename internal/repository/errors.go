// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow handlers to tell a missing
// row apart from any other database failure.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// ErrVenueNotFound is returned when a venue cannot be found in the DB.
var ErrVenueNotFound = errors.New("venue not found")

// ErrArtistNotFound is returned when an artist cannot be found in the DB.
var ErrArtistNotFound = errors.New("artist not found")

// ErrDuplicateShow is returned when the (artist, venue) pair is already
// booked.  The pair is the primary key of the shows table.
var ErrDuplicateShow = errors.New("show already exists for this artist and venue")

// isDuplicateKey reports a primary/unique key violation for either driver.
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
