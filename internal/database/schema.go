package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Show rows reference venues and artists by id only.  No FOREIGN KEY is
// declared: deleting a venue leaves its shows in place.
var schemas = map[string][]string{
	DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS venues (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255),
			city VARCHAR(120),
			state VARCHAR(120),
			address VARCHAR(120),
			phone VARCHAR(120),
			genres VARCHAR(120),
			seeking_talent TINYINT(1) NOT NULL DEFAULT 0,
			seeking_description TEXT NULL,
			image_link VARCHAR(500),
			facebook_link VARCHAR(120),
			website_link VARCHAR(100) NULL,
			INDEX idx_venues_city (city, state)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
		`CREATE TABLE IF NOT EXISTS artists (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255),
			city VARCHAR(120),
			state VARCHAR(120),
			phone VARCHAR(120),
			genres VARCHAR(120) NOT NULL,
			website VARCHAR(100),
			seeking_venue TINYINT(1) NOT NULL DEFAULT 0,
			seeking_description TEXT NULL,
			image_link VARCHAR(500),
			facebook_link VARCHAR(120)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
		`CREATE TABLE IF NOT EXISTS shows (
			artist_id BIGINT UNSIGNED NOT NULL,
			venue_id BIGINT UNSIGNED NOT NULL,
			start_time VARCHAR(32),
			PRIMARY KEY (artist_id, venue_id),
			INDEX idx_shows_venue (venue_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	},
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS venues (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT,
			city TEXT,
			state TEXT,
			address TEXT,
			phone TEXT,
			genres TEXT,
			seeking_talent BOOLEAN NOT NULL DEFAULT 0,
			seeking_description TEXT,
			image_link TEXT,
			facebook_link TEXT,
			website_link TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS artists (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT,
			city TEXT,
			state TEXT,
			phone TEXT,
			genres TEXT NOT NULL,
			website TEXT,
			seeking_venue BOOLEAN NOT NULL DEFAULT 0,
			seeking_description TEXT,
			image_link TEXT,
			facebook_link TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS shows (
			artist_id INTEGER NOT NULL,
			venue_id INTEGER NOT NULL,
			start_time TEXT,
			PRIMARY KEY (artist_id, venue_id)
		)`,
	},
}

// Migrate creates the venues, artists and shows tables when missing.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts, ok := schemas[driver]
	if !ok {
		return fmt.Errorf("no schema for driver %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
