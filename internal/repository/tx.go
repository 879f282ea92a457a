package repository

import (
	"context"
	"database/sql"
	"strings"
)

// withTx runs fn inside a transaction.  Any error from fn rolls the
// transaction back; otherwise it is committed and the commit error is
// returned.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	return fn(tx)
}

// likePattern wraps a search term for a case-insensitive LIKE against
// LOWER(column).  An empty term yields "%%" and matches every row.
func likePattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}
