package repository

import (
	"database/sql"

	"github.com/iliyamo/fyyur/internal/model"
)

// SearchResult is the payload of a name search: the number of matches
// and one row per match.
type SearchResult struct {
	Count int
	Data  []model.Ref
}

// scanRefs reads (id, name, num_upcoming_shows) rows.  It accepts the
// QueryContext results directly so callers can chain the two.
func scanRefs(rows *sql.Rows, err error) ([]model.Ref, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Ref{}
	for rows.Next() {
		var ref model.Ref
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.NumUpcomingShows); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
