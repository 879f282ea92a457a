package model

import (
	"strings"
	"time"
)

// StartTimeLayout is the storage format of Show.StartTime.  Values carry
// no zone and are interpreted in the server's local time.
const StartTimeLayout = "2006-01-02 15:04:05"

// Show books one artist at one venue.  (ArtistID, VenueID) is the
// primary key, so a pair can be booked only once.
type Show struct {
	ArtistID  uint64 // shows.artist_id
	VenueID   uint64 // shows.venue_id
	StartTime string // shows.start_time, StartTimeLayout
}

// ShowListing is a show joined with the names of both sides, as
// displayed by the flat show list and the detail pages.
type ShowListing struct {
	ArtistID        uint64
	ArtistName      string
	ArtistImageLink string
	VenueID         uint64
	VenueName       string
	VenueImageLink  string
	StartTime       string
}

// Timing classifies a show relative to the request time.
type Timing int

const (
	Past Timing = iota
	Upcoming
)

func (t Timing) String() string {
	if t == Upcoming {
		return "upcoming"
	}
	return "past"
}

// ParseStartTime parses a stored start time in the local zone.
func ParseStartTime(s string) (time.Time, error) {
	return time.ParseInLocation(StartTimeLayout, s, time.Local)
}

// Classify reports Upcoming only when start is strictly after now; a
// show starting exactly now is already Past.
func Classify(start, now time.Time) Timing {
	if start.After(now) {
		return Upcoming
	}
	return Past
}

// ShowHistory is the past/upcoming split rendered by detail pages.
type ShowHistory struct {
	Past     []ShowListing
	Upcoming []ShowListing
}

// PastCount and UpcomingCount are used by the templates.
func (h ShowHistory) PastCount() int     { return len(h.Past) }
func (h ShowHistory) UpcomingCount() int { return len(h.Upcoming) }

// SplitShows classifies every show against now.  The first malformed
// start time aborts the split.
func SplitShows(shows []ShowListing, now time.Time) (ShowHistory, error) {
	var h ShowHistory
	for _, s := range shows {
		start, err := ParseStartTime(s.StartTime)
		if err != nil {
			return ShowHistory{}, err
		}
		if Classify(start, now) == Upcoming {
			h.Upcoming = append(h.Upcoming, s)
		} else {
			h.Past = append(h.Past, s)
		}
	}
	return h, nil
}

// JoinGenres joins multi-select values into the stored comma form.
func JoinGenres(values []string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, ",")
}

// SplitGenres is the inverse of JoinGenres.
func SplitGenres(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FormatDateTime renders a stored start time for display.  format is
// "full" or "medium" (the default).  Unparseable values are returned
// unchanged.
func FormatDateTime(value, format string) string {
	t, err := ParseStartTime(value)
	if err != nil {
		return value
	}
	switch format {
	case "full":
		return t.Format("Monday January, 2, 2006 at 3:04PM")
	default:
		return t.Format("Mon 01, 02, 2006 3:04PM")
	}
}
