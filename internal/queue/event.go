// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

import (
	"time"

	"github.com/gofrs/uuid"
)

// Event kinds published after a successful write.
const (
	VenueCreated  = "venue.created"
	VenueUpdated  = "venue.updated"
	VenueDeleted  = "venue.deleted"
	ArtistCreated = "artist.created"
	ArtistUpdated = "artist.updated"
	ShowCreated   = "show.created"
)

// ListingEvent is published when a listing changes.  It carries enough to
// write an audit line without querying the database.  Shows have no id
// of their own and are identified by ArtistID and VenueID.
type ListingEvent struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	EntityID   uint64 `json:"entity_id,omitempty"`
	ArtistID   uint64 `json:"artist_id,omitempty"`
	VenueID    uint64 `json:"venue_id,omitempty"`
	Name       string `json:"name,omitempty"`
	StartTime  string `json:"start_time,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// NewListingEvent stamps an event with a random id and the UTC time.
func NewListingEvent(kind string, at time.Time) ListingEvent {
	id, err := uuid.NewV4()
	ev := ListingEvent{Kind: kind, OccurredAt: at.UTC().Format(time.RFC3339)}
	if err == nil {
		ev.ID = id.String()
	}
	return ev
}
