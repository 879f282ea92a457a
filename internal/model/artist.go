package model

// Artist represents a performer.  Artists own zero or more shows and,
// unlike venues, have no delete path.
//
// Fields:
//  ID                 – generated primary key.
//  Name               – display name, also the search key.
//  City, State, Phone – contact details.
//  Genres             – comma-joined list of genres (required).
//  Website            – website URL.
//  SeekingVenue       – whether the artist is looking for venues.
//  SeekingDescription – optional free text shown when seeking.
//  ImageLink          – picture URL.
//  FacebookLink       – facebook page URL.
type Artist struct {
	ID                 uint64 // artists.id
	Name               string // artists.name
	City               string // artists.city
	State              string // artists.state
	Phone              string // artists.phone
	Genres             string // artists.genres
	Website            string // artists.website
	SeekingVenue       bool   // artists.seeking_venue
	SeekingDescription string // artists.seeking_description (nullable)
	ImageLink          string // artists.image_link
	FacebookLink       string // artists.facebook_link
}
