package model

// Venue represents a bookable physical location.  Venues are grouped
// by (city, state) on the listing page and own zero or more shows.
// This struct corresponds to a row in the `venues` table.
//
// Fields:
//  ID                 – generated primary key.
//  Name               – display name, also the search key.
//  City, State        – grouping key for the venue listing.
//  Address, Phone     – contact details.
//  Genres             – comma-joined list of genres.
//  SeekingTalent      – whether the venue is looking for artists.
//  SeekingDescription – optional free text shown when seeking.
//  ImageLink          – picture URL.
//  FacebookLink       – facebook page URL.
//  WebsiteLink        – optional website URL.
type Venue struct {
	ID                 uint64 // venues.id
	Name               string // venues.name
	City               string // venues.city
	State              string // venues.state
	Address            string // venues.address
	Phone              string // venues.phone
	Genres             string // venues.genres
	SeekingTalent      bool   // venues.seeking_talent
	SeekingDescription string // venues.seeking_description (nullable)
	ImageLink          string // venues.image_link
	FacebookLink       string // venues.facebook_link
	WebsiteLink        string // venues.website_link (nullable)
}

// Area groups the venues of one city.
type Area struct {
	City   string
	State  string
	Venues []Ref
}
