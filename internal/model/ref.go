package model

// Ref is the id/name pair returned by list and search views.
// NumUpcomingShows is filled only where a view displays it.
type Ref struct {
	ID               uint64
	Name             string
	NumUpcomingShows int
}

// GenreChoices are the options offered by the venue and artist forms.
var GenreChoices = []string{
	"Alternative", "Blues", "Classical", "Country", "Electronic", "Folk", "Funk",
	"Hip-Hop", "Heavy Metal", "Instrumental", "Jazz", "Musical Theatre", "Pop",
	"Punk", "R&B", "Reggae", "Rock n Roll", "Soul", "Other",
}
