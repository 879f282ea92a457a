package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/queue"
)

type showForm struct {
	Artists   []model.Ref
	Venues    []model.Ref
	StartTime string
}

// ListShows renders every show whose artist and venue both exist.
func (h *Handler) ListShows(c echo.Context) error {
	shows, err := h.Shows.ListAll(c.Request().Context())
	if err != nil {
		return serverError(err)
	}
	return h.render(c, http.StatusOK, "pages/shows.html", shows)
}

// CreateShowForm offers every artist and venue, with the start time
// prefilled to now.
func (h *Handler) CreateShowForm(c echo.Context) error {
	ctx := c.Request().Context()
	artists, err := h.Artists.ListOptions(ctx)
	if err != nil {
		return serverError(err)
	}
	venues, err := h.Venues.ListOptions(ctx)
	if err != nil {
		return serverError(err)
	}
	return h.render(c, http.StatusOK, "forms/new_show.html", showForm{
		Artists:   artists,
		Venues:    venues,
		StartTime: h.Now().Format(model.StartTimeLayout),
	})
}

// CreateShow books an artist at a venue.  Both ids must name existing
// rows; start_time is stored as sent.
func (h *Handler) CreateShow(c echo.Context) error {
	artistID, aerr := strconv.ParseUint(c.FormValue("artist_id"), 10, 64)
	venueID, verr := strconv.ParseUint(c.FormValue("venue_id"), 10, 64)
	if aerr != nil || verr != nil {
		flash(c, "An error occurred. Show could not be listed.")
		if aerr != nil {
			return serverError(aerr)
		}
		return serverError(verr)
	}
	s := &model.Show{ArtistID: artistID, VenueID: venueID, StartTime: c.FormValue("start_time")}
	if err := h.Shows.Create(c.Request().Context(), s); err != nil {
		flash(c, "An error occurred. Show could not be listed.")
		return serverError(err)
	}
	ev := h.event(queue.ShowCreated)
	ev.ArtistID, ev.VenueID, ev.StartTime = s.ArtistID, s.VenueID, s.StartTime
	h.publish(c.Request().Context(), ev)

	flash(c, "Show was successfully listed!")
	return redirect(c, "/")
}
