package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
)

type venueDetail struct {
	Venue *model.Venue
	Shows model.ShowHistory
}

type venueForm struct {
	Venue  *model.Venue
	Genres []string
}

type searchPage struct {
	SearchTerm string
	Results    repository.SearchResult
}

// ListVenues renders all venues grouped by city and state.
func (h *Handler) ListVenues(c echo.Context) error {
	areas, err := h.Venues.ListAreas(c.Request().Context(), h.Now())
	if err != nil {
		return serverError(err)
	}
	return h.render(c, http.StatusOK, "pages/venues.html", areas)
}

// SearchVenues matches search_term case-insensitively against venue
// names.  An empty term matches every venue.
func (h *Handler) SearchVenues(c echo.Context) error {
	term := c.FormValue("search_term")
	res, err := h.Venues.Search(c.Request().Context(), term, h.Now())
	if err != nil {
		return serverError(err)
	}
	return h.render(c, http.StatusOK, "pages/search_venues.html", searchPage{SearchTerm: term, Results: res})
}

// ShowVenue renders a venue with its shows split into past and upcoming.
func (h *Handler) ShowVenue(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	v, err := h.Venues.GetByID(ctx, id)
	if errors.Is(err, repository.ErrVenueNotFound) {
		return notFound(err)
	}
	if err != nil {
		return serverError(err)
	}
	shows, err := h.Shows.ListByVenue(ctx, id)
	if err != nil {
		return serverError(err)
	}
	history, err := model.SplitShows(shows, h.Now())
	if err != nil {
		return serverError(fmt.Errorf("venue %d: %w", id, err))
	}
	return h.render(c, http.StatusOK, "pages/show_venue.html", venueDetail{Venue: v, Shows: history})
}

// CreateVenueForm renders an empty venue form.
func (h *Handler) CreateVenueForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "forms/new_venue.html", venueForm{Venue: &model.Venue{}, Genres: model.GenreChoices})
}

// CreateVenue inserts a venue from the posted form.  Fields are taken as
// sent; the database is the only validation.
func (h *Handler) CreateVenue(c echo.Context) error {
	v := venueFromForm(c)
	if err := h.Venues.Create(c.Request().Context(), v); err != nil {
		flash(c, "An error occurred. Venue "+v.Name+" could not be listed.")
		return serverError(err)
	}
	ev := h.event(queue.VenueCreated)
	ev.EntityID, ev.Name = v.ID, v.Name
	h.publish(c.Request().Context(), ev)

	flash(c, "Venue "+v.Name+" was successfully listed!")
	return redirect(c, "/")
}

// EditVenueForm renders the venue form prefilled with stored values.
func (h *Handler) EditVenueForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	v, err := h.Venues.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrVenueNotFound) {
		return notFound(err)
	}
	if err != nil {
		return serverError(err)
	}
	return h.render(c, http.StatusOK, "forms/edit_venue.html", venueForm{Venue: v, Genres: model.GenreChoices})
}

// EditVenue overwrites the editable venue fields with the posted values.
// Any failure ends on the 404 page.
func (h *Handler) EditVenue(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		flash(c, "An error occured")
		return err
	}
	v := venueFromForm(c)
	v.ID = id
	if err := h.Venues.Update(c.Request().Context(), v); err != nil {
		flash(c, "An error occured")
		return notFound(err)
	}
	ev := h.event(queue.VenueUpdated)
	ev.EntityID, ev.Name = v.ID, v.Name
	h.publish(c.Request().Context(), ev)

	flash(c, "Venue "+v.Name+" updated successfully")
	return redirect(c, fmt.Sprintf("/venues/%d", id))
}

// DeleteVenue removes a venue and answers 204 with no body.  Its shows
// are left in place.  Any failure is reported as 404.
func (h *Handler) DeleteVenue(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Venues.Delete(c.Request().Context(), id); err != nil {
		return notFound(err)
	}
	ev := h.event(queue.VenueDeleted)
	ev.EntityID = id
	h.publish(c.Request().Context(), ev)
	return c.NoContent(http.StatusNoContent)
}

func venueFromForm(c echo.Context) *model.Venue {
	return &model.Venue{
		Name:               c.FormValue("name"),
		City:               c.FormValue("city"),
		State:              c.FormValue("state"),
		Address:            c.FormValue("address"),
		Phone:              c.FormValue("phone"),
		Genres:             model.JoinGenres(formValues(c, "genres")),
		SeekingTalent:      formBool(c, "seeking_talent"),
		SeekingDescription: c.FormValue("seeking_description"),
		ImageLink:          c.FormValue("image_link"),
		FacebookLink:       c.FormValue("facebook_link"),
		WebsiteLink:        c.FormValue("website_link"),
	}
}
