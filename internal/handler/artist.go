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

type artistDetail struct {
	Artist *model.Artist
	Shows  model.ShowHistory
}

type artistForm struct {
	Artist *model.Artist
	Genres []string
}

// ListArtists renders every artist by name.
func (h *Handler) ListArtists(c echo.Context) error {
	artists, err := h.Artists.ListAll(c.Request().Context())
	if err != nil {
		return serverError(err)
	}
	return h.render(c, http.StatusOK, "pages/artists.html", artists)
}

// SearchArtists mirrors SearchVenues.
func (h *Handler) SearchArtists(c echo.Context) error {
	term := c.FormValue("search_term")
	res, err := h.Artists.Search(c.Request().Context(), term, h.Now())
	if err != nil {
		return serverError(err)
	}
	return h.render(c, http.StatusOK, "pages/search_artists.html", searchPage{SearchTerm: term, Results: res})
}

// ShowArtist renders an artist with past and upcoming shows.
func (h *Handler) ShowArtist(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	a, err := h.Artists.GetByID(ctx, id)
	if errors.Is(err, repository.ErrArtistNotFound) {
		return notFound(err)
	}
	if err != nil {
		return serverError(err)
	}
	shows, err := h.Shows.ListByArtist(ctx, id)
	if err != nil {
		return serverError(err)
	}
	history, err := model.SplitShows(shows, h.Now())
	if err != nil {
		return serverError(fmt.Errorf("artist %d: %w", id, err))
	}
	return h.render(c, http.StatusOK, "pages/show_artist.html", artistDetail{Artist: a, Shows: history})
}

func (h *Handler) CreateArtistForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "forms/new_artist.html", artistForm{Artist: &model.Artist{}, Genres: model.GenreChoices})
}

// CreateArtist inserts an artist from the posted form.
func (h *Handler) CreateArtist(c echo.Context) error {
	a := artistFromForm(c)
	if err := h.Artists.Create(c.Request().Context(), a); err != nil {
		flash(c, "An error occurred. Artist "+a.Name+" could not be listed.")
		return serverError(err)
	}
	ev := h.event(queue.ArtistCreated)
	ev.EntityID, ev.Name = a.ID, a.Name
	h.publish(c.Request().Context(), ev)

	flash(c, "Artist "+a.Name+" was successfully listed!")
	return redirect(c, "/")
}

func (h *Handler) EditArtistForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	a, err := h.Artists.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrArtistNotFound) {
		return notFound(err)
	}
	if err != nil {
		return serverError(err)
	}
	return h.render(c, http.StatusOK, "forms/edit_artist.html", artistForm{Artist: a, Genres: model.GenreChoices})
}

// EditArtist overwrites name, genres, city, state, phone and
// facebook_link.  Any failure ends on the 404 page.
func (h *Handler) EditArtist(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		flash(c, "An error occured")
		return err
	}
	a := artistFromForm(c)
	a.ID = id
	if err := h.Artists.Update(c.Request().Context(), a); err != nil {
		flash(c, "An error occured")
		return notFound(err)
	}
	ev := h.event(queue.ArtistUpdated)
	ev.EntityID, ev.Name = a.ID, a.Name
	h.publish(c.Request().Context(), ev)

	flash(c, "Artist "+a.Name+" updated successfully")
	return redirect(c, fmt.Sprintf("/artists/%d", id))
}

func artistFromForm(c echo.Context) *model.Artist {
	return &model.Artist{
		Name:               c.FormValue("name"),
		City:               c.FormValue("city"),
		State:              c.FormValue("state"),
		Phone:              c.FormValue("phone"),
		Genres:             model.JoinGenres(formValues(c, "genres")),
		Website:            c.FormValue("website"),
		SeekingVenue:       formBool(c, "seeking_venue"),
		SeekingDescription: c.FormValue("seeking_description"),
		ImageLink:          c.FormValue("image_link"),
		FacebookLink:       c.FormValue("facebook_link"),
	}
}
