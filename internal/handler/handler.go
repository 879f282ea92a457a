// Package handler exposes the HTTP handlers of the listing site.  Every
// page is rendered server-side through the echo Renderer; writes follow
// post/redirect/get and report their outcome as flash messages.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/service"
	"github.com/iliyamo/fyyur/internal/view"
)

// Handler aggregates the repositories and collaborators shared by all
// pages.  Now is the clock used to split past and upcoming shows.
type Handler struct {
	Venues  *repository.VenueRepo
	Artists *repository.ArtistRepo
	Shows   *repository.ShowRepo
	Events  service.Publisher
	Log     logrus.FieldLogger
	Now     func() time.Time
}

// New wires a Handler with the wall clock.  A nil publisher disables
// listing events.
func New(venues *repository.VenueRepo, artists *repository.ArtistRepo, shows *repository.ShowRepo,
	events service.Publisher, log logrus.FieldLogger) *Handler {
	if events == nil {
		events = service.NopPublisher{}
	}
	return &Handler{
		Venues:  venues,
		Artists: artists,
		Shows:   shows,
		Events:  events,
		Log:     log,
		Now:     time.Now,
	}
}

// render writes a page with the flashes carried by the request cookie
// plus any queued during this request.
func (h *Handler) render(c echo.Context, code int, name string, data any) error {
	return c.Render(code, name, view.Page{Flashes: takeFlashes(c), Data: data})
}

// redirect ends a successful write with 303 See Other.
func redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}

// parseID reads the :id path parameter.  A malformed id cannot name a
// row, so it is reported as not found.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// formValues returns every value posted for key, e.g. a multi-select.
func formValues(c echo.Context, key string) []string {
	params, err := c.FormParams()
	if err != nil {
		return nil
	}
	return params[key]
}

// formBool is true only for the literal "True" sent by the forms.
func formBool(c echo.Context, key string) bool {
	return c.FormValue(key) == "True"
}

// publish emits a listing event.  Failures are logged and never reach the
// client; the write has already been committed.
func (h *Handler) publish(ctx context.Context, ev queue.ListingEvent) {
	if err := h.Events.Publish(ctx, ev); err != nil {
		h.Log.WithError(err).WithField("kind", ev.Kind).Warn("listing event not published")
	}
}

func (h *Handler) event(kind string) queue.ListingEvent {
	return queue.NewListingEvent(kind, h.Now())
}
