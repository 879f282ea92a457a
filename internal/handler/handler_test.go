package handler_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fyyur/internal/database"
	"github.com/iliyamo/fyyur/internal/handler"
	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/router"
	"github.com/iliyamo/fyyur/internal/view"
)

var fixedNow = time.Date(2024, 5, 21, 21, 30, 0, 0, time.Local)

type recordingPublisher struct{ events []queue.ListingEvent }

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ListingEvent) error {
	p.events = append(p.events, ev)
	return nil
}
func (p *recordingPublisher) Close() error { return nil }

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, queue.ListingEvent) error {
	return errors.New("broker unavailable")
}
func (failingPublisher) Close() error { return nil }

type testApp struct {
	e      *echo.Echo
	db     *sql.DB
	h      *handler.Handler
	events *recordingPublisher
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db, database.DriverSQLite))
	t.Cleanup(func() { _ = db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	events := &recordingPublisher{}
	h := handler.New(repository.NewVenueRepo(db), repository.NewArtistRepo(db), repository.NewShowRepo(db), events, log)
	h.Now = func() time.Time { return fixedNow }

	renderer, err := view.New()
	require.NoError(t, err)
	e := echo.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = h.HTTPErrorHandler
	pass := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	router.RegisterRoutes(e)
	router.RegisterSite(e, h, pass, pass)

	return &testApp{e: e, db: db, h: h, events: events}
}

func (a *testApp) do(method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func flashCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "fyyur_flash" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no flash cookie set")
	return nil
}

func venueForm(name string) url.Values {
	return url.Values{
		"name":                {name},
		"city":                {"San Francisco"},
		"state":               {"CA"},
		"address":             {"1015 Folsom Street"},
		"phone":               {"123-123-1234"},
		"genres":              {"Jazz", "Reggae", "Swing"},
		"image_link":          {"https://example.com/hop.png"},
		"facebook_link":       {"https://www.facebook.com/TheMusicalHop"},
		"website_link":        {"https://www.themusicalhop.com"},
		"seeking_talent":      {"True"},
		"seeking_description": {"We are on the lookout for a local artist."},
	}
}

func artistForm(name string) url.Values {
	return url.Values{
		"name":          {name},
		"city":          {"San Francisco"},
		"state":         {"CA"},
		"phone":         {"326-123-5000"},
		"genres":        {"Rock n Roll"},
		"website":       {"https://www.gunsnpetalsband.com"},
		"seeking_venue": {"true"},
		"image_link":    {"https://example.com/gnp.png"},
		"facebook_link": {"https://www.facebook.com/GunsNPetals"},
	}
}

func TestCreateVenueRedirectsHomeWithFlash(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/venues/create", venueForm("The Musical Hop"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	home := app.do(http.MethodGet, "/", nil, flashCookie(t, rec))
	assert.Equal(t, http.StatusOK, home.Code)
	assert.Contains(t, home.Body.String(), "Venue The Musical Hop was successfully listed!")

	// the flash is consumed by the first render
	again := app.do(http.MethodGet, "/", nil)
	assert.NotContains(t, again.Body.String(), "successfully listed")

	require.Len(t, app.events.events, 1)
	assert.Equal(t, queue.VenueCreated, app.events.events[0].Kind)
	assert.Equal(t, uint64(1), app.events.events[0].EntityID)
}

func TestCreatedVenueRoundTripsThroughDetail(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, http.StatusSeeOther, app.do(http.MethodPost, "/venues/create", venueForm("The Musical Hop")).Code)

	v, err := app.h.Venues.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Jazz,Reggae,Swing", v.Genres)
	assert.True(t, v.SeekingTalent)
	assert.Equal(t, "https://www.themusicalhop.com", v.WebsiteLink)

	rec := app.do(http.MethodGet, "/venues/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "The Musical Hop")
	assert.Contains(t, body, "1015 Folsom Street")
	assert.Contains(t, body, "Currently seeking talent")
}

func TestSeekingFlagRequiresLiteralTrue(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, http.StatusSeeOther, app.do(http.MethodPost, "/artists/create", artistForm("Guns N Petals")).Code)

	a, err := app.h.Artists.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, a.SeekingVenue)
}

func TestCreateVenueFailureRendersErrorPage(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.db.Close())

	rec := app.do(http.MethodPost, "/venues/create", venueForm("The Musical Hop"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "An error occurred. Venue The Musical Hop could not be listed.")
	assert.Contains(t, body, "Internal server error")
	assert.NotContains(t, body, "sql:")
	assert.Empty(t, app.events.events)
}

func TestUnknownVenueRendersNotFound(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/venues/42", "/venues/abc", "/artists/42", "/venues/42/edit"} {
		rec := app.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Not found", path)
	}
}

func TestDeleteVenueKeepsShows(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	app.do(http.MethodPost, "/venues/create", venueForm("The Musical Hop"))
	app.do(http.MethodPost, "/artists/create", artistForm("Guns N Petals"))
	require.Equal(t, http.StatusSeeOther, app.do(http.MethodPost, "/shows/create", url.Values{
		"artist_id": {"1"}, "venue_id": {"1"}, "start_time": {"2019-05-21 21:30:00"},
	}).Code)

	rec := app.do(http.MethodDelete, "/venues/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	assert.NotContains(t, app.do(http.MethodGet, "/venues", nil).Body.String(), "The Musical Hop")
	shows, err := app.h.Shows.ListByVenue(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, shows, 1)

	// the artist page joins venues, so the orphaned show drops out of it
	assert.Contains(t, app.do(http.MethodGet, "/artists/1", nil).Body.String(), "0 Past Shows")
	assert.Equal(t, queue.VenueDeleted, app.events.events[len(app.events.events)-1].Kind)
}

func TestDeleteVenueMalformedIDIsNotFound(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodDelete, "/venues/x", nil).Code)
}

func TestDuplicateShowIsRejected(t *testing.T) {
	app := newTestApp(t)
	app.do(http.MethodPost, "/venues/create", venueForm("The Musical Hop"))
	app.do(http.MethodPost, "/artists/create", artistForm("Guns N Petals"))
	show := url.Values{"artist_id": {"1"}, "venue_id": {"1"}, "start_time": {"2035-04-01 20:00:00"}}

	first := app.do(http.MethodPost, "/shows/create", show)
	require.Equal(t, http.StatusSeeOther, first.Code)
	assert.Contains(t, app.do(http.MethodGet, "/", nil, flashCookie(t, first)).Body.String(), "Show was successfully listed!")

	show.Set("start_time", "2035-04-08 20:00:00")
	second := app.do(http.MethodPost, "/shows/create", show)
	assert.Equal(t, http.StatusInternalServerError, second.Code)
	assert.Contains(t, second.Body.String(), "An error occurred. Show could not be listed.")
}

func TestShowForUnknownArtistOrVenueIsRejected(t *testing.T) {
	app := newTestApp(t)
	app.do(http.MethodPost, "/venues/create", venueForm("The Musical Hop"))
	app.do(http.MethodPost, "/artists/create", artistForm("Guns N Petals"))
	published := len(app.events.events)

	for _, ids := range [][2]string{{"999", "888"}, {"999", "1"}, {"1", "888"}} {
		rec := app.do(http.MethodPost, "/shows/create", url.Values{
			"artist_id": {ids[0]}, "venue_id": {ids[1]}, "start_time": {"2035-04-01 20:00:00"},
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code, ids)
		assert.Contains(t, rec.Body.String(), "An error occurred. Show could not be listed.", ids)
	}

	var n int
	require.NoError(t, app.db.QueryRow(`SELECT COUNT(*) FROM shows`).Scan(&n))
	assert.Zero(t, n)
	assert.Len(t, app.events.events, published)
}

func TestPublishFailureIsLoggedOnce(t *testing.T) {
	app := newTestApp(t)
	log, hook := logtest.NewNullLogger()
	app.h.Log = log
	app.h.Events = failingPublisher{}

	rec := app.do(http.MethodPost, "/venues/create", venueForm("The Musical Hop"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, queue.VenueCreated, entry.Data["kind"])
}

func TestShowStartingNowIsPast(t *testing.T) {
	app := newTestApp(t)
	app.do(http.MethodPost, "/venues/create", venueForm("The Musical Hop"))
	app.do(http.MethodPost, "/artists/create", artistForm("Guns N Petals"))
	app.do(http.MethodPost, "/artists/create", artistForm("Matt Quevedo"))
	app.do(http.MethodPost, "/shows/create", url.Values{
		"artist_id": {"1"}, "venue_id": {"1"}, "start_time": {fixedNow.Format(model.StartTimeLayout)},
	})
	app.do(http.MethodPost, "/shows/create", url.Values{
		"artist_id": {"2"}, "venue_id": {"1"}, "start_time": {fixedNow.Add(time.Second).Format(model.StartTimeLayout)},
	})

	body := app.do(http.MethodGet, "/venues/1", nil).Body.String()
	assert.Contains(t, body, "1 Upcoming Shows")
	assert.Contains(t, body, "1 Past Shows")
}

func TestMalformedStartTimeFailsDetail(t *testing.T) {
	app := newTestApp(t)
	app.do(http.MethodPost, "/venues/create", venueForm("The Musical Hop"))
	app.do(http.MethodPost, "/artists/create", artistForm("Guns N Petals"))
	app.do(http.MethodPost, "/shows/create", url.Values{"artist_id": {"1"}, "venue_id": {"1"}, "start_time": {"next tuesday"}})

	assert.Equal(t, http.StatusInternalServerError, app.do(http.MethodGet, "/venues/1", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, app.do(http.MethodGet, "/artists/1", nil).Code)
}

func TestEmptySearchReturnsEverything(t *testing.T) {
	app := newTestApp(t)
	app.do(http.MethodPost, "/venues/create", venueForm("The Musical Hop"))
	app.do(http.MethodPost, "/venues/create", venueForm("Park Square Live Music & Coffee"))

	rec := app.do(http.MethodPost, "/venues/search", url.Values{"search_term": {""}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"": 2</h3>`)

	rec = app.do(http.MethodPost, "/venues/search", url.Values{"search_term": {"HOP"}})
	assert.Contains(t, rec.Body.String(), ": 1</h3>")
	assert.Contains(t, rec.Body.String(), "The Musical Hop")
}

func TestEditArtistOverwritesSixFields(t *testing.T) {
	app := newTestApp(t)
	app.do(http.MethodPost, "/artists/create", artistForm("Guns N Petals"))

	rec := app.do(http.MethodPost, "/artists/1/edit", url.Values{
		"name":          {"The Wild Sax Band"},
		"genres":        {"Jazz", "Classical"},
		"city":          {"New York"},
		"state":         {"NY"},
		"phone":         {"432-325-5432"},
		"facebook_link": {"https://www.facebook.com/wildsax"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/artists/1", rec.Header().Get(echo.HeaderLocation))

	a, err := app.h.Artists.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "The Wild Sax Band", a.Name)
	assert.Equal(t, "Jazz,Classical", a.Genres)
	assert.Equal(t, "New York", a.City)
	assert.Equal(t, "NY", a.State)
	assert.Equal(t, "432-325-5432", a.Phone)
	assert.Equal(t, "https://www.facebook.com/wildsax", a.FacebookLink)
	// not editable
	assert.Equal(t, "https://www.gunsnpetalsband.com", a.Website)

	detail := app.do(http.MethodGet, "/artists/1", nil, flashCookie(t, rec))
	assert.Contains(t, detail.Body.String(), "Artist The Wild Sax Band updated successfully")
}

func TestEditUnknownVenueRendersNotFoundWithFlash(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(http.MethodPost, "/venues/9/edit", venueForm("Nowhere"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "An error occured")
}

func TestEditVenueRedirectsToDetail(t *testing.T) {
	app := newTestApp(t)
	app.do(http.MethodPost, "/venues/create", venueForm("The Musical Hop"))

	form := venueForm("The Dueling Pianos Bar")
	form.Set("city", "New York")
	rec := app.do(http.MethodPost, "/venues/1/edit", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/venues/1", rec.Header().Get(echo.HeaderLocation))

	detail := app.do(http.MethodGet, "/venues/1", nil, flashCookie(t, rec))
	assert.Contains(t, detail.Body.String(), "Venue The Dueling Pianos Bar updated successfully")
	assert.Contains(t, detail.Body.String(), "New York")
}

func TestListPages(t *testing.T) {
	app := newTestApp(t)
	app.do(http.MethodPost, "/venues/create", venueForm("The Musical Hop"))
	app.do(http.MethodPost, "/artists/create", artistForm("Guns N Petals"))
	app.do(http.MethodPost, "/shows/create", url.Values{"artist_id": {"1"}, "venue_id": {"1"}, "start_time": {"2035-04-01 20:00:00"}})

	venues := app.do(http.MethodGet, "/venues", nil).Body.String()
	assert.Contains(t, venues, "San Francisco, CA")
	assert.Contains(t, venues, "1 upcoming shows")

	assert.Contains(t, app.do(http.MethodGet, "/artists", nil).Body.String(), "Guns N Petals")

	shows := app.do(http.MethodGet, "/shows", nil).Body.String()
	assert.Contains(t, shows, "Guns N Petals")
	assert.Contains(t, shows, "The Musical Hop")

	form := app.do(http.MethodGet, "/shows/create", nil)
	assert.Equal(t, http.StatusOK, form.Code)
	assert.Contains(t, form.Body.String(), fixedNow.Format(model.StartTimeLayout))
}
