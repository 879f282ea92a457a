// Package router defines how HTTP routes are registered on echo.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/handler"
	"github.com/iliyamo/fyyur/internal/view"
)

// RegisterRoutes registers the health check and the static assets.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.StaticFS("/static", view.Static())
}

// RegisterSite registers the HTML pages.  cache wraps the home page only;
// limit guards every route that writes.
func RegisterSite(e *echo.Echo, h *handler.Handler, cache, limit echo.MiddlewareFunc) {
	e.GET("/", h.Home, cache)

	// ---- Venues ----
	e.GET("/venues", h.ListVenues)
	e.POST("/venues/search", h.SearchVenues)
	e.GET("/venues/create", h.CreateVenueForm)
	e.POST("/venues/create", h.CreateVenue, limit)
	e.GET("/venues/:id", h.ShowVenue)
	e.DELETE("/venues/:id", h.DeleteVenue, limit)
	e.GET("/venues/:id/edit", h.EditVenueForm)
	e.POST("/venues/:id/edit", h.EditVenue, limit)

	// ---- Artists ----
	e.GET("/artists", h.ListArtists)
	e.POST("/artists/search", h.SearchArtists)
	e.GET("/artists/create", h.CreateArtistForm)
	e.POST("/artists/create", h.CreateArtist, limit)
	e.GET("/artists/:id", h.ShowArtist)
	e.GET("/artists/:id/edit", h.EditArtistForm)
	e.POST("/artists/:id/edit", h.EditArtist, limit)

	// ---- Shows ----
	e.GET("/shows", h.ListShows)
	e.GET("/shows/create", h.CreateShowForm)
	e.POST("/shows/create", h.CreateShow, limit)
}
