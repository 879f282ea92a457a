package router

import (
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/labstack/echo/v4"
)

// Wrap adapts e for http.Server.  HTML forms cannot send DELETE, so a
// POST carrying _method=DELETE is rewritten before routing.  When
// accessLog is non-nil every request is also written to it in Apache
// combined format.
func Wrap(e *echo.Echo, accessLog io.Writer) http.Handler {
	var h http.Handler = handlers.HTTPMethodOverrideHandler(e)
	if accessLog != nil {
		h = handlers.CombinedLoggingHandler(accessLog, h)
	}
	return h
}
