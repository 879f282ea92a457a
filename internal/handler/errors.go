package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler renders the 404 and 500 pages.  Other statuses (405,
// 429, ...) get echo's message as plain text.  Internal errors are logged
// and never shown to the client.
func (h *Handler) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		}
	}
	log := h.Log.WithError(err).WithField("path", c.Request().URL.Path)
	switch {
	case code >= http.StatusInternalServerError:
		log.Error("request failed")
	case he != nil && he.Internal != nil:
		log.Warn("request failed")
	}

	var rerr error
	switch {
	case c.Request().Method == http.MethodHead:
		rerr = c.NoContent(code)
	case code == http.StatusNotFound:
		rerr = h.render(c, code, "errors/404.html", nil)
	case code >= http.StatusInternalServerError:
		rerr = h.render(c, http.StatusInternalServerError, "errors/500.html", nil)
	default:
		rerr = c.String(code, msg)
	}
	if rerr != nil {
		h.Log.WithError(rerr).Error("error page not rendered")
	}
}

// serverError wraps err as a 500 whose detail stays in the log.
func serverError(err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
}

// notFound wraps err as a 404 whose detail stays in the log.
func notFound(err error) error {
	return echo.NewHTTPError(http.StatusNotFound).SetInternal(err)
}
