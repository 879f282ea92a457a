package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// flashCookie carries one-shot messages across a redirect.
const flashCookie = "fyyur_flash"

const pendingFlashKey = "flashes"

// flash queues msg for the next rendered page, whether that is the error
// page of this request or the target of a redirect.
func flash(c echo.Context, msg string) {
	pending, _ := c.Get(pendingFlashKey).([]string)
	pending = append(pending, msg)
	c.Set(pendingFlashKey, pending)

	raw, err := json.Marshal(pending)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlashes returns the messages from the request cookie followed by
// those queued in this request, and expires the cookie.
func takeFlashes(c echo.Context) []string {
	var out []string
	if ck, err := c.Cookie(flashCookie); err == nil {
		if raw, err := base64.RawURLEncoding.DecodeString(ck.Value); err == nil {
			_ = json.Unmarshal(raw, &out)
		}
	}
	pending, _ := c.Get(pendingFlashKey).([]string)
	out = append(out, pending...)
	c.Set(pendingFlashKey, nil)
	if len(out) > 0 {
		c.SetCookie(&http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	}
	return out
}
