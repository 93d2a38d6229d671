package web

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// Flash messages ride a short-lived cookie across the POST-redirect-GET
// hop: a mutation sets it, the next render consumes and clears it. The
// value is display-only and html/template escapes it on output, so the
// cookie is deliberately unsigned.

const (
	flashCookieName = "todo_flash"
	flashMaxAge     = 60 // seconds; long enough to survive the redirect

	flashSuccess = "success"
	flashError   = "error"
)

type flashMessage struct {
	Category string
	Message  string
}

// setFlash leaves a one-shot message for the next page render.
func setFlash(w http.ResponseWriter, category, message string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(category + "|" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash consumes the flash cookie, clearing it so the message shows
// only once. Returns nil when there is no (or a malformed) message.
func takeFlash(w http.ResponseWriter, r *http.Request) *flashMessage {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(string(raw), "|")
	if !ok || message == "" {
		return nil
	}
	return &flashMessage{Category: category, Message: message}
}
