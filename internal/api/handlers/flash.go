package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie = "flash"

	ctxKeySecureCookies = "secureCookies"
)

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// CookiePolicy sets the Secure attribute used for every cookie the page
// handlers write (SESSION_COOKIE_SECURE).
func CookiePolicy(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxKeySecureCookies, secure)
		c.Next()
	}
}

func setFlash(c *gin.Context, kind, message string) {
	raw, err := json.Marshal(Flash{Type: kind, Message: message})
	if err != nil {
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		Secure:   c.GetBool(ctxKeySecureCookies),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending flash, if any, and clears it.
func popFlash(c *gin.Context) *Flash {
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   c.GetBool(ctxKeySecureCookies),
		HttpOnly: true,
	})

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}

// redirectWithFlash is the page-flow failure and success path.
func redirectWithFlash(c *gin.Context, location, kind, message string) {
	setFlash(c, kind, message)
	c.Redirect(http.StatusFound, location)
}
