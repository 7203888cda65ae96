package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieAttrs defines how the ticket cookie is issued.
type CookieAttrs struct {
	Domain   string
	Path     string
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
}

// normalize applies safe defaults without breaking callers
func (a CookieAttrs) normalize() CookieAttrs {
	if a.Path == "" {
		a.Path = "/"
	}
	if !a.HttpOnly {
		a.HttpOnly = true
	}
	return a
}

// CookieJar is the cookie capability the handlers depend on.
type CookieJar interface {
	Get(name string) (string, bool)
	Set(name, value string, attrs CookieAttrs)
	Clear(name string, attrs CookieAttrs)
}

type ginJar struct {
	c *gin.Context
}

// GinCookieJar returns a CookieJar bound to one gin request.
func GinCookieJar(c *gin.Context) CookieJar {
	return ginJar{c: c}
}

func (j ginJar) Get(name string) (string, bool) {
	value, err := j.c.Cookie(name)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

// Set issues a session cookie. The ticket has no client-side expiry; its
// lifetime is governed by the store.
func (j ginJar) Set(name, value string, attrs CookieAttrs) {
	attrs = attrs.normalize()

	http.SetCookie(j.c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     attrs.Path,
		Domain:   attrs.Domain,
		HttpOnly: attrs.HttpOnly,
		Secure:   attrs.Secure,
		SameSite: attrs.SameSite,
	})
}

// Clear expires the cookie with the same domain and path it was set with.
func (j ginJar) Clear(name string, attrs CookieAttrs) {
	attrs = attrs.normalize()

	http.SetCookie(j.c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     attrs.Path,
		Domain:   attrs.Domain,
		MaxAge:   -1,
		HttpOnly: attrs.HttpOnly,
		Secure:   attrs.Secure,
		SameSite: attrs.SameSite,
	})
}
