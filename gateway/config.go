package gateway

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/MrEthical07/goCAS/middleware"
)

// Config controls the HTTP surface.
type Config struct {
	// CookieName names the global ticket cookie.
	CookieName string
	// CookieDomain scopes the cookie, e.g. "cas.example.com". Empty means the
	// request host.
	CookieDomain string
	// CookieSecure marks the cookie Secure.
	CookieSecure bool
	// CookieSameSite is the SameSite attribute of the cookie.
	CookieSameSite http.SameSite
	// LoginPageURL is the interactive login page that GET /login falls back to.
	LoginPageURL string
	// AllowedReturnHosts restricts returnUrl to these hosts. Empty allows any.
	AllowedReturnHosts []string
	// AllowedOrigins lists origins allowed to make credentialed CORS calls.
	AllowedOrigins []string
}

// DefaultConfig returns a configuration suitable for local runs.
func DefaultConfig() Config {
	return Config{
		CookieName:     middleware.DefaultCookieName,
		CookieSameSite: http.SameSiteLaxMode,
		LoginPageURL:   "http://localhost:8080/login.html",
	}
}

// Validate checks the login page URL and cookie settings.
func (c Config) Validate() error {
	if strings.TrimSpace(c.CookieName) == "" {
		return errors.New("gateway: cookie name is required")
	}
	if c.LoginPageURL == "" {
		return errors.New("gateway: login page url is required")
	}
	u, err := url.Parse(c.LoginPageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("gateway: login page url must be absolute")
	}
	if c.CookieSameSite == http.SameSiteNoneMode && !c.CookieSecure {
		return errors.New("gateway: SameSite=None requires a Secure cookie")
	}
	return nil
}

// ParseSameSite maps "lax", "strict", "none" or "" to an http.SameSite.
func ParseSameSite(name string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, errors.New("gateway: unknown same_site " + name)
	}
}
