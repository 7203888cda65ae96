package middleware

import (
	"context"
	"errors"
	"net/http"

	goCAS "github.com/MrEthical07/goCAS"
)

// DefaultCookieName is the cookie that carries the global ticket.
const DefaultCookieName = "cookie_user_ticket"

// SessionChecker resolves a global ticket. *goCAS.Authority satisfies it.
type SessionChecker interface {
	CheckExistingSession(ctx context.Context, globalTicket string) (goCAS.VerifyOutcome, error)
}

type outcomeContextKey struct{}

// OutcomeFromContext returns the outcome stored by Guard.
func OutcomeFromContext(ctx context.Context) (goCAS.VerifyOutcome, bool) {
	res, ok := ctx.Value(outcomeContextKey{}).(goCAS.VerifyOutcome)
	return res, ok
}

// Guard admits requests whose cookieName cookie holds a live global ticket and
// stores the resolved outcome in the request context. Other requests get 401,
// or 503 when the session store is down.
func Guard(checker SessionChecker, cookieName string) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if checker == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ticket, ok := ticketCookie(r, cookieName)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			outcome, err := checker.CheckExistingSession(r.Context(), ticket)
			if err != nil {
				if errors.Is(err, goCAS.ErrStoreUnavailable) {
					http.Error(w, "service unavailable", http.StatusServiceUnavailable)
					return
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !outcome.Valid {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), outcomeContextKey{}, outcome)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession is Guard with the default cookie name.
func RequireSession(checker SessionChecker) func(http.Handler) http.Handler {
	return Guard(checker, DefaultCookieName)
}

func ticketCookie(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
