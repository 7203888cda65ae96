package gateway

import (
	"errors"
	"net/url"
	"strings"
)

const tmpTicketParam = "tmpTicket"

var (
	errMissingReturnURL    = errors.New("returnUrl is required")
	errReturnURLNotAllowed = errors.New("returnUrl host is not allowed")
)

// checkReturnURL rejects a blank returnUrl and, when hosts is non-empty, any
// returnUrl that is not an absolute http(s) URL on one of those hosts.
func checkReturnURL(raw string, hosts []string) error {
	if strings.TrimSpace(raw) == "" {
		return errMissingReturnURL
	}
	if len(hosts) == 0 {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errReturnURLNotAllowed
	}
	host := u.Hostname()
	for _, allowed := range hosts {
		if strings.EqualFold(host, allowed) {
			return nil
		}
	}
	return errReturnURLNotAllowed
}

// withQueryParam appends key=value to raw, keeping any existing query and
// fragment intact.
func withQueryParam(raw, key, value string) string {
	base, fragment, hasFragment := strings.Cut(raw, "#")

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
		if strings.HasSuffix(base, "?") || strings.HasSuffix(base, "&") {
			sep = ""
		}
	}

	out := base + sep + key + "=" + url.QueryEscape(value)
	if hasFragment {
		out += "#" + fragment
	}
	return out
}

func handoffURL(returnURL, tmpTicket string) string {
	return withQueryParam(returnURL, tmpTicketParam, tmpTicket)
}

func loginPageURL(loginPage, returnURL string) string {
	return withQueryParam(loginPage, "returnUrl", returnURL)
}
