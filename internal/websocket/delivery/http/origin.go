package http

import (
	"net/url"
	"strings"
)

// isOriginAllowed matches exact origins, "*" and "*.example.com" host
// wildcards. Requests without an Origin header are not browser requests
// and are allowed.
func isOriginAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()

	for _, a := range allowed {
		switch {
		case a == "*":
			return true
		case a == origin:
			return true
		case strings.HasPrefix(a, "*."):
			if strings.HasSuffix(host, strings.TrimPrefix(a, "*")) {
				return true
			}
		}
	}
	return false
}
