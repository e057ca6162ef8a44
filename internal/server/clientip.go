package server

import (
	"net"
	"net/http"
	"strings"
)

// ClientAddress resolves the originating client address for a request. The
// first entry of X-Forwarded-For wins when the header is present (the site
// runs behind a reverse proxy); otherwise the transport peer address is used.
func ClientAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
