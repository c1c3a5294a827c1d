// ABOUTME: Per-request origin policy: browser callers must be same-origin-class
// ABOUTME: with the server; requests without an Origin header pass unconditionally.
package web

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// checkOrigin allows a request when it carries no Origin header, when the
// origin host matches the request host exactly, when both hosts are
// localhost-class (any port), or when both share the same two-label parent
// domain. Everything else is rejected with 403.
func checkOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && !originAllowed(origin, r.Host) {
			writeError(w, http.StatusForbidden, "origin not allowed")
			return
		}

		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func originAllowed(origin, requestHost string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" {
		return false
	}
	originHost := u.Host
	originName := u.Hostname()
	requestName := hostname(requestHost)

	if strings.EqualFold(originHost, requestHost) {
		return true
	}
	if isLocalhost(originName) && isLocalhost(requestName) {
		return true
	}
	op, rp := parentDomain(originName), parentDomain(requestName)
	return op != "" && strings.EqualFold(op, rp)
}

func hostname(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

func isLocalhost(name string) bool {
	switch strings.ToLower(name) {
	case "localhost", "127.0.0.1", "::1", "[::1]":
		return true
	}
	return false
}

// parentDomain returns the last two labels of a DNS name, or "" for IPs and
// single-label hosts.
func parentDomain(name string) string {
	if net.ParseIP(name) != nil {
		return ""
	}
	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return ""
	}
	return strings.Join(labels[len(labels)-2:], ".")
}
