package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// SessionGate redirects visitors without a provider session cookie away from
// the guarded area. The check is presence-only: any cookie whose name starts
// with the provider prefix passes, regardless of the cookie's contents.
func SessionGate(cookiePrefix, signInPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasProviderCookie(r, cookiePrefix) {
				next.ServeHTTP(w, r)
				return
			}

			redirect := signInPath + "?redirectedFrom=" + url.QueryEscape(r.URL.Path)
			http.Redirect(w, r, redirect, http.StatusFound)
		})
	}
}

func hasProviderCookie(r *http.Request, prefix string) bool {
	for _, cookie := range r.Cookies() {
		if strings.HasPrefix(cookie.Name, prefix) {
			return true
		}
	}
	return false
}
