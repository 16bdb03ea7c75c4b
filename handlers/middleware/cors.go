package middleware

import (
	"net/http"
	"regexp"
	"strings"
)

// CorsMiddleware allows cross origin GET requests from the given origin patterns.
// Patterns may contain * wildcards, a single "*" allows any origin.
func CorsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	patterns := make([]*regexp.Regexp, 0, len(allowedOrigins))
	for _, allowed := range allowedOrigins {
		patterns = append(patterns, compileOriginPattern(allowed))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				for _, pattern := range patterns {
					if pattern.MatchString(origin) {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
						w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
						w.Header().Add("Vary", "Origin")
						break
					}
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func compileOriginPattern(pattern string) *regexp.Regexp {
	if pattern == "*" {
		return regexp.MustCompile(".*")
	}

	// escape everything except the wildcards
	pattern = regexp.QuoteMeta(pattern)
	pattern = strings.ReplaceAll(pattern, "\\*", ".*")
	return regexp.MustCompile("^" + pattern + "$")
}
