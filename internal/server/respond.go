package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Cache-Control directives.
const (
	cacheNoStore = "no-store"
	// cachePrivate marks cookie-derived responses: clients may store them but must revalidate,
	// shared caches must not store them.
	cachePrivate = "private, no-cache"
)

// publicCache returns the shared-cache directive for a route cached for ttl seconds.
func publicCache(ttl int) string {
	if ttl <= 0 {
		return cacheNoStore
	}
	return fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d", ttl, ttl/2)
}

// writeJSON encodes v with status and the given Cache-Control directive.
func writeJSON(w http.ResponseWriter, status int, cacheControl string, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": msg}. Errors are never cached.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, cacheNoStore, map[string]string{"error": msg})
}
