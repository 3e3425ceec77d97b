package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/upnext/internal/models"
	"github.com/desertthunder/upnext/internal/services"
	"github.com/desertthunder/upnext/internal/shared"
)

const maxQueryLength = 200

// SearchHandler serves GET /api/search?kind=&q= across the configured catalogs.
type SearchHandler struct {
	catalogs services.Catalogs
	ttl      int
	proxy    string
	logger   *log.Logger
}

func (h *SearchHandler) Routes() []string {
	return []string{"GET /api/search"}
}

func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "Missing query")
		return
	}
	if utf8.RuneCountInString(query) > maxQueryLength {
		writeError(w, http.StatusBadRequest, "Query too long")
		return
	}

	kind, err := models.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid kind")
		return
	}

	searcher := h.catalogs.Searcher(kind)
	if searcher == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s search is not configured", kind))
		return
	}

	results, err := searcher.Search(r.Context(), query)
	if err != nil {
		h.logger.Error("search failed", "kind", kind, "error", err, "request_id", GetRequestID(r.Context()))
		writeJSON(w, statusFor(err), cacheNoStore, map[string]any{
			"results": []models.Card{},
			"error":   "Search failed",
		})
		return
	}

	if h.proxy != "" {
		results = models.ProxyAll(results, h.proxy)
	}
	writeJSON(w, http.StatusOK, publicCache(h.ttl), map[string]any{"results": results})
}

// BestsellersHandler serves GET /api/bestsellers?list=.
type BestsellersHandler struct {
	source services.BestsellerSource
	ttl    int
	proxy  string
	logger *log.Logger
}

func (h *BestsellersHandler) Routes() []string {
	return []string{"GET /api/bestsellers"}
}

func (h *BestsellersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	list := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("list")))
	if list == "" {
		list = services.DefaultBestsellerList
	}
	if !services.ValidListName(list) {
		writeError(w, http.StatusBadRequest, "Invalid list")
		return
	}

	result, err := h.source.Bestsellers(r.Context(), list)
	if err != nil {
		h.logger.Error("bestsellers failed", "list", list, "error", err, "request_id", GetRequestID(r.Context()))
		writeJSON(w, statusFor(err), cacheNoStore, map[string]any{
			"list":  list,
			"books": []models.Card{},
			"error": "Failed to load bestsellers",
		})
		return
	}

	books := result.Books
	if h.proxy != "" {
		books = models.ProxyAll(books, h.proxy)
	}
	writeJSON(w, http.StatusOK, publicCache(h.ttl), map[string]any{
		"list":  result.Name,
		"date":  result.Date,
		"books": books,
	})
}

// ReviewedHandler serves GET /api/reviewed.
type ReviewedHandler struct {
	source services.ReviewSource
	ttl    int
	proxy  string
	logger *log.Logger
}

func (h *ReviewedHandler) Routes() []string {
	return []string{"GET /api/reviewed"}
}

func (h *ReviewedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	games, err := h.source.ReviewedThisWeek(r.Context())
	if err != nil {
		h.logger.Error("reviewed games failed", "error", err, "request_id", GetRequestID(r.Context()))
		writeJSON(w, statusFor(err), cacheNoStore, map[string]any{
			"games": []models.Card{},
			"error": "Failed to load reviews",
		})
		return
	}

	if h.proxy != "" {
		games = models.ProxyAll(games, h.proxy)
	}
	writeJSON(w, http.StatusOK, publicCache(h.ttl), map[string]any{"games": games})
}

// HealthHandler reports liveness and which catalogs are configured.
type HealthHandler struct {
	catalogs services.Catalogs
}

func (h *HealthHandler) Routes() []string {
	return []string{"GET /healthz"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cacheNoStore, map[string]any{
		"status": "ok",
		"catalogs": map[string]bool{
			"movies":      h.catalogs.Movies != nil,
			"games":       h.catalogs.Games != nil,
			"boardGames":  h.catalogs.BoardGames != nil,
			"books":       h.catalogs.Books != nil,
			"bestsellers": h.catalogs.Bestsellers != nil,
			"reviews":     h.catalogs.Reviews != nil,
		},
	})
}

// statusFor maps an upstream error to a response status: bad input is the caller's fault,
// anything else is a 500.
func statusFor(err error) int {
	if errors.Is(err, shared.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
