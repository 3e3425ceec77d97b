package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/upnext/internal/models"
	"github.com/desertthunder/upnext/internal/services"
	"github.com/desertthunder/upnext/internal/shelf"
)

// maxMutationBytes bounds POST bodies on the list endpoints.
const maxMutationBytes = 4 << 10

// Toast styles returned with list mutations.
const (
	toastSuccess = "success"
	toastInfo    = "info"
)

// mutation is the POST body of the list endpoints. Type may also come from the query string.
type mutation struct {
	Action string `json:"action"`
	ID     any    `json:"id"`
	Type   string `json:"type"`
}

// listEndpoint serves one cookie-backed list regardless of its identifier type.
type listEndpoint interface {
	get(w http.ResponseWriter, r *http.Request)
	mutate(w http.ResponseWriter, r *http.Request, m mutation)
}

// cookieList binds a [shelf.Variant] to the catalog its identifiers resolve against.
type cookieList[T models.ID] struct {
	variant shelf.Variant[T]
	catalog services.Lookup[T] // nil when the upstream is not configured
	key     string             // response field holding the entities
	secure  bool
	proxy   string // image proxy prefix, "" to keep upstream image URLs
	logger  *log.Logger
}

func (l *cookieList[T]) get(w http.ResponseWriter, r *http.Request) {
	ids := l.variant.Read(r)
	if len(ids) == 0 {
		writeJSON(w, http.StatusOK, cachePrivate, map[string]any{"ids": ids, l.key: []models.Card{}})
		return
	}

	failed := func(msg string) {
		writeJSON(w, http.StatusInternalServerError, cacheNoStore, map[string]any{
			"ids":   ids,
			l.key:   []models.Card{},
			"error": msg,
		})
	}

	if l.catalog == nil {
		l.logger.Error("list lookup skipped: catalog not configured", "kind", l.variant.Kind, "request_id", GetRequestID(r.Context()))
		failed(fmt.Sprintf("%s catalog is not configured", l.variant.Kind))
		return
	}

	cards, err := l.catalog.Lookup(r.Context(), ids)
	if err != nil {
		l.logger.Error("list lookup failed",
			"kind", l.variant.Kind,
			"ids", len(ids),
			"error", err,
			"request_id", GetRequestID(r.Context()),
		)
		failed(fmt.Sprintf("Failed to load %s", l.variant.Label))
		return
	}

	if l.proxy != "" {
		cards = models.ProxyAll(cards, l.proxy)
	}
	writeJSON(w, http.StatusOK, cachePrivate, map[string]any{"ids": ids, l.key: cards})
}

func (l *cookieList[T]) mutate(w http.ResponseWriter, r *http.Request, m mutation) {
	action := strings.ToLower(strings.TrimSpace(m.Action))
	if action != "add" && action != "remove" {
		writeError(w, http.StatusBadRequest, "Invalid action")
		return
	}

	id, ok := l.variant.Coerce(m.ID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	list := l.variant.Read(r)
	var message, toast string
	switch action {
	case "add":
		list = l.variant.Add(list, id)
		message, toast = "Added to "+l.variant.Label, toastSuccess
	case "remove":
		list = l.variant.Remove(list, id)
		message, toast = "Removed from "+l.variant.Label, toastInfo
	}

	l.variant.Write(w, list, l.secure)
	writeJSON(w, http.StatusOK, cacheNoStore, map[string]any{
		"ids":     list,
		"message": message,
		"variant": toast,
	})
}

// ListHandler serves GET (read + resolve) and POST (add/remove) for a family of cookie lists
// selected by kind.
type ListHandler struct {
	path        string
	defaultKind models.Kind
	lists       map[models.Kind]listEndpoint
}

func (h *ListHandler) Routes() []string {
	return []string{"GET " + h.path, "POST " + h.path}
}

// resolve picks the list for a type value ("video", "board", "movie", "book" and their aliases).
func (h *ListHandler) resolve(raw string) (listEndpoint, bool) {
	kind := h.defaultKind
	if strings.TrimSpace(raw) != "" {
		k, err := models.ParseKind(raw)
		if err != nil {
			return nil, false
		}
		kind = k
	}
	l, ok := h.lists[kind]
	return l, ok
}

func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		l, ok := h.resolve(r.URL.Query().Get("type"))
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid type")
			return
		}
		l.get(w, r)
	case http.MethodPost:
		var m mutation
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMutationBytes))
		dec.UseNumber()
		if err := dec.Decode(&m); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		kind := m.Type
		if kind == "" {
			kind = r.URL.Query().Get("type")
		}
		l, ok := h.resolve(kind)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid type")
			return
		}
		l.mutate(w, r, m)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
