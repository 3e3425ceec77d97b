package shelf

import (
	"encoding/json"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/upnext/internal/models"
)

// Default list capacities.
const (
	MovieCap = 20
	GameCap  = 100
	BookCap  = 100
)

// Variant describes one saved-items list: the cookie it lives in, its capacity and how raw
// cookie elements coerce to identifiers.
type Variant[T models.ID] struct {
	Label      string      // user-facing list name ("watchlist", "bookshelf")
	Kind       models.Kind // catalog the identifiers belong to
	CookieName string
	Cap        int
	coerce     func(any) (T, bool)
}

var (
	Movies     = Variant[int64]{Label: "watchlist", Kind: models.KindMovie, CookieName: "movie_watchlist", Cap: MovieCap, coerce: coerceInt}
	VideoGames = Variant[int64]{Label: "watchlist", Kind: models.KindGame, CookieName: "game_watchlist", Cap: GameCap, coerce: coerceInt}
	BoardGames = Variant[int64]{Label: "watchlist", Kind: models.KindBoard, CookieName: "board_watchlist", Cap: GameCap, coerce: coerceInt}
	Books      = Variant[string]{Label: "bookshelf", Kind: models.KindBook, CookieName: "bookshelf", Cap: BookCap, coerce: coerceString}
)

// WithCap returns a copy of v holding at most n identifiers. Non-positive n keeps the current cap.
func (v Variant[T]) WithCap(n int) Variant[T] {
	if n > 0 {
		v.Cap = n
	}
	return v
}

// Coerce converts a decoded JSON value to an identifier, reporting false when it is not a valid one.
func (v Variant[T]) Coerce(raw any) (T, bool) {
	return v.coerce(raw)
}

// Parse decodes a URL-encoded JSON array into a list.
//
// Missing, undecodable or non-array input yields an empty list. Elements that are not valid
// identifiers are dropped, duplicates collapse to their most recent occurrence and the result
// is cut to the cap, oldest first.
func (v Variant[T]) Parse(raw string) []T {
	list := []T{}
	if strings.TrimSpace(raw) == "" {
		return list
	}

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return list
	}

	dec := json.NewDecoder(strings.NewReader(decoded))
	dec.UseNumber()

	var elems []any
	if err := dec.Decode(&elems); err != nil {
		return list
	}
	if _, err := dec.Token(); err != io.EOF {
		return list
	}

	for _, e := range elems {
		if id, ok := v.coerce(e); ok {
			list = Add(list, id, v.Cap)
		}
	}
	return list
}

// Serialize JSON-encodes the list. The caller URL-encodes it for transport.
func (v Variant[T]) Serialize(list []T) string {
	if list == nil {
		list = []T{}
	}
	// Encoding a slice of ints or strings cannot fail.
	data, _ := json.Marshal(list)
	return string(data)
}

// Add applies [Add] with the variant's cap.
func (v Variant[T]) Add(list []T, id T) []T {
	return Add(list, id, v.Cap)
}

// Remove applies [Remove].
func (v Variant[T]) Remove(list []T, id T) []T {
	return Remove(list, id)
}

// Add moves id to the end of list (appending it when absent) and drops the oldest entries
// beyond limit. The input slice is not modified.
func Add[T comparable](list []T, id T, limit int) []T {
	out := make([]T, 0, len(list)+1)
	for _, existing := range list {
		if existing != id {
			out = append(out, existing)
		}
	}
	out = append(out, id)

	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Remove returns list without any occurrence of id. The input slice is not modified.
func Remove[T comparable](list []T, id T) []T {
	out := make([]T, 0, len(list))
	for _, existing := range list {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func coerceInt(raw any) (int64, bool) {
	var f float64
	switch x := raw.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, n > 0
		}
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = x
	case int64:
		return x, x > 0
	case int:
		return int64(x), x > 0
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, n > 0
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f <= 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func coerceString(raw any) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
