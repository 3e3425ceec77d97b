package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/upnext/internal/models"
	"github.com/desertthunder/upnext/internal/services"
	"github.com/desertthunder/upnext/internal/shared"
	tu "github.com/desertthunder/upnext/internal/testing"
)

type listFixture struct {
	router *BasicRouter
	games  *tu.FakeCatalog[int64]
	boards *tu.FakeCatalog[int64]
	movies *tu.FakeCatalog[int64]
	books  *tu.FakeCatalog[string]
}

func newListFixture(t *testing.T, mutate func(*shared.Config)) *listFixture {
	t.Helper()
	cfg := shared.DefaultConfig()
	cfg.Features.ProxyImages = false
	if mutate != nil {
		mutate(cfg)
	}

	image := "https://images.igdb.com/igdb/image/upload/t_cover_big/co1.jpg"
	witcher := tu.NewCard(models.KindGame, int64(1942), "The Witcher 3")
	witcher.ImageURL = &image

	f := &listFixture{
		games: tu.NewFakeCatalog("IGDB", map[int64]models.Card{
			1942: witcher,
			1020: tu.NewCard(models.KindGame, int64(1020), "GTA V"),
		}),
		boards: tu.NewFakeCatalog("BGG", map[int64]models.Card{
			13: tu.NewCard(models.KindBoard, int64(13), "CATAN"),
		}),
		movies: tu.NewFakeCatalog("TMDB", map[int64]models.Card{
			603: tu.NewCard(models.KindMovie, int64(603), "The Matrix"),
		}),
		books: tu.NewFakeCatalog("Google Books", map[string]models.Card{
			"zyTCAlFPjgYC": tu.NewCard(models.KindBook, "zyTCAlFPjgYC", "The Google Story"),
		}),
	}
	f.router = New(Options{
		Config: cfg,
		Logger: shared.NewLogger(io.Discard),
		Catalogs: services.Catalogs{
			Games:      f.games,
			BoardGames: f.boards,
			Movies:     f.movies,
			Books:      f.books,
		},
	})
	return f
}

func (f *listFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func withCookie(req *http.Request, name, raw string) *http.Request {
	req.AddCookie(&http.Cookie{Name: name, Value: url.QueryEscape(raw)})
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	return body
}

func titles(t *testing.T, raw json.RawMessage) []string {
	t.Helper()
	var cards []models.Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		t.Fatalf("failed to decode cards: %v", err)
	}
	out := []string{}
	for _, c := range cards {
		out = append(out, c.Title)
	}
	return out
}

func TestWatchlistGet(t *testing.T) {
	t.Run("no cookie", func(t *testing.T) {
		f := newListFixture(t, nil)
		rec := f.do(httptest.NewRequest(http.MethodGet, "/api/watchlist", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if string(body["ids"]) != "[]" || string(body["games"]) != "[]" {
			t.Errorf("unexpected body ids=%s games=%s", body["ids"], body["games"])
		}
		if len(f.games.Lookups()) != 0 {
			t.Error("expected no upstream lookup for empty list")
		}
	})

	t.Run("video games in cookie order", func(t *testing.T) {
		f := newListFixture(t, nil)
		req := withCookie(httptest.NewRequest(http.MethodGet, "/api/watchlist?type=video", nil), "game_watchlist", "[1020,9999,1942]")
		rec := f.do(req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if cc := rec.Header().Get("Cache-Control"); cc != cachePrivate {
			t.Errorf("expected %q, got %q", cachePrivate, cc)
		}

		body := decodeBody(t, rec)
		if string(body["ids"]) != "[1020,9999,1942]" {
			t.Errorf("unexpected ids %s", body["ids"])
		}
		if got := titles(t, body["games"]); !reflect.DeepEqual(got, []string{"GTA V", "The Witcher 3"}) {
			t.Errorf("unexpected games %v", got)
		}
		if lookups := f.games.Lookups(); len(lookups) != 1 || !reflect.DeepEqual(lookups[0], []int64{1020, 9999, 1942}) {
			t.Errorf("unexpected lookups %v", lookups)
		}
	})

	t.Run("board games", func(t *testing.T) {
		f := newListFixture(t, nil)
		req := withCookie(httptest.NewRequest(http.MethodGet, "/api/watchlist?type=board", nil), "board_watchlist", "[13]")
		body := decodeBody(t, f.do(req))

		if got := titles(t, body["games"]); !reflect.DeepEqual(got, []string{"CATAN"}) {
			t.Errorf("unexpected games %v", got)
		}
	})

	t.Run("movies", func(t *testing.T) {
		f := newListFixture(t, nil)
		req := withCookie(httptest.NewRequest(http.MethodGet, "/api/watchlist?type=movie", nil), "movie_watchlist", "[603]")
		body := decodeBody(t, f.do(req))

		if got := titles(t, body["movies"]); !reflect.DeepEqual(got, []string{"The Matrix"}) {
			t.Errorf("unexpected movies %v", got)
		}
	})

	t.Run("garbage cookie is an empty list", func(t *testing.T) {
		f := newListFixture(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/watchlist", nil)
		req.AddCookie(&http.Cookie{Name: "game_watchlist", Value: "%7Bbad%7D"})
		body := decodeBody(t, f.do(req))

		if string(body["ids"]) != "[]" {
			t.Errorf("expected empty ids, got %s", body["ids"])
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		f := newListFixture(t, nil)
		f.games.Err = shared.ErrServiceUnavailable
		req := withCookie(httptest.NewRequest(http.MethodGet, "/api/watchlist", nil), "game_watchlist", "[1942]")
		rec := f.do(req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if cc := rec.Header().Get("Cache-Control"); cc != cacheNoStore {
			t.Errorf("expected no-store, got %q", cc)
		}
		body := decodeBody(t, rec)
		if string(body["ids"]) != "[1942]" || string(body["games"]) != "[]" {
			t.Errorf("unexpected body ids=%s games=%s", body["ids"], body["games"])
		}
		if len(body["error"]) == 0 {
			t.Error("expected error message")
		}
	})

	t.Run("unconfigured catalog", func(t *testing.T) {
		router := New(Options{Config: shared.DefaultConfig(), Logger: shared.NewLogger(io.Discard)})
		req := withCookie(httptest.NewRequest(http.MethodGet, "/api/watchlist?type=movie", nil), "movie_watchlist", "[603]")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("invalid type", func(t *testing.T) {
		f := newListFixture(t, nil)
		rec := f.do(httptest.NewRequest(http.MethodGet, "/api/watchlist?type=podcast", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("proxied images", func(t *testing.T) {
		f := newListFixture(t, func(cfg *shared.Config) { cfg.Features.ProxyImages = true })
		req := withCookie(httptest.NewRequest(http.MethodGet, "/api/watchlist", nil), "game_watchlist", "[1942]")
		body := decodeBody(t, f.do(req))

		var cards []models.Card
		json.Unmarshal(body["games"], &cards)
		if len(cards) != 1 || !strings.HasPrefix(models.Deref(cards[0].ImageURL), ImagePath+"?url=https%3A%2F%2Fimages.igdb.com") {
			t.Errorf("expected proxied image, got %+v", cards)
		}
	})
}

func TestWatchlistPost(t *testing.T) {
	post := func(path, body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	cookieFrom := func(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
		t.Helper()
		for _, c := range rec.Result().Cookies() {
			if c.Name == name {
				return c
			}
		}
		t.Fatalf("expected %s cookie to be set", name)
		return nil
	}

	t.Run("add sets cookie", func(t *testing.T) {
		f := newListFixture(t, nil)
		rec := f.do(withCookie(post("/api/watchlist", `{"action":"add","id":1942}`), "game_watchlist", "[1942,1020]"))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if cc := rec.Header().Get("Cache-Control"); cc != cacheNoStore {
			t.Errorf("expected no-store, got %q", cc)
		}

		body := decodeBody(t, rec)
		if string(body["ids"]) != "[1020,1942]" {
			t.Errorf("expected moved to end, got %s", body["ids"])
		}
		if string(body["variant"]) != `"success"` || string(body["message"]) != `"Added to watchlist"` {
			t.Errorf("unexpected message/variant %s %s", body["message"], body["variant"])
		}

		c := cookieFrom(t, rec, "game_watchlist")
		if v, _ := url.QueryUnescape(c.Value); v != "[1020,1942]" {
			t.Errorf("unexpected cookie value %q", v)
		}
		if c.Path != "/" || c.MaxAge != 31536000 || c.SameSite != http.SameSiteLaxMode || !c.HttpOnly {
			t.Errorf("unexpected cookie attributes %+v", c)
		}
		if c.Secure {
			t.Error("expected insecure cookie outside production")
		}
	})

	t.Run("remove", func(t *testing.T) {
		f := newListFixture(t, nil)
		rec := f.do(withCookie(post("/api/watchlist?type=movie", `{"action":"remove","id":603}`), "movie_watchlist", "[603,550]"))

		body := decodeBody(t, rec)
		if string(body["ids"]) != "[550]" || string(body["variant"]) != `"info"` {
			t.Errorf("unexpected body %s %s", body["ids"], body["variant"])
		}
	})

	t.Run("type in body", func(t *testing.T) {
		f := newListFixture(t, nil)
		rec := f.do(post("/api/watchlist", `{"action":"add","id":"13","type":"board"}`))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		cookieFrom(t, rec, "board_watchlist")
	})

	t.Run("secure in production", func(t *testing.T) {
		f := newListFixture(t, func(cfg *shared.Config) { cfg.Server.Environment = shared.EnvProduction })
		rec := f.do(post("/api/watchlist", `{"action":"add","id":1}`))

		if c := cookieFrom(t, rec, "game_watchlist"); !c.Secure {
			t.Error("expected secure cookie in production")
		}
	})

	t.Run("cap keeps most recent", func(t *testing.T) {
		f := newListFixture(t, func(cfg *shared.Config) { cfg.Limits.Movies = 2 })
		rec := f.do(withCookie(post("/api/watchlist?type=movie", `{"action":"add","id":3}`), "movie_watchlist", "[1,2]"))

		if body := decodeBody(t, rec); string(body["ids"]) != "[2,3]" {
			t.Errorf("unexpected ids %s", body["ids"])
		}
	})

	tests := []struct {
		name string
		body string
		path string
	}{
		{name: "malformed body", body: `{"action":`, path: "/api/watchlist"},
		{name: "unknown action", body: `{"action":"toggle","id":1}`, path: "/api/watchlist"},
		{name: "missing id", body: `{"action":"add"}`, path: "/api/watchlist"},
		{name: "negative id", body: `{"action":"add","id":-4}`, path: "/api/watchlist"},
		{name: "id beyond int64", body: `{"action":"add","id":9223372036854775808}`, path: "/api/watchlist"},
		{name: "fractional id", body: `{"action":"add","id":1.5}`, path: "/api/watchlist"},
		{name: "non-numeric id", body: `{"action":"add","id":"abc"}`, path: "/api/watchlist"},
		{name: "unknown type", body: `{"action":"add","id":1,"type":"podcast"}`, path: "/api/watchlist"},
		{name: "blank book id", body: `{"action":"add","id":"  "}`, path: "/api/bookshelf"},
		{name: "numeric book id", body: `{"action":"add","id":5}`, path: "/api/bookshelf"},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			f := newListFixture(t, nil)
			rec := f.do(post(tt.path, tt.body))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if len(rec.Result().Cookies()) != 0 {
				t.Error("expected no cookie on rejected mutation")
			}
			if len(decodeBody(t, rec)["error"]) == 0 {
				t.Error("expected error message")
			}
		})
	}
}

func TestBookshelf(t *testing.T) {
	t.Run("GET", func(t *testing.T) {
		f := newListFixture(t, nil)
		req := withCookie(httptest.NewRequest(http.MethodGet, "/api/bookshelf", nil), "bookshelf", `["zyTCAlFPjgYC","gone"]`)
		body := decodeBody(t, f.do(req))

		if got := titles(t, body["books"]); !reflect.DeepEqual(got, []string{"The Google Story"}) {
			t.Errorf("unexpected books %v", got)
		}
	})

	t.Run("POST add", func(t *testing.T) {
		f := newListFixture(t, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/bookshelf", strings.NewReader(`{"action":"add","id":"abc"}`))
		rec := f.do(req)

		body := decodeBody(t, rec)
		if string(body["ids"]) != `["abc"]` || string(body["message"]) != `"Added to bookshelf"` {
			t.Errorf("unexpected body %s %s", body["ids"], body["message"])
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		f := newListFixture(t, nil)
		f.books.Err = errors.New("boom")
		req := withCookie(httptest.NewRequest(http.MethodGet, "/api/bookshelf", nil), "bookshelf", `["a"]`)
		rec := f.do(req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if body := decodeBody(t, rec); string(body["books"]) != "[]" {
			t.Errorf("expected empty books, got %s", body["books"])
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		f := newListFixture(t, nil)
		rec := f.do(httptest.NewRequest(http.MethodDelete, "/api/bookshelf", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}
