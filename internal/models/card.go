// package models defines the view models for the release tracker API
package models

import (
	"fmt"
	"net/url"
	"strings"
)

// ID constrains saved-item identifiers: catalog ids (movies, video games, board games) or opaque strings (books).
type ID interface {
	~int64 | ~string
}

// Kind identifies the catalog a [Card] comes from.
type Kind string

const (
	KindMovie Kind = "movie"
	KindGame  Kind = "game"
	KindBoard Kind = "board"
	KindBook  Kind = "book"
)

// Kinds lists every valid [Kind] in display order.
var Kinds = []Kind{KindMovie, KindGame, KindBoard, KindBook}

// ParseKind parses a kind name, accepting the aliases used in query strings ("video" for games).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return KindMovie, nil
	case "game", "games", "video":
		return KindGame, nil
	case "board", "boardgame", "board-game":
		return KindBoard, nil
	case "book", "books":
		return KindBook, nil
	default:
		return "", fmt.Errorf("unknown kind %q", s)
	}
}

// Path returns the site path segment for pages of this kind.
func (k Kind) Path() string {
	switch k {
	case KindMovie:
		return "movies"
	case KindGame:
		return "games"
	case KindBoard:
		return "board-games"
	case KindBook:
		return "books"
	default:
		return string(k)
	}
}

// Card is the uniform display shape for a catalog entity.
//
// ImageURL and ReleaseDate are nil when the upstream record has no value for them.
type Card struct {
	ID          string  `json:"id"`
	Kind        Kind    `json:"kind"`
	Title       string  `json:"title"`
	ImageURL    *string `json:"imageUrl"`
	ReleaseDate *string `json:"releaseDate"`
	Href        string  `json:"href"`
	Subtitle    string  `json:"subtitle,omitempty"`
	Score       *int    `json:"score,omitempty"`
}

// Href builds the detail page link for an entity of kind k.
func Href(k Kind, id string) string {
	return "/" + k.Path() + "/" + url.PathEscape(id)
}

// Proxied returns a copy of c whose image is served through the image proxy mounted at prefix.
func (c Card) Proxied(prefix string) Card {
	if c.ImageURL == nil || *c.ImageURL == "" {
		return c
	}
	proxied := prefix + "?url=" + url.QueryEscape(*c.ImageURL)
	c.ImageURL = &proxied
	return c
}

// ProxyAll applies [Card.Proxied] to every card in place and returns the slice.
func ProxyAll(cards []Card, prefix string) []Card {
	for i := range cards {
		cards[i] = cards[i].Proxied(prefix)
	}
	return cards
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
