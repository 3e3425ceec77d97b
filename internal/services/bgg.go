// BoardGameGeek implementation of [Catalog] for board games
//
// XML API2: https://boardgamegeek.com/wiki/page/BGG_XML_API2
package services

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/upnext/internal/models"
	"github.com/desertthunder/upnext/internal/shared"
)

const (
	bggBaseURL = "https://boardgamegeek.com/xmlapi2"

	// bggMaxIDs is the most ids the thing endpoint accepts per request.
	bggMaxIDs = 20
)

// BGGValue is an element carrying its content in a value attribute.
type BGGValue struct {
	Value string `xml:"value,attr"`
}

// BGGName is one of a thing's names. Exactly one has type "primary".
type BGGName struct {
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

// BGGThing is an item from the thing or search endpoints.
type BGGThing struct {
	ID            int64     `xml:"id,attr"`
	Type          string    `xml:"type,attr"`
	Thumbnail     string    `xml:"thumbnail"`
	Image         string    `xml:"image"`
	Names         []BGGName `xml:"name"`
	YearPublished BGGValue  `xml:"yearpublished"`
	MinPlayers    BGGValue  `xml:"minplayers"`
	MaxPlayers    BGGValue  `xml:"maxplayers"`
}

// PrimaryName returns the primary name, or the first name when none is marked primary.
func (t BGGThing) PrimaryName() string {
	for _, n := range t.Names {
		if n.Type == "primary" {
			return n.Value
		}
	}
	if len(t.Names) > 0 {
		return t.Names[0].Value
	}
	return ""
}

type bggItems struct {
	XMLName xml.Name   `xml:"items"`
	Total   int        `xml:"total,attr"`
	Items   []BGGThing `xml:"item"`
}

// BGGService implements [Catalog] for board games.
//
// BGG throttles aggressively, so requests are paced (2 per second by default).
// The token is optional; registered applications send it as a bearer token.
type BGGService struct {
	token    string
	baseURL  string
	upstream *upstream
}

// NewBGGService creates a BoardGameGeek client.
func NewBGGService(cfg shared.BGGConfig, client *http.Client, logger *log.Logger) *BGGService {
	return &BGGService{
		token:    cfg.Token,
		baseURL:  strings.TrimRight(firstNonEmpty(cfg.BaseURL, bggBaseURL), "/"),
		upstream: newUpstream("BoardGameGeek", client, newLimiter(cfg.RequestsPerSecond, 2), logger),
	}
}

func (s *BGGService) Name() string {
	return "BoardGameGeek"
}

func (s *BGGService) get(ctx context.Context, path string, params url.Values) ([]BGGThing, error) {
	header := http.Header{}
	header.Set("Accept", "application/xml")
	if s.token != "" {
		header.Set("Authorization", "Bearer "+s.token)
	}

	data, err := s.upstream.fetch(ctx, http.MethodGet, s.baseURL+path+"?"+params.Encode(), "", header)
	if err != nil {
		return nil, err
	}

	var items bggItems
	if err := xml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: BoardGameGeek: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	return items.Items, nil
}

// Things retrieves board games by id in batches of 20.
func (s *BGGService) Things(ctx context.Context, ids []int64) ([]BGGThing, error) {
	var things []BGGThing
	for _, batch := range chunk(ids, bggMaxIDs) {
		parts := make([]string, len(batch))
		for i, id := range batch {
			parts[i] = strconv.FormatInt(id, 10)
		}

		found, err := s.get(ctx, "/thing", url.Values{
			"id":   {strings.Join(parts, ",")},
			"type": {"boardgame"},
		})
		if err != nil {
			return nil, err
		}
		things = append(things, found...)
	}
	return things, nil
}

// Lookup retrieves board games by id, in the order of ids.
func (s *BGGService) Lookup(ctx context.Context, ids []int64) ([]models.Card, error) {
	if len(ids) == 0 {
		return []models.Card{}, nil
	}

	things, err := s.Things(ctx, ids)
	if err != nil {
		return nil, err
	}

	cards := make([]models.Card, 0, len(things))
	for _, t := range things {
		cards = append(cards, BoardGameCard(t))
	}
	return orderByIDs(cards, ids), nil
}

// Search finds board games by name. Results carry no images.
func (s *BGGService) Search(ctx context.Context, query string) ([]models.Card, error) {
	things, err := s.get(ctx, "/search", url.Values{
		"query": {query},
		"type":  {"boardgame"},
	})
	if err != nil {
		return nil, err
	}

	cards := make([]models.Card, 0, len(things))
	for _, t := range things {
		cards = append(cards, BoardGameCard(t))
	}
	return cards, nil
}
