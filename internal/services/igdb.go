// IGDB implementation of [Catalog] for video games
//
// IGDB v4 takes Apicalypse query bodies and authenticates with a Twitch app access token
// (OAuth2 client credentials). See https://api-docs.igdb.com
package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/upnext/internal/models"
	"github.com/desertthunder/upnext/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	igdbBaseURL  = "https://api.igdb.com/v4"
	igdbTokenURL = "https://id.twitch.tv/oauth2/token"

	// igdbMaxLimit is the largest result limit IGDB accepts per query.
	igdbMaxLimit = 500
	igdbFields   = "fields name,slug,summary,first_release_date,total_rating,cover.image_id,platforms.name,platforms.abbreviation;"
)

// IGDBImage is an expanded cover reference.
type IGDBImage struct {
	ID      int64  `json:"id"`
	ImageID string `json:"image_id"`
}

// IGDBPlatform is an expanded platform reference.
type IGDBPlatform struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// IGDBGame is a game record with expanded cover and platforms.
type IGDBGame struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	Slug             string         `json:"slug"`
	Summary          string         `json:"summary"`
	FirstReleaseDate int64          `json:"first_release_date"` // unix seconds
	TotalRating      float64        `json:"total_rating"`
	Cover            *IGDBImage     `json:"cover"`
	Platforms        []IGDBPlatform `json:"platforms"`
}

// IGDBService implements [Catalog] for video games.
//
// Lookups are a single batched `where id = (...)` query. Requests are paced to the
// configured rate (IGDB allows 4 per second).
type IGDBService struct {
	clientID string
	baseURL  string
	upstream *upstream
}

// NewIGDBService creates an IGDB client whose HTTP client fetches and refreshes the Twitch app token.
//
// client supplies the transport and timeout for both token and API requests.
func NewIGDBService(cfg shared.IGDBConfig, client *http.Client, logger *log.Logger) (*IGDBService, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, fmt.Errorf("%w: igdb client_id and client_secret", shared.ErrMissingCredentials)
	}
	if client == nil {
		client = http.DefaultClient
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     firstNonEmpty(cfg.TokenURL, igdbTokenURL),
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
	authed := cc.Client(tokenCtx)
	authed.Timeout = client.Timeout

	return &IGDBService{
		clientID: cfg.ClientID,
		baseURL:  strings.TrimRight(firstNonEmpty(cfg.BaseURL, igdbBaseURL), "/"),
		upstream: newUpstream("IGDB", authed, newLimiter(cfg.RequestsPerSecond, 4), logger),
	}, nil
}

func (s *IGDBService) Name() string {
	return "IGDB"
}

// query posts an Apicalypse body to the games endpoint.
func (s *IGDBService) query(ctx context.Context, body string) ([]IGDBGame, error) {
	header := http.Header{}
	header.Set("Client-ID", s.clientID)
	header.Set("Content-Type", "text/plain")

	data, err := s.upstream.fetch(ctx, http.MethodPost, s.baseURL+"/games", body, header)
	if err != nil {
		return nil, err
	}

	var games []IGDBGame
	if err := s.upstream.decode(data, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// Games retrieves games by id in batches of at most 500.
func (s *IGDBService) Games(ctx context.Context, ids []int64) ([]IGDBGame, error) {
	var games []IGDBGame
	for _, batch := range chunk(ids, igdbMaxLimit) {
		found, err := s.query(ctx, lookupQuery(batch))
		if err != nil {
			return nil, err
		}
		games = append(games, found...)
	}
	return games, nil
}

// Lookup retrieves games by id, in the order of ids.
func (s *IGDBService) Lookup(ctx context.Context, ids []int64) ([]models.Card, error) {
	if len(ids) == 0 {
		return []models.Card{}, nil
	}

	games, err := s.Games(ctx, ids)
	if err != nil {
		return nil, err
	}

	cards := make([]models.Card, 0, len(games))
	for _, g := range games {
		cards = append(cards, GameCard(g))
	}
	return orderByIDs(cards, ids), nil
}

// Search finds main games (no editions or ports) by name.
func (s *IGDBService) Search(ctx context.Context, query string) ([]models.Card, error) {
	games, err := s.query(ctx, searchQuery(query, 20))
	if err != nil {
		return nil, err
	}

	cards := make([]models.Card, 0, len(games))
	for _, g := range games {
		cards = append(cards, GameCard(g))
	}
	return cards, nil
}

func lookupQuery(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("%s where id = (%s); limit %d;", igdbFields, strings.Join(parts, ","), len(ids))
}

// searchQuery builds a search body. Quotes and backslashes are stripped from the term since
// Apicalypse has no escaping.
func searchQuery(term string, limit int) string {
	term = strings.NewReplacer(`"`, "", `\`, "").Replace(strings.TrimSpace(term))
	return fmt.Sprintf(`search "%s"; %s where version_parent = null; limit %d;`, term, igdbFields, limit)
}
