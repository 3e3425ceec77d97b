// OpenCritic implementation of [ReviewSource], served through RapidAPI
package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/upnext/internal/models"
	"github.com/desertthunder/upnext/internal/shared"
)

const openCriticHost = "opencritic-api.p.rapidapi.com"

// OpenCriticImage holds image paths relative to img.opencritic.com.
type OpenCriticImage struct {
	Og string `json:"og"`
	Sm string `json:"sm"`
}

// OpenCriticImages are the artwork variants of a game.
type OpenCriticImages struct {
	Box    *OpenCriticImage `json:"box"`
	Banner *OpenCriticImage `json:"banner"`
}

// OpenCriticGame is a game summary from the list endpoints.
type OpenCriticGame struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	FirstReleaseDate string           `json:"firstReleaseDate"` // RFC 3339
	TopCriticScore   float64          `json:"topCriticScore"`   // -1 when unscored
	Tier             string           `json:"tier"`
	Images           OpenCriticImages `json:"images"`
}

// OpenCriticService implements [ReviewSource].
type OpenCriticService struct {
	apiKey   string
	host     string
	baseURL  string
	upstream *upstream
}

// NewOpenCriticService creates an OpenCritic client. A RapidAPI key is required.
func NewOpenCriticService(cfg shared.OpenCriticConfig, client *http.Client, logger *log.Logger) (*OpenCriticService, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: opencritic api_key", shared.ErrMissingCredentials)
	}

	host := firstNonEmpty(cfg.Host, openCriticHost)
	return &OpenCriticService{
		apiKey:   cfg.APIKey,
		host:     host,
		baseURL:  strings.TrimRight(firstNonEmpty(cfg.BaseURL, "https://"+host), "/"),
		upstream: newUpstream("OpenCritic", client, nil, logger),
	}, nil
}

func (s *OpenCriticService) Name() string {
	return "OpenCritic"
}

// ReviewedThisWeek returns the games that received reviews in the last seven days.
func (s *OpenCriticService) ReviewedThisWeek(ctx context.Context) ([]models.Card, error) {
	header := http.Header{}
	header.Set("X-RapidAPI-Key", s.apiKey)
	header.Set("X-RapidAPI-Host", s.host)

	var games []OpenCriticGame
	if err := s.upstream.getJSON(ctx, s.baseURL+"/game/reviewed-this-week", header, &games); err != nil {
		return nil, err
	}

	cards := make([]models.Card, 0, len(games))
	for _, g := range games {
		cards = append(cards, ReviewedCard(g))
	}
	return cards, nil
}
