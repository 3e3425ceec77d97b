// TMDB implementation of [Catalog] for movies
//
// Response types based on https://developer.themoviedb.org/reference
package services

import (
	"context"
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
	tmdbBaseURL      = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p/w500"
)

// TMDBGenre is a movie genre.
type TMDBGenre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TMDBMovie is a movie record from the details or search endpoints.
type TMDBMovie struct {
	ID            int64       `json:"id"`
	Title         string      `json:"title"`
	OriginalTitle string      `json:"original_title"`
	Overview      string      `json:"overview"`
	PosterPath    *string     `json:"poster_path"`
	BackdropPath  *string     `json:"backdrop_path"`
	ReleaseDate   string      `json:"release_date"`
	VoteAverage   float64     `json:"vote_average"`
	Genres        []TMDBGenre `json:"genres"`
}

// TMDBSearchResponse is a page of movie search results.
type TMDBSearchResponse struct {
	Page         int         `json:"page"`
	Results      []TMDBMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// TMDBService implements [Catalog] for movies.
//
// TMDB has no multi-id lookup, so [TMDBService.Lookup] fans out one request per id.
type TMDBService struct {
	apiKey    string
	baseURL   string
	imageBase string
	upstream  *upstream
}

// NewTMDBService creates a TMDB client. The key may be a v3 API key or a v4 read access token.
func NewTMDBService(cfg shared.TMDBConfig, client *http.Client, logger *log.Logger) (*TMDBService, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: tmdb api_key", shared.ErrMissingCredentials)
	}

	return &TMDBService{
		apiKey:    cfg.APIKey,
		baseURL:   strings.TrimRight(firstNonEmpty(cfg.BaseURL, tmdbBaseURL), "/"),
		imageBase: firstNonEmpty(cfg.ImageBaseURL, tmdbImageBaseURL),
		upstream:  newUpstream("TMDB", client, nil, logger),
	}, nil
}

func (s *TMDBService) Name() string {
	return "TMDB"
}

// endpoint builds a request URL and header. v4 tokens (JWTs) go in the Authorization header,
// v3 keys in the query string.
func (s *TMDBService) endpoint(path string, params url.Values) (string, http.Header) {
	if params == nil {
		params = url.Values{}
	}
	header := http.Header{}
	if strings.HasPrefix(s.apiKey, "eyJ") {
		header.Set("Authorization", "Bearer "+s.apiKey)
	} else {
		params.Set("api_key", s.apiKey)
	}
	if len(params) == 0 {
		return s.baseURL + path, header
	}
	return s.baseURL + path + "?" + params.Encode(), header
}

// Movie retrieves a single movie by id.
func (s *TMDBService) Movie(ctx context.Context, id int64) (*TMDBMovie, error) {
	endpoint, header := s.endpoint("/movie/"+strconv.FormatInt(id, 10), nil)

	var movie TMDBMovie
	if err := s.upstream.getJSON(ctx, endpoint, header, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Lookup retrieves movies by id, concurrently.
func (s *TMDBService) Lookup(ctx context.Context, ids []int64) ([]models.Card, error) {
	return fanOut(ctx, ids, func(ctx context.Context, id int64) (models.Card, error) {
		movie, err := s.Movie(ctx, id)
		if err != nil {
			return models.Card{}, err
		}
		return MovieCard(*movie, s.imageBase), nil
	})
}

// Search finds movies by title.
func (s *TMDBService) Search(ctx context.Context, query string) ([]models.Card, error) {
	endpoint, header := s.endpoint("/search/movie", url.Values{
		"query":         {query},
		"include_adult": {"false"},
	})

	var response TMDBSearchResponse
	if err := s.upstream.getJSON(ctx, endpoint, header, &response); err != nil {
		return nil, err
	}

	cards := make([]models.Card, 0, len(response.Results))
	for _, m := range response.Results {
		cards = append(cards, MovieCard(m, s.imageBase))
	}
	return cards, nil
}
