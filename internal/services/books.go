// Google Books implementation of [Catalog] for books
//
// See https://developers.google.com/books/docs/v1/reference/volumes
package services

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/upnext/internal/models"
	"github.com/desertthunder/upnext/internal/shared"
)

const googleBooksBaseURL = "https://www.googleapis.com/books/v1"

// GoogleImageLinks holds cover URLs, usually served over http.
type GoogleImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

// GoogleVolumeInfo is the bibliographic part of a volume.
type GoogleVolumeInfo struct {
	Title         string            `json:"title"`
	Subtitle      string            `json:"subtitle"`
	Authors       []string          `json:"authors"`
	Publisher     string            `json:"publisher"`
	PublishedDate string            `json:"publishedDate"`
	Description   string            `json:"description"`
	PageCount     int               `json:"pageCount"`
	ImageLinks    *GoogleImageLinks `json:"imageLinks"`
}

// GoogleVolume is a Google Books volume.
type GoogleVolume struct {
	ID         string           `json:"id"`
	VolumeInfo GoogleVolumeInfo `json:"volumeInfo"`
}

// GoogleVolumesResponse is a page of volume search results. Items is absent when nothing matched.
type GoogleVolumesResponse struct {
	TotalItems int            `json:"totalItems"`
	Items      []GoogleVolume `json:"items"`
}

// GoogleBooksService implements [Catalog] for books. The API key is optional.
type GoogleBooksService struct {
	apiKey   string
	baseURL  string
	upstream *upstream
}

func NewGoogleBooksService(cfg shared.GoogleBooksConfig, client *http.Client, logger *log.Logger) *GoogleBooksService {
	return &GoogleBooksService{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(firstNonEmpty(cfg.BaseURL, googleBooksBaseURL), "/"),
		upstream: newUpstream("Google Books", client, nil, logger),
	}
}

func (s *GoogleBooksService) Name() string {
	return "Google Books"
}

func (s *GoogleBooksService) endpoint(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	if s.apiKey != "" {
		params.Set("key", s.apiKey)
	}
	if len(params) == 0 {
		return s.baseURL + path
	}
	return s.baseURL + path + "?" + params.Encode()
}

// Volume retrieves a single volume by id.
func (s *GoogleBooksService) Volume(ctx context.Context, id string) (*GoogleVolume, error) {
	var volume GoogleVolume
	if err := s.upstream.getJSON(ctx, s.endpoint("/volumes/"+url.PathEscape(id), nil), nil, &volume); err != nil {
		return nil, err
	}
	return &volume, nil
}

// Lookup retrieves volumes by id, concurrently.
func (s *GoogleBooksService) Lookup(ctx context.Context, ids []string) ([]models.Card, error) {
	return fanOut(ctx, ids, func(ctx context.Context, id string) (models.Card, error) {
		volume, err := s.Volume(ctx, id)
		if err != nil {
			return models.Card{}, err
		}
		return BookCard(*volume), nil
	})
}

// Search finds books. query accepts Google's field prefixes (intitle:, inauthor:, isbn:).
func (s *GoogleBooksService) Search(ctx context.Context, query string) ([]models.Card, error) {
	endpoint := s.endpoint("/volumes", url.Values{
		"q":          {query},
		"maxResults": {"20"},
		"printType":  {"books"},
	})

	var response GoogleVolumesResponse
	if err := s.upstream.getJSON(ctx, endpoint, nil, &response); err != nil {
		return nil, err
	}

	cards := make([]models.Card, 0, len(response.Items))
	for _, v := range response.Items {
		cards = append(cards, BookCard(v))
	}
	return cards, nil
}
