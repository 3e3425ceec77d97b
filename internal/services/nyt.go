// NYT Books implementation of [BestsellerSource]
//
// See https://developer.nytimes.com/docs/books-product/1/overview
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/upnext/internal/models"
	"github.com/desertthunder/upnext/internal/shared"
)

const (
	nytBaseURL = "https://api.nytimes.com/svc/books/v3"

	// DefaultBestsellerList is the list served when none is requested.
	DefaultBestsellerList = "hardcover-fiction"
)

var listSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidListName reports whether list is a well-formed NYT list slug (e.g. "combined-print-and-e-book-fiction").
func ValidListName(list string) bool {
	return len(list) <= 64 && listSlug.MatchString(list)
}

// NYTBook is one ranked entry of a bestseller list.
type NYTBook struct {
	Rank             int    `json:"rank"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	Publisher        string `json:"publisher"`
	Description      string `json:"description"`
	BookImage        string `json:"book_image"`
	PrimaryISBN13    string `json:"primary_isbn13"`
	PrimaryISBN10    string `json:"primary_isbn10"`
	AmazonProductURL string `json:"amazon_product_url"`
}

// NYTListResponse is the current edition of one list.
type NYTListResponse struct {
	Status     string `json:"status"`
	NumResults int    `json:"num_results"`
	Results    struct {
		ListName        string    `json:"list_name"`
		DisplayName     string    `json:"display_name"`
		BestsellersDate string    `json:"bestsellers_date"`
		PublishedDate   string    `json:"published_date"`
		Books           []NYTBook `json:"books"`
	} `json:"results"`
}

// NYTService implements [BestsellerSource].
type NYTService struct {
	apiKey   string
	baseURL  string
	upstream *upstream
}

func NewNYTService(cfg shared.NYTConfig, client *http.Client, logger *log.Logger) (*NYTService, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: nyt api_key", shared.ErrMissingCredentials)
	}
	return &NYTService{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(firstNonEmpty(cfg.BaseURL, nytBaseURL), "/"),
		upstream: newUpstream("NYT Books", client, nil, logger),
	}, nil
}

func (s *NYTService) Name() string {
	return "NYT Books"
}

// Bestsellers returns the current edition of list, in rank order.
func (s *NYTService) Bestsellers(ctx context.Context, list string) (*BestsellerList, error) {
	if list == "" {
		list = DefaultBestsellerList
	}
	if !ValidListName(list) {
		return nil, fmt.Errorf("%w: list %q", shared.ErrInvalidInput, list)
	}

	endpoint := s.baseURL + "/lists/current/" + list + ".json?" + url.Values{"api-key": {s.apiKey}}.Encode()

	var response NYTListResponse
	if err := s.upstream.getJSON(ctx, endpoint, nil, &response); err != nil {
		return nil, err
	}

	books := make([]models.Card, 0, len(response.Results.Books))
	for _, b := range response.Results.Books {
		books = append(books, BestsellerCard(b))
	}

	return &BestsellerList{
		Name:  firstNonEmpty(response.Results.DisplayName, response.Results.ListName, list),
		Date:  firstNonEmpty(response.Results.BestsellersDate, response.Results.PublishedDate),
		Books: books,
	}, nil
}
