package services

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/upnext/internal/models"
	"github.com/desertthunder/upnext/internal/shared"
)

// Searcher finds catalog entities by free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Card, error)
}

// Lookup fetches catalog entities by identifier.
//
// Cards come back in the order of ids. Identifiers unknown upstream are skipped; any other
// upstream failure fails the whole lookup.
type Lookup[T models.ID] interface {
	Lookup(ctx context.Context, ids []T) ([]models.Card, error)
}

// Catalog is a searchable, id-addressable upstream catalog.
type Catalog[T models.ID] interface {
	Searcher
	Lookup[T]
	Name() string // Name returns the upstream name (e.g. "TMDB")
}

// BestsellerSource returns ranked bestseller lists.
type BestsellerSource interface {
	Bestsellers(ctx context.Context, list string) (*BestsellerList, error)
}

// ReviewSource returns recently reviewed games.
type ReviewSource interface {
	ReviewedThisWeek(ctx context.Context) ([]models.Card, error)
}

// BestsellerList is one ranked NYT list mapped to cards.
type BestsellerList struct {
	Name  string        `json:"name"`
	Date  string        `json:"date"`
	Books []models.Card `json:"books"`
}

// Catalogs bundles every configured upstream. Fields are nil when the upstream lacks credentials.
type Catalogs struct {
	Movies      Catalog[int64]
	Games       Catalog[int64]
	BoardGames  Catalog[int64]
	Books       Catalog[string]
	Bestsellers BestsellerSource
	Reviews     ReviewSource
}

// Searcher returns the catalog searching entities of kind k, or nil when it is not configured.
func (c Catalogs) Searcher(k models.Kind) Searcher {
	switch k {
	case models.KindMovie:
		if c.Movies != nil {
			return c.Movies
		}
	case models.KindGame:
		if c.Games != nil {
			return c.Games
		}
	case models.KindBoard:
		if c.BoardGames != nil {
			return c.BoardGames
		}
	case models.KindBook:
		if c.Books != nil {
			return c.Books
		}
	}
	return nil
}

// NewCatalogs builds a client for every upstream the config has credentials for.
//
// BoardGameGeek and Google Books work without credentials and are always built.
func NewCatalogs(cfg *shared.Config, client *http.Client, logger *log.Logger) Catalogs {
	if client == nil {
		client = &http.Client{Timeout: cfg.HTTP.Timeout()}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	var catalogs Catalogs
	creds := cfg.Credentials

	if svc, err := NewTMDBService(creds.TMDB, client, logger); err == nil {
		catalogs.Movies = svc
	} else {
		logger.Warn("movie catalog disabled", "error", err)
	}

	if svc, err := NewIGDBService(creds.IGDB, client, logger); err == nil {
		catalogs.Games = svc
	} else {
		logger.Warn("video game catalog disabled", "error", err)
	}

	catalogs.BoardGames = NewBGGService(creds.BGG, client, logger)
	catalogs.Books = NewGoogleBooksService(creds.GoogleBooks, client, logger)

	if svc, err := NewOpenCriticService(creds.OpenCritic, client, logger); err == nil {
		catalogs.Reviews = svc
	} else {
		logger.Warn("reviews disabled", "error", err)
	}

	if svc, err := NewNYTService(creds.NYT, client, logger); err == nil {
		catalogs.Bestsellers = svc
	} else {
		logger.Warn("bestsellers disabled", "error", err)
	}

	return catalogs
}
