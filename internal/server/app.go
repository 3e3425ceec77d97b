package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/upnext/internal/models"
	"github.com/desertthunder/upnext/internal/services"
	"github.com/desertthunder/upnext/internal/shared"
	"github.com/desertthunder/upnext/internal/shelf"
)

// Options holds the dependencies of the API.
type Options struct {
	Config     *shared.Config
	Logger     *log.Logger
	Catalogs   services.Catalogs
	HTTPClient *http.Client // used by the image proxy; defaults to a client with the configured timeout
}

// New builds the API router: list endpoints, image proxy, discovery routes and health check,
// wrapped in request id, logging and recovery middleware.
//
// Discovery routes are only registered when their feature flag is on and the upstream is
// configured, so disabled routes answer 404.
func New(opts Options) *BasicRouter {
	cfg := opts.Config
	if cfg == nil {
		cfg = shared.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.HTTP.Timeout()}
	}

	proxy := ""
	if cfg.Features.ProxyImages {
		proxy = ImagePath
	}
	secure := cfg.Server.Production()
	catalogs := opts.Catalogs

	router := NewBasicRouter()
	router.Use(RequestID(), Logger(logger), Recover(logger))

	router.Handler(NewWatchlistHandler(cfg, catalogs, proxy, secure, logger))
	router.Handler(NewBookshelfHandler(cfg, catalogs, proxy, secure, logger))
	router.Handler(NewImageProxy(cfg.Proxy, client, logger))
	router.Handler(&SearchHandler{catalogs: catalogs, ttl: cfg.Cache.SearchTTL, proxy: proxy, logger: logger})
	router.Handler(&HealthHandler{catalogs: catalogs})

	if cfg.Features.Bestsellers && catalogs.Bestsellers != nil {
		router.Handler(&BestsellersHandler{source: catalogs.Bestsellers, ttl: cfg.Cache.ListTTL, proxy: proxy, logger: logger})
	}
	if cfg.Features.Reviews && catalogs.Reviews != nil {
		router.Handler(&ReviewedHandler{source: catalogs.Reviews, ttl: cfg.Cache.ListTTL, proxy: proxy, logger: logger})
	}

	return router
}

// NewWatchlistHandler serves /api/watchlist for video games (the default type), board games and movies.
func NewWatchlistHandler(cfg *shared.Config, catalogs services.Catalogs, proxy string, secure bool, logger *log.Logger) *ListHandler {
	return &ListHandler{
		path:        "/api/watchlist",
		defaultKind: models.KindGame,
		lists: map[models.Kind]listEndpoint{
			models.KindGame: &cookieList[int64]{
				variant: shelf.VideoGames.WithCap(cfg.Limits.VideoGames),
				catalog: lookupOrNil(catalogs.Games),
				key:     "games",
				secure:  secure,
				proxy:   proxy,
				logger:  logger,
			},
			models.KindBoard: &cookieList[int64]{
				variant: shelf.BoardGames.WithCap(cfg.Limits.BoardGames),
				catalog: lookupOrNil(catalogs.BoardGames),
				key:     "games",
				secure:  secure,
				proxy:   proxy,
				logger:  logger,
			},
			models.KindMovie: &cookieList[int64]{
				variant: shelf.Movies.WithCap(cfg.Limits.Movies),
				catalog: lookupOrNil(catalogs.Movies),
				key:     "movies",
				secure:  secure,
				proxy:   proxy,
				logger:  logger,
			},
		},
	}
}

// NewBookshelfHandler serves /api/bookshelf.
func NewBookshelfHandler(cfg *shared.Config, catalogs services.Catalogs, proxy string, secure bool, logger *log.Logger) *ListHandler {
	return &ListHandler{
		path:        "/api/bookshelf",
		defaultKind: models.KindBook,
		lists: map[models.Kind]listEndpoint{
			models.KindBook: &cookieList[string]{
				variant: shelf.Books.WithCap(cfg.Limits.Books),
				catalog: lookupOrNil(catalogs.Books),
				key:     "books",
				secure:  secure,
				proxy:   proxy,
				logger:  logger,
			},
		},
	}
}

// lookupOrNil narrows a catalog to its lookup, keeping an unset catalog nil.
func lookupOrNil[T models.ID](c services.Catalog[T]) services.Lookup[T] {
	if c == nil {
		return nil
	}
	return c
}
