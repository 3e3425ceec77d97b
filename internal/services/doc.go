// Package services implements the catalog clients behind the watchlist and bookshelf views.
//
// # Catalogs
//
// Each upstream implements [Catalog] (search plus lookup by id) or one of the discovery
// interfaces:
//   - [TMDBService]: movies (TMDB v3 key or v4 token)
//   - [IGDBService]: video games (Twitch app token via OAuth2 client credentials)
//   - [BGGService]: board games (BoardGameGeek XML API2)
//   - [GoogleBooksService]: books
//   - [NYTService]: bestseller lists ([BestsellerSource])
//   - [OpenCriticService]: games reviewed this week ([ReviewSource])
//
// [NewCatalogs] builds every client the config has credentials for. Missing credentials
// leave the matching field of [Catalogs] nil.
//
// # Requests
//
// All clients share one request path: an optional rate limiter, then a per-upstream circuit
// breaker, then the HTTP call. Upstreams without multi-id lookups fan out one request per id
// with bounded concurrency.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrMissingCredentials] : constructor called without a required key
//   - [shared.ErrNotFound] : upstream answered 404 (lookups skip these ids)
//   - [shared.ErrUpstreamStatus] : any other non-2xx answer
//   - [shared.ErrAPIRequest] : transport or decoding failure
//   - [shared.ErrServiceUnavailable] : breaker open or limiter wait cancelled
//
// Error messages never carry request URLs since several upstreams take their key in the query.
//
// # Mappings
//
// Every client maps provider records to [models.Card] through the *Card functions in mappers.go.
package services
