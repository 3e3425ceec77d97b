package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/upnext/internal/models"
	"github.com/desertthunder/upnext/internal/shared"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 4 << 20

// lookupConcurrency bounds per-id fan-out for upstreams without multi-id lookups.
const lookupConcurrency = 5

// upstream performs requests against one catalog API behind a circuit breaker and an optional rate limiter.
type upstream struct {
	name    string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func newUpstream(name string, client *http.Client, limiter *rate.Limiter, logger *log.Logger) *upstream {
	if client == nil {
		client = http.DefaultClient
	}
	return &upstream{
		name:    name,
		client:  client,
		limiter: limiter,
		breaker: newBreaker(name, logger),
	}
}

// newBreaker builds the circuit breaker guarding one upstream.
//
// It opens once at least 10 requests in the last minute failed at a rate of 60% or more and
// lets 3 probe requests through after 30 seconds. Not-found responses and requests abandoned
// by the caller count as successes.
func newBreaker(name string, logger *log.Logger) *gobreaker.CircuitBreaker[[]byte] {
	if logger == nil {
		logger = log.Default()
	}
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, shared.ErrNotFound) || callerGone(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "upstream", name, "from", from.String(), "to", to.String())
		},
	})
}

// fetch sends one request and returns the response body of a 2xx answer.
//
// 404 maps to [shared.ErrNotFound], other non-2xx statuses to [shared.ErrUpstreamStatus],
// transport failures to [shared.ErrAPIRequest] and an open breaker to [shared.ErrServiceUnavailable].
// Errors never include the request URL since it may carry an API key.
func (u *upstream) fetch(ctx context.Context, method, endpoint, body string, header http.Header) ([]byte, error) {
	if u.limiter != nil {
		if err := u.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", shared.ErrServiceUnavailable, u.name, err)
		}
	}

	data, err := u.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: failed to create request", shared.ErrAPIRequest, u.name)
		}
		for key, values := range header {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
		if req.Header.Get("Accept") == "" {
			req.Header.Set("Accept", "application/json")
		}

		resp, err := u.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s: %w", shared.ErrAPIRequest, u.name, ctx.Err())
			}
			return nil, fmt.Errorf("%w: %s: request failed: %v", shared.ErrAPIRequest, u.name, redact(err))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", shared.ErrNotFound, u.name)
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return nil, fmt.Errorf("%w: %s returned %d", shared.ErrUpstreamStatus, u.name, resp.StatusCode)
		}

		payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s: %w", shared.ErrAPIRequest, u.name, ctx.Err())
			}
			return nil, fmt.Errorf("%w: %s: failed to read response: %v", shared.ErrAPIRequest, u.name, err)
		}
		return payload, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrServiceUnavailable, u.name, err)
	}
	return data, err
}

// getJSON fetches endpoint and decodes the JSON body into out.
func (u *upstream) getJSON(ctx context.Context, endpoint string, header http.Header, out any) error {
	data, err := u.fetch(ctx, http.MethodGet, endpoint, "", header)
	if err != nil {
		return err
	}
	return u.decode(data, out)
}

func (u *upstream) decode(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: failed to decode response: %v", shared.ErrAPIRequest, u.name, err)
	}
	return nil
}

// callerGone reports whether err comes from the caller cancelling the request context.
func callerGone(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// redact strips the URL from a transport error.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// newLimiter paces requests to rps, falling back to def when rps is unset.
func newLimiter(rps, def float64) *rate.Limiter {
	if rps <= 0 {
		rps = def
	}
	return rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
}

// fanOut looks up ids concurrently with fetch, skipping not-found ids and preserving order.
// The first failure cancels the remaining lookups.
func fanOut[T models.ID](ctx context.Context, ids []T, fetch func(context.Context, T) (models.Card, error)) ([]models.Card, error) {
	found := make([]*models.Card, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			card, err := fetch(gctx, id)
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			found[i] = &card
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	cards := make([]models.Card, 0, len(ids))
	for _, c := range found {
		if c != nil {
			cards = append(cards, *c)
		}
	}
	return cards, nil
}

// orderByIDs arranges batch results in the order of ids, dropping ids with no card.
func orderByIDs[T models.ID](cards []models.Card, ids []T) []models.Card {
	byID := make(map[string]models.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	ordered := make([]models.Card, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[fmt.Sprint(id)]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// chunk splits ids into slices of at most size elements.
func chunk[T any](ids []T, size int) [][]T {
	var out [][]T
	for size < len(ids) {
		ids, out = ids[size:], append(out, ids[:size:size])
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}
