// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/upnext/internal/models"
)

// FakeCatalog is an in-memory test double for services.Catalog.
//
// Lookup returns the cards for known ids in request order and skips the rest, like the real clients.
// Search returns every card whose title contains the query (case-insensitive).
type FakeCatalog[T models.ID] struct {
	Label string
	Cards map[T]models.Card
	Err   error // returned by every call when set

	mu      sync.Mutex
	lookups [][]T
}

func NewFakeCatalog[T models.ID](label string, cards map[T]models.Card) *FakeCatalog[T] {
	return &FakeCatalog[T]{Label: label, Cards: cards}
}

func (f *FakeCatalog[T]) Name() string { return f.Label }

func (f *FakeCatalog[T]) Lookup(ctx context.Context, ids []T) ([]models.Card, error) {
	f.mu.Lock()
	f.lookups = append(f.lookups, append([]T(nil), ids...))
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	cards := make([]models.Card, 0, len(ids))
	for _, id := range ids {
		if c, ok := f.Cards[id]; ok {
			cards = append(cards, c)
		}
	}
	return cards, nil
}

func (f *FakeCatalog[T]) Search(ctx context.Context, query string) ([]models.Card, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	cards := []models.Card{}
	for _, c := range f.Cards {
		if strings.Contains(strings.ToLower(c.Title), strings.ToLower(query)) {
			cards = append(cards, c)
		}
	}
	return cards, nil
}

// Lookups returns the id lists passed to Lookup, in call order.
func (f *FakeCatalog[T]) Lookups() [][]T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}

// NewCard builds a minimal card of kind k.
func NewCard[T models.ID](k models.Kind, id T, title string) models.Card {
	key := fmt.Sprint(id)
	return models.Card{ID: key, Kind: k, Title: title, Href: models.Href(k, key)}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
