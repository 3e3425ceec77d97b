package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/upnext/internal/shared"
)

// ImagePath is where [ImageProxy] is mounted. Cards are rewritten to ImagePath?url=...
const ImagePath = "/api/image"

const (
	imageAccept       = "image/avif,image/webp,image/*,*/*;q=0.8"
	defaultImageAge   = 86400
	maxImageRedirects = 5
)

// hostError reports a URL (or redirect target) whose host is not allow-listed.
type hostError struct {
	host string
}

func (e *hostError) Error() string {
	return "host not allowed: " + e.host
}

var copyBuffers = sync.Pool{
	New: func() any {
		b := make([]byte, 32<<10)
		return &b
	},
}

// ImageProxy fetches images from allow-listed catalog CDNs on behalf of the browser.
//
// Only absolute http(s) URLs whose hostname is in the allow-list are fetched, and redirects are
// followed only to allow-listed hosts.
type ImageProxy struct {
	allowed   map[string]struct{}
	client    *http.Client
	userAgent string
	maxAge    int
	logger    *log.Logger
}

// NewImageProxy builds the proxy from config. client supplies the transport and timeout; its
// redirect policy is replaced.
func NewImageProxy(cfg shared.ProxyConfig, client *http.Client, logger *log.Logger) *ImageProxy {
	if client == nil {
		client = http.DefaultClient
	}

	p := &ImageProxy{
		allowed:   make(map[string]struct{}, len(cfg.AllowedHosts)),
		userAgent: cfg.UserAgent,
		maxAge:    cfg.MaxAge,
		logger:    logger,
	}
	for _, h := range cfg.AllowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			p.allowed[h] = struct{}{}
		}
	}
	if p.maxAge <= 0 {
		p.maxAge = defaultImageAge
	}

	guarded := *client
	guarded.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxImageRedirects {
			return fmt.Errorf("stopped after %d redirects", maxImageRedirects)
		}
		if !p.Allowed(req.URL.Hostname()) {
			return &hostError{host: req.URL.Hostname()}
		}
		return nil
	}
	p.client = &guarded
	return p
}

func (p *ImageProxy) Routes() []string {
	return []string{"GET " + ImagePath}
}

// Allowed reports whether host is in the allow-list (case-insensitive, exact match).
func (p *ImageProxy) Allowed(host string) bool {
	_, ok := p.allowed[strings.ToLower(host)]
	return ok
}

// target validates the url parameter, returning the parsed URL or the status and message to reply with.
func (p *ImageProxy) target(raw string) (*url.URL, int, string) {
	if strings.TrimSpace(raw) == "" {
		return nil, http.StatusBadRequest, "Missing url"
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return nil, http.StatusBadRequest, "Invalid url"
	}

	if !p.Allowed(u.Hostname()) {
		return nil, http.StatusBadRequest, "Invalid host: " + u.Hostname()
	}
	return u, 0, ""
}

func (p *ImageProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u, status, msg := p.target(r.URL.Query().Get("url"))
	if u == nil {
		if strings.HasPrefix(msg, "Invalid host") {
			p.logger.Warn("image proxy rejected host", "url", r.URL.Query().Get("url"), "request_id", GetRequestID(r.Context()))
		}
		writeError(w, status, msg)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, u.String(), nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid url")
		return
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	req.Header.Set("Accept", imageAccept)

	resp, err := p.client.Do(req)
	if err != nil {
		var he *hostError
		if errors.As(err, &he) {
			p.logger.Warn("image proxy rejected redirect", "url", u.String(), "host", he.host, "request_id", GetRequestID(r.Context()))
			writeError(w, http.StatusBadRequest, "Invalid host: "+he.host)
			return
		}
		p.logger.Error("image proxy upstream failed", "host", u.Hostname(), "error", err, "request_id", GetRequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "Upstream error")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		writeError(w, resp.StatusCode, "Upstream error")
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if resp.ContentLength >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(resp.ContentLength, 10))
	}
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, s-maxage=%d, stale-while-revalidate=%d", p.maxAge, p.maxAge, p.maxAge))
	w.WriteHeader(http.StatusOK)

	buf := copyBuffers.Get().(*[]byte)
	defer copyBuffers.Put(buf)
	if _, err := io.CopyBuffer(w, resp.Body, *buf); err != nil {
		p.logger.Debug("image proxy copy interrupted", "host", u.Hostname(), "error", err)
	}
}
