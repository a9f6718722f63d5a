// Package directory is a cached gateway to the remote authoritative country
// dataset. Its failure mode is deliberate degradation: an unreachable
// directory yields an empty list or a not-found result, never an error that
// aborts the caller's flow.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"capfinder/internal/platform/metrics"
)

// ErrNotFound reports that the directory has no entry for the queried name.
// Network failures during validation also map to it: "could not confirm" and
// "does not exist" lead the caller to the same re-prompt flow.
var ErrNotFound = errors.New("country not found in directory")

// Client queries a REST Countries style directory over HTTP. The full country
// list is fetched lazily on first use and cached for the process lifetime;
// there is no TTL or invalidation.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics

	// cached holds the display names after the first successful fetch. nil
	// means not yet fetched or last fetch failed, so a later call retries.
	cacheMu sync.RWMutex
	cached  []string

	// group collapses concurrent first calls into a single outbound fetch.
	// Strictness over redundant fetches costs nothing here, so the guard is
	// exact rather than best-effort.
	group singleflight.Group
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics enables fetch metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a directory client. Every outbound call is bounded by timeout.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// countryRecord mirrors the directory's nested name object. Only the common
// display name is consumed.
type countryRecord struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
}

// AllCountries returns the cached display-name list, fetching it on first use.
// On fetch failure it returns an empty list and leaves the cache unset, so the
// next call retries. The returned slice is shared; callers must not mutate it.
func (c *Client) AllCountries(ctx context.Context) []string {
	c.cacheMu.RLock()
	cached := c.cached
	c.cacheMu.RUnlock()
	if cached != nil {
		return cached
	}

	// The winning caller's context bounds the shared fetch. If it is
	// cancelled, every waiter degrades to an empty result and retries later.
	names, err, _ := c.group.Do("all-countries", func() (any, error) {
		fetched, err := c.fetchAll(ctx)
		if err != nil {
			c.countFetch("error")
			return nil, err
		}
		c.countFetch("ok")
		c.cacheMu.Lock()
		c.cached = fetched
		c.cacheMu.Unlock()
		return fetched, nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "country directory unavailable, degrading to empty list", "error", err)
		return nil
	}
	return names.([]string)
}

func (c *Client) fetchAll(ctx context.Context) ([]string, error) {
	endpoint := c.baseURL + "/all?fields=name"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch country list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch country list: unexpected status %d", resp.StatusCode)
	}

	var records []countryRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode country list: %w", err)
	}

	names := make([]string, 0, len(records))
	for _, record := range records {
		if record.Name.Common != "" {
			names = append(names, record.Name.Common)
		}
	}
	return names, nil
}

// Validate resolves name to the directory's canonical display form, which may
// differ from the input in case, diacritics, or spelling. Any non-success
// response or network failure yields ErrNotFound; validation is never fatal to
// the caller.
func (c *Client) Validate(ctx context.Context, name string) (string, error) {
	endpoint := c.baseURL + "/name/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("validate %q: %w", name, ErrNotFound)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "country validation degraded to not-found", "name", name, "error", err)
		return "", fmt.Errorf("validate %q: %w", name, ErrNotFound)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("validate %q: status %d: %w", name, resp.StatusCode, ErrNotFound)
	}

	var records []countryRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		c.logger.WarnContext(ctx, "country validation response unreadable", "name", name, "error", err)
		return "", fmt.Errorf("validate %q: %w", name, ErrNotFound)
	}
	if len(records) == 0 || records[0].Name.Common == "" {
		return "", fmt.Errorf("validate %q: %w", name, ErrNotFound)
	}

	// The first record is the directory's best/primary match.
	return records[0].Name.Common, nil
}

func (c *Client) countFetch(result string) {
	if c.metrics != nil {
		c.metrics.DirectoryFetches.WithLabelValues(result).Inc()
	}
}
