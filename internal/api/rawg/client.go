// Package rawg is the outbound client for the RAWG game-metadata API. Every
// operation makes exactly one GET and returns the response body as received,
// except that echoes of the API key are scrubbed.
package rawg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tjfontaine/gamefo-gateway/internal/domain"
)

const (
	defaultBaseURL   = "https://api.rawg.io/api"
	defaultUserAgent = "gamefo-gateway/1.0"

	// maxBodyBytes caps how much of an upstream body is buffered.
	maxBodyBytes = 16 << 20

	redacted = "REDACTED"
)

var (
	errNoData      = errors.New("no data received from API")
	errInvalidJSON = errors.New("response body is not valid JSON")
)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client is a custom HTTP client for the RAWG API. It is safe for
// concurrent use and holds no per-request state.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new RAWG API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListGames fetches the released-order games listing.
func (c *Client) ListGames(ctx context.Context, p domain.ListGamesParams) (domain.OpaqueJSON, error) {
	return c.get(ctx, domain.ResourceGames, c.ListGamesURL(p))
}

// RecentGames fetches the newest-first games listing.
func (c *Client) RecentGames(ctx context.Context, p domain.RecentGamesParams) (domain.OpaqueJSON, error) {
	return c.get(ctx, domain.ResourceRecentGames, c.RecentGamesURL(p))
}

// GetGame fetches a single game. An empty id fails without a request.
func (c *Client) GetGame(ctx context.Context, id string) (domain.OpaqueJSON, error) {
	if id == "" {
		return nil, domain.NewMissingIDError(domain.ResourceGame)
	}
	return c.get(ctx, domain.ResourceGame, c.GameURL(id))
}

// ListReviews fetches the reviews of a game. An empty id fails without a request.
func (c *Client) ListReviews(ctx context.Context, id string) (domain.OpaqueJSON, error) {
	if id == "" {
		return nil, domain.NewMissingIDError(domain.ResourceReviews)
	}
	return c.get(ctx, domain.ResourceReviews, c.ReviewsURL(id))
}

func (c *Client) ListGenres(ctx context.Context) (domain.OpaqueJSON, error) {
	return c.get(ctx, domain.ResourceGenres, c.GenresURL())
}

func (c *Client) ListPlatforms(ctx context.Context) (domain.OpaqueJSON, error) {
	return c.get(ctx, domain.ResourcePlatforms, c.PlatformsURL())
}

// SearchGames runs the fixed-size quick search.
func (c *Client) SearchGames(ctx context.Context, p domain.SearchParams) (domain.OpaqueJSON, error) {
	return c.get(ctx, domain.ResourceSearch, c.SearchURL(p))
}

// get performs the single outbound call for a request.
func (c *Client) get(ctx context.Context, resource domain.Resource, rawURL string) (domain.OpaqueJSON, error) {
	start := time.Now()
	defer func() {
		UpstreamDuration.WithLabelValues(string(resource)).Observe(time.Since(start).Seconds())
	}()

	c.logger.DebugContext(ctx, "upstream request",
		slog.String("resource", string(resource)),
		slog.String("url", c.Redact(rawURL)),
	)

	body, outcome, err := c.do(ctx, rawURL)
	UpstreamRequests.WithLabelValues(string(resource), outcome).Inc()
	if err != nil {
		var statusErr *statusError
		upstreamErr := &domain.UpstreamError{Resource: resource, Err: c.redactErr(err)}
		if errors.As(err, &statusErr) {
			upstreamErr.StatusCode = statusErr.code
		}
		return nil, upstreamErr
	}
	return body, nil
}

// statusError records a non-2xx upstream status.
type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return "unexpected status " + e.status
}

func (c *Client) do(ctx context.Context, rawURL string) (domain.OpaqueJSON, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, outcomeTransport, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error repeats the URL, which carries the key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, outcomeTransport, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, outcomeTransport, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		status := resp.Status
		if status == "" {
			status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return nil, outcomeStatus, &statusError{code: resp.StatusCode, status: status}
	}

	trimmed := strings.TrimSpace(string(respBody))
	if trimmed == "" || trimmed == "null" {
		return nil, outcomeInvalidBody, errNoData
	}
	if !json.Valid(respBody) {
		return nil, outcomeInvalidBody, errInvalidJSON
	}

	// pagination links in listings echo the key back
	respBody = c.redactKeyParam(respBody)

	return domain.OpaqueJSON(respBody), outcomeSuccess, nil
}

// redactKeyParam rewrites key=<apiKey> query parameters inside body. A match
// must follow '?' or '&' and end at a delimiter or the end of body. Field
// values that merely contain the key pass through unchanged.
func (c *Client) redactKeyParam(body []byte) []byte {
	if c.apiKey == "" {
		return body
	}

	needles := []string{url.QueryEscape(c.apiKey)}
	if needles[0] != c.apiKey {
		needles = append(needles, c.apiKey)
	}

	for _, needle := range needles {
		param := []byte("key=" + needle)
		if !bytes.Contains(body, param) {
			continue
		}

		var out bytes.Buffer
		out.Grow(len(body))
		rest := body
		for {
			i := bytes.Index(rest, param)
			if i < 0 {
				out.Write(rest)
				break
			}
			end := i + len(param)
			if isParamStart(rest, i) && isParamEnd(rest, end) {
				out.Write(rest[:i])
				out.WriteString("key=" + redacted)
			} else {
				out.Write(rest[:end])
			}
			rest = rest[end:]
		}
		body = out.Bytes()
	}
	return body
}

func isParamStart(b []byte, i int) bool {
	return i > 0 && (b[i-1] == '?' || b[i-1] == '&')
}

func isParamEnd(b []byte, i int) bool {
	if i == len(b) {
		return true
	}
	switch b[i] {
	case '&', '#', '"', '\\':
		return true
	}
	return false
}

// Redact replaces the API key in s. Used for anything that may be logged
// or returned to a client.
func (c *Client) Redact(s string) string {
	if c.apiKey == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(c.apiKey), redacted)
	return strings.ReplaceAll(s, c.apiKey, redacted)
}

// redactedError keeps the wrapped chain while hiding the key in its message.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }

func (c *Client) redactErr(err error) error {
	msg := err.Error()
	if clean := c.Redact(msg); clean != msg {
		return &redactedError{msg: clean, err: err}
	}
	return err
}
