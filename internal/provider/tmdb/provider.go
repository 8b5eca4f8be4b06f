package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Digital-Shane/release-lens/internal/provider"
)

const (
	providerName = "tmdb"

	// DefaultBaseURL is the TMDB v3 API root
	DefaultBaseURL = "https://api.themoviedb.org/3"

	// DefaultRateLimit is the number of requests allowed per rateWindow
	DefaultRateLimit = 38
	rateWindow       = 10 * time.Second
)

// Client implements provider.Client against the TMDB v3 API. Search calls go
// over plain HTTP so optional fields survive decoding. Detail calls go
// through go-tmdb.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	language    string
	rateLimiter *rateLimiter
	details     DetailsFactory
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for search calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points search calls at a different API root.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithLanguage sets the preferred metadata language.
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// WithRateLimit sets the number of requests per 10 seconds. Zero disables it.
func WithRateLimit(n int) Option {
	return func(c *Client) { c.rateLimiter = newRateLimiter(n, rateWindow) }
}

// WithDetailsFactory replaces the go-tmdb client constructor.
func WithDetailsFactory(f DetailsFactory) Option {
	return func(c *Client) { c.details = f }
}

// New creates a TMDB client
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		baseURL:     DefaultBaseURL,
		language:    "en-US",
		rateLimiter: newRateLimiter(DefaultRateLimit, rateWindow),
		details:     defaultDetailsFactory,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchMovies searches the movie catalog
func (c *Client) SearchMovies(ctx context.Context, apiKey, title string, year *int, page int) (*provider.SearchResponse, error) {
	params := url.Values{}
	if year != nil {
		params.Set("year", strconv.Itoa(*year))
	}
	return c.search(ctx, "movie", apiKey, title, page, params)
}

// SearchTv searches the TV catalog
func (c *Client) SearchTv(ctx context.Context, apiKey, title string, year *int, page int) (*provider.SearchResponse, error) {
	params := url.Values{}
	if year != nil {
		params.Set("first_air_date_year", strconv.Itoa(*year))
	}
	return c.search(ctx, "tv", apiKey, title, page, params)
}

// SearchMulti searches movies, shows and people in one call. Each hit
// carries a media_type tag.
func (c *Client) SearchMulti(ctx context.Context, apiKey, title string, page int) (*provider.SearchResponse, error) {
	return c.search(ctx, "multi", apiKey, title, page, url.Values{})
}

func (c *Client) search(ctx context.Context, endpoint, apiKey, title string, page int, params url.Values) (*provider.SearchResponse, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "TMDB api key is required",
		}
	}
	if page < 1 {
		page = 1
	}

	params.Set("api_key", apiKey)
	params.Set("query", title)
	params.Set("page", strconv.Itoa(page))
	if c.language != "" {
		params.Set("language", c.language)
	}

	if err := c.rateLimiter.wait(ctx); err != nil {
		return nil, err
	}

	searchURL := fmt.Sprintf("%s/search/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build TMDB request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, mapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var out provider.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeDecode,
			Message:  "failed to decode TMDB response: " + err.Error(),
			Err:      err,
		}
	}
	return &out, nil
}

// errorBody is the error envelope TMDB returns with non-200 responses
type errorBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// statusError maps a non-200 response to a provider error
func statusError(resp *http.Response) error {
	var body errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &body); err != nil || body.StatusMessage == "" {
		body.StatusMessage = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "TMDB authentication failed: " + body.StatusMessage,
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := 10
		if v, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && v > 0 {
			retryAfter = v
		}
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeRateLimited,
			Message:    "TMDB rate limit exceeded",
			Retry:      true,
			RetryAfter: retryAfter,
		}
	case resp.StatusCode == http.StatusNotFound:
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  "TMDB resource not found: " + body.StatusMessage,
		}
	case resp.StatusCode >= 500:
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeUnavailable,
			Message:    "TMDB service unavailable: " + body.StatusMessage,
			Retry:      true,
			RetryAfter: 30,
		}
	}

	return &provider.ProviderError{
		Provider: providerName,
		Code:     provider.CodeUnknown,
		Message:  fmt.Sprintf("TMDB error %d: %s", resp.StatusCode, body.StatusMessage),
	}
}

// mapError maps TMDB errors to provider errors
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "unauthorized") || strings.Contains(errStr, "invalid api key") {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "TMDB authentication failed: " + err.Error(),
			Err:      err,
		}
	}
	if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") {
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeRateLimited,
			Message:    "TMDB rate limit exceeded",
			Retry:      true,
			RetryAfter: 10,
			Err:        err,
		}
	}
	if strings.Contains(errStr, "404") || strings.Contains(errStr, "could not be found") {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  "TMDB resource not found",
			Err:      err,
		}
	}
	if strings.Contains(errStr, "503") || strings.Contains(errStr, "unavailable") ||
		strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeUnavailable,
			Message:    "TMDB service unavailable",
			Retry:      true,
			RetryAfter: 30,
			Err:        err,
		}
	}

	return &provider.ProviderError{
		Provider: providerName,
		Code:     provider.CodeUnknown,
		Message:  "TMDB error: " + err.Error(),
		Err:      err,
	}
}
