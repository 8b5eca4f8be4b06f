package tmdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Digital-Shane/release-lens/internal/provider"
	"github.com/google/go-cmp/cmp"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripFunc) *http.Client {
	return &http.Client{Transport: fn}
}

func jsonResponse(status int, body string) *http.Response {
	resp := &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp
}

func strPtr(s string) *string     { return &s }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestSearchMoviesBuildsRequest(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	client := New(WithRateLimit(0), WithHTTPClient(newTestClient(func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		gotQuery = map[string]string{}
		for k := range req.URL.Query() {
			gotQuery[k] = req.URL.Query().Get(k)
		}
		return jsonResponse(200, `{"page":1,"results":[],"total_pages":0,"total_results":0}`), nil
	})))

	year := 2019
	if _, err := client.SearchMovies(context.Background(), "abc123", "Movie Title", &year, 1); err != nil {
		t.Fatalf("SearchMovies() error = %v", err)
	}

	if gotPath != "/3/search/movie" {
		t.Errorf("path = %q, want /3/search/movie", gotPath)
	}
	want := map[string]string{
		"api_key":  "abc123",
		"query":    "Movie Title",
		"year":     "2019",
		"page":     "1",
		"language": "en-US",
	}
	if diff := cmp.Diff(want, gotQuery); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchTvUsesFirstAirDateYear(t *testing.T) {
	var gotQuery url.Values
	client := New(WithRateLimit(0), WithLanguage("de-DE"), WithHTTPClient(newTestClient(func(req *http.Request) (*http.Response, error) {
		gotQuery = req.URL.Query()
		return jsonResponse(200, `{"page":1,"results":[]}`), nil
	})))

	year := 2008
	if _, err := client.SearchTv(context.Background(), "k", "Breaking Bad", &year, 0); err != nil {
		t.Fatalf("SearchTv() error = %v", err)
	}
	if got := gotQuery.Get("first_air_date_year"); got != "2008" {
		t.Errorf("first_air_date_year = %q, want 2008", got)
	}
	if gotQuery.Has("year") {
		t.Error("tv search should not send the movie year parameter")
	}
	if got := gotQuery.Get("language"); got != "de-DE" {
		t.Errorf("language = %q, want de-DE", got)
	}
	if got := gotQuery.Get("page"); got != "1" {
		t.Errorf("page = %q, want 1", got)
	}
}

func TestSearchMultiOmitsYear(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/multi" {
			t.Errorf("path = %q, want /search/multi", r.URL.Path)
		}
		if r.URL.Query().Has("year") {
			t.Error("multi search should not send a year")
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"page": 1,
			"results": [
				{"id": 1399, "name": "Game of Thrones", "first_air_date": "2011-04-17", "media_type": "tv", "vote_average": 8.4},
				{"id": 603, "title": "The Matrix", "media_type": "movie", "poster_path": "/m.jpg"}
			],
			"total_pages": 1,
			"total_results": 2
		}`)
	}))
	defer srv.Close()

	client := New(WithRateLimit(0), WithBaseURL(srv.URL+"/"))
	got, err := client.SearchMulti(context.Background(), "k", "Thrones", 1)
	if err != nil {
		t.Fatalf("SearchMulti() error = %v", err)
	}

	want := &provider.SearchResponse{
		Page: 1,
		Results: []provider.SearchHit{
			{ID: intPtr(1399), Name: strPtr("Game of Thrones"), FirstAirDate: strPtr("2011-04-17"), MediaType: strPtr("tv"), VoteAverage: floatPtr(8.4)},
			{ID: intPtr(603), Title: strPtr("The Matrix"), MediaType: strPtr("movie"), PosterPath: strPtr("/m.jpg")},
		},
		TotalPages:   1,
		TotalResults: 2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SearchMulti() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchRequiresAPIKey(t *testing.T) {
	called := false
	client := New(WithRateLimit(0), WithHTTPClient(newTestClient(func(req *http.Request) (*http.Response, error) {
		called = true
		return jsonResponse(200, `{}`), nil
	})))

	_, err := client.SearchMovies(context.Background(), "  ", "x", nil, 1)
	var perr *provider.ProviderError
	if !errors.As(err, &perr) || perr.Code != provider.CodeAuthFailed {
		t.Fatalf("error = %v, want AUTH_FAILED provider error", err)
	}
	if called {
		t.Error("transport called without an api key")
	}
}

func TestSearchErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		header     string
		wantCode   string
		wantRetry  int
		wantSubstr string
	}{
		{"unauthorized", 401, `{"status_code":7,"status_message":"Invalid API key: You must be granted a valid key."}`, "", provider.CodeAuthFailed, 0, "Invalid API key"},
		{"rate_limited", 429, `{}`, "3", provider.CodeRateLimited, 3, "rate limit"},
		{"rate_limited_default", 429, `{}`, "", provider.CodeRateLimited, 10, "rate limit"},
		{"not_found", 404, `{"status_message":"The resource you requested could not be found."}`, "", provider.CodeNotFound, 0, "could not be found"},
		{"unavailable", 503, `oops`, "", provider.CodeUnavailable, 30, "Service Unavailable"},
		{"teapot", 418, ``, "", provider.CodeUnknown, 0, "418"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := New(WithRateLimit(0), WithHTTPClient(newTestClient(func(req *http.Request) (*http.Response, error) {
				resp := jsonResponse(tc.status, tc.body)
				if tc.header != "" {
					resp.Header.Set("Retry-After", tc.header)
				}
				return resp, nil
			})))

			_, err := client.SearchMovies(context.Background(), "k", "x", nil, 1)
			var perr *provider.ProviderError
			if !errors.As(err, &perr) {
				t.Fatalf("error = %v, want *provider.ProviderError", err)
			}
			if perr.Code != tc.wantCode {
				t.Errorf("Code = %q, want %q", perr.Code, tc.wantCode)
			}
			if perr.RetryAfter != tc.wantRetry {
				t.Errorf("RetryAfter = %d, want %d", perr.RetryAfter, tc.wantRetry)
			}
			if !strings.Contains(perr.Message, tc.wantSubstr) {
				t.Errorf("Message = %q, want it to contain %q", perr.Message, tc.wantSubstr)
			}
		})
	}
}

func TestSearchDecodeError(t *testing.T) {
	client := New(WithRateLimit(0), WithHTTPClient(newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"results": [`), nil
	})))

	_, err := client.SearchTv(context.Background(), "k", "x", nil, 1)
	var perr *provider.ProviderError
	if !errors.As(err, &perr) || perr.Code != provider.CodeDecode {
		t.Fatalf("error = %v, want DECODE provider error", err)
	}
}

func TestSearchTransportError(t *testing.T) {
	client := New(WithRateLimit(0), WithHTTPClient(newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})))

	_, err := client.SearchMulti(context.Background(), "k", "x", 1)
	var perr *provider.ProviderError
	if !errors.As(err, &perr) || perr.Code != provider.CodeUnavailable {
		t.Fatalf("error = %v, want UNAVAILABLE provider error", err)
	}
}

func TestSearchCanceledContext(t *testing.T) {
	client := New(WithRateLimit(0), WithHTTPClient(newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, req.Context().Err()
	})))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SearchMovies(ctx, "k", "x", nil, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.New("Invalid API key: You must be granted a valid key."), provider.CodeAuthFailed},
		{errors.New("status 401"), provider.CodeAuthFailed},
		{errors.New("429 Too Many Requests"), provider.CodeRateLimited},
		{errors.New("The resource you requested could not be found."), provider.CodeNotFound},
		{errors.New("503 Service Unavailable"), provider.CodeUnavailable},
		{errors.New("boom"), provider.CodeUnknown},
	}
	for _, tc := range tests {
		var perr *provider.ProviderError
		if err := mapError(tc.err); !errors.As(err, &perr) || perr.Code != tc.want {
			t.Errorf("mapError(%q) = %v, want code %s", tc.err, err, tc.want)
		}
	}

	if mapError(nil) != nil {
		t.Error("mapError(nil) should be nil")
	}
	if err := mapError(context.DeadlineExceeded); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("mapError(deadline) = %v, want context.DeadlineExceeded", err)
	}
}
