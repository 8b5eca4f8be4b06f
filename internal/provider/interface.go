package provider

import (
	"context"
)

// Kind values reported by the combined search endpoint
const (
	KindMovie  = "movie"
	KindTV     = "tv"
	KindPerson = "person"
)

// Error codes carried by ProviderError
const (
	CodeAuthFailed  = "AUTH_FAILED"
	CodeRateLimited = "RATE_LIMITED"
	CodeUnavailable = "UNAVAILABLE"
	CodeNotFound    = "NOT_FOUND"
	CodeDecode      = "DECODE"
	CodeUnknown     = "UNKNOWN"
)

// Searcher finds catalog entries by title
type Searcher interface {
	SearchMovies(ctx context.Context, apiKey, title string, year *int, page int) (*SearchResponse, error)
	SearchTv(ctx context.Context, apiKey, title string, year *int, page int) (*SearchResponse, error)
	SearchMulti(ctx context.Context, apiKey, title string, page int) (*SearchResponse, error)
}

// DetailFetcher loads a full record for a known catalog id
type DetailFetcher interface {
	GetMovieDetails(ctx context.Context, id int, apiKey string) (*MovieRecord, error)
	GetTvDetails(ctx context.Context, id int, apiKey string) (*TvRecord, error)
}

// Client is a complete catalog client
type Client interface {
	Searcher
	DetailFetcher
}

// SearchHit is one raw search result. Every field is optional because the
// catalog omits whatever it does not know.
type SearchHit struct {
	ID           *int     `json:"id,omitempty"`
	Title        *string  `json:"title,omitempty"`
	Name         *string  `json:"name,omitempty"`
	Overview     *string  `json:"overview,omitempty"`
	ReleaseDate  *string  `json:"release_date,omitempty"`
	FirstAirDate *string  `json:"first_air_date,omitempty"`
	PosterPath   *string  `json:"poster_path,omitempty"`
	BackdropPath *string  `json:"backdrop_path,omitempty"`
	VoteAverage  *float64 `json:"vote_average,omitempty"`
	VoteCount    *int     `json:"vote_count,omitempty"`
	MediaType    *string  `json:"media_type,omitempty"`
}

// Kind returns the declared media type, or "" when the hit carries none.
func (h SearchHit) Kind() string {
	if h.MediaType == nil {
		return ""
	}
	return *h.MediaType
}

// SearchResponse is one page of search hits
type SearchResponse struct {
	Page         int         `json:"page"`
	Results      []SearchHit `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// MovieRecord contains the detail view of a movie
type MovieRecord struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Tagline     string   `json:"tagline,omitempty"`
	Overview    string   `json:"overview,omitempty"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
	Runtime     int      `json:"runtime,omitempty"`
	VoteAverage float64  `json:"voteAverage"`
	VoteCount   int      `json:"voteCount"`
	Genres      []string `json:"genres,omitempty"`
	Studios     []string `json:"studios,omitempty"`
	ImdbID      string   `json:"imdbId,omitempty"`
	Homepage    string   `json:"homepage,omitempty"`
}

// TvRecord contains the detail view of a TV show
type TvRecord struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Overview         string   `json:"overview,omitempty"`
	FirstAirDate     string   `json:"firstAirDate,omitempty"`
	NumberOfSeasons  int      `json:"numberOfSeasons"`
	NumberOfEpisodes int      `json:"numberOfEpisodes"`
	InProduction     bool     `json:"inProduction"`
	VoteAverage      float64  `json:"voteAverage"`
	VoteCount        int      `json:"voteCount"`
	Genres           []string `json:"genres,omitempty"`
	Networks         []string `json:"networks,omitempty"`
	ImdbID           string   `json:"imdbId,omitempty"`
	Homepage         string   `json:"homepage,omitempty"`
}

// ProviderError represents an error from a provider
type ProviderError struct {
	Provider   string
	Code       string
	Message    string
	Retry      bool
	RetryAfter int // Seconds to wait before retry
	Err        error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
