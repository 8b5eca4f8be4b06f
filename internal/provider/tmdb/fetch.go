package tmdb

import (
	"context"
	"fmt"

	"github.com/Digital-Shane/release-lens/internal/provider"
	gotmdb "github.com/ryanbradynd05/go-tmdb"
)

// DetailsAPI is the part of *gotmdb.TMDb used for detail lookups
type DetailsAPI interface {
	GetMovieInfo(id int, options map[string]string) (*gotmdb.Movie, error)
	GetTvInfo(id int, options map[string]string) (*gotmdb.TV, error)
}

// DetailsFactory builds a detail client for an api key
type DetailsFactory func(apiKey string) DetailsAPI

func defaultDetailsFactory(apiKey string) DetailsAPI {
	return gotmdb.Init(gotmdb.Config{
		APIKey:   apiKey,
		Proxies:  nil,
		UseProxy: false,
	})
}

// GetMovieDetails fetches the full movie record
func (c *Client) GetMovieDetails(ctx context.Context, id int, apiKey string) (*provider.MovieRecord, error) {
	api, err := c.detailsClient(ctx, id, apiKey)
	if err != nil {
		return nil, err
	}

	movie, err := api.GetMovieInfo(id, map[string]string{"language": c.language})
	if err != nil {
		return nil, mapError(err)
	}
	if movie == nil {
		return nil, notFound("movie", id)
	}
	return movieToRecord(movie), nil
}

// GetTvDetails fetches the full TV show record
func (c *Client) GetTvDetails(ctx context.Context, id int, apiKey string) (*provider.TvRecord, error) {
	api, err := c.detailsClient(ctx, id, apiKey)
	if err != nil {
		return nil, err
	}

	show, err := api.GetTvInfo(id, map[string]string{
		"language":           c.language,
		"append_to_response": "external_ids",
	})
	if err != nil {
		return nil, mapError(err)
	}
	if show == nil {
		return nil, notFound("tv show", id)
	}
	return showToRecord(show), nil
}

func (c *Client) detailsClient(ctx context.Context, id int, apiKey string) (DetailsAPI, error) {
	if apiKey == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "TMDB api key is required",
		}
	}
	if id <= 0 {
		return nil, notFound("record", id)
	}

	// Apply rate limiting
	if err := c.rateLimiter.wait(ctx); err != nil {
		return nil, err
	}
	return c.details(apiKey), nil
}

func notFound(kind string, id int) error {
	return &provider.ProviderError{
		Provider: providerName,
		Code:     provider.CodeNotFound,
		Message:  fmt.Sprintf("no %s found with id %d", kind, id),
	}
}

func movieToRecord(movie *gotmdb.Movie) *provider.MovieRecord {
	genres := make([]string, 0, len(movie.Genres))
	for _, g := range movie.Genres {
		genres = append(genres, g.Name)
	}

	var studios []string
	for _, c := range movie.ProductionCompanies {
		studios = append(studios, c.Name)
	}

	return &provider.MovieRecord{
		ID:          movie.ID,
		Title:       movie.Title,
		Tagline:     movie.Tagline,
		Overview:    movie.Overview,
		ReleaseDate: movie.ReleaseDate,
		Runtime:     int(movie.Runtime),
		VoteAverage: float64(movie.VoteAverage),
		VoteCount:   int(movie.VoteCount),
		Genres:      genres,
		Studios:     studios,
		ImdbID:      movie.ImdbID,
		Homepage:    movie.Homepage,
	}
}

func showToRecord(show *gotmdb.TV) *provider.TvRecord {
	genres := make([]string, 0, len(show.Genres))
	for _, g := range show.Genres {
		genres = append(genres, g.Name)
	}

	var networks []string
	for _, n := range show.Networks {
		networks = append(networks, n.Name)
	}

	record := &provider.TvRecord{
		ID:               show.ID,
		Name:             show.Name,
		Overview:         show.Overview,
		FirstAirDate:     show.FirstAirDate,
		NumberOfSeasons:  int(show.NumberOfSeasons),
		NumberOfEpisodes: int(show.NumberOfEpisodes),
		InProduction:     show.InProduction,
		VoteAverage:      float64(show.VoteAverage),
		VoteCount:        int(show.VoteCount),
		Genres:           genres,
		Networks:         networks,
		Homepage:         show.Homepage,
	}

	// Add IMDB ID if available from external IDs
	if show.ExternalIDs != nil {
		record.ImdbID = show.ExternalIDs.ImdbID
	}
	return record
}
