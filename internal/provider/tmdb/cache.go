package tmdb

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Digital-Shane/release-lens/internal/provider"
	"github.com/patrickmn/go-cache"
)

// CachedSearcher decorates a provider.Client with an in-memory response
// cache. Failed calls are never cached.
type CachedSearcher struct {
	next  provider.Client
	cache *cache.Cache
}

// NewCachedSearcher wraps next with a cache whose entries live for ttl.
func NewCachedSearcher(next provider.Client, ttl time.Duration) *CachedSearcher {
	return &CachedSearcher{
		next:  next,
		cache: cache.New(ttl, 10*time.Minute),
	}
}

// SearchMovies implements provider.Searcher
func (s *CachedSearcher) SearchMovies(ctx context.Context, apiKey, title string, year *int, page int) (*provider.SearchResponse, error) {
	key := buildCacheKey("search", "movie", apiKey, title, yearPart(year), strconv.Itoa(page))
	return cached(s.cache, key, func() (*provider.SearchResponse, error) {
		return s.next.SearchMovies(ctx, apiKey, title, year, page)
	})
}

// SearchTv implements provider.Searcher
func (s *CachedSearcher) SearchTv(ctx context.Context, apiKey, title string, year *int, page int) (*provider.SearchResponse, error) {
	key := buildCacheKey("search", "tv", apiKey, title, yearPart(year), strconv.Itoa(page))
	return cached(s.cache, key, func() (*provider.SearchResponse, error) {
		return s.next.SearchTv(ctx, apiKey, title, year, page)
	})
}

// SearchMulti implements provider.Searcher
func (s *CachedSearcher) SearchMulti(ctx context.Context, apiKey, title string, page int) (*provider.SearchResponse, error) {
	key := buildCacheKey("search", "multi", apiKey, title, "", strconv.Itoa(page))
	return cached(s.cache, key, func() (*provider.SearchResponse, error) {
		return s.next.SearchMulti(ctx, apiKey, title, page)
	})
}

// GetMovieDetails implements provider.DetailFetcher
func (s *CachedSearcher) GetMovieDetails(ctx context.Context, id int, apiKey string) (*provider.MovieRecord, error) {
	key := buildCacheKey("details", "movie", apiKey, strconv.Itoa(id))
	return cached(s.cache, key, func() (*provider.MovieRecord, error) {
		return s.next.GetMovieDetails(ctx, id, apiKey)
	})
}

// GetTvDetails implements provider.DetailFetcher
func (s *CachedSearcher) GetTvDetails(ctx context.Context, id int, apiKey string) (*provider.TvRecord, error) {
	key := buildCacheKey("details", "tv", apiKey, strconv.Itoa(id))
	return cached(s.cache, key, func() (*provider.TvRecord, error) {
		return s.next.GetTvDetails(ctx, id, apiKey)
	})
}

// Flush drops every cached entry
func (s *CachedSearcher) Flush() {
	s.cache.Flush()
}

// Len returns the number of cached entries, expired ones included
func (s *CachedSearcher) Len() int {
	return s.cache.ItemCount()
}

func cached[T any](c *cache.Cache, key string, load func() (*T, error)) (*T, error) {
	if hit, found := c.Get(key); found {
		if v, ok := hit.(*T); ok {
			return v, nil
		}
	}

	v, err := load()
	if err != nil {
		return nil, err
	}
	if v != nil {
		c.Set(key, v, cache.DefaultExpiration)
	}
	return v, nil
}

func buildCacheKey(parts ...string) string {
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, ":")
}

func yearPart(year *int) string {
	if year == nil {
		return ""
	}
	return strconv.Itoa(*year)
}
