package media

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Digital-Shane/release-lens/internal/provider"
)

// Type identifies the catalog a record belongs to
type Type string

const (
	Movie Type = "movie"
	TV    Type = "tv"
)

// PosterBaseURL and PosterSize form the prefix prepended to poster paths
const (
	PosterBaseURL = "https://image.tmdb.org/t/p/"
	PosterSize    = "w342"
)

// Label returns the section heading used when displaying records of this type.
func (t Type) Label() string {
	if t == TV {
		return "TV"
	}
	return "Movies"
}

// ResolvedMedia is the normalized result of a lookup
type ResolvedMedia struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview,omitempty"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
	PosterPath  string   `json:"posterPath,omitempty"`
	VoteAverage *float64 `json:"voteAverage,omitempty"`
	MediaType   Type     `json:"mediaType"`
	Year        *int     `json:"year,omitempty"`
}

// FromHit normalizes a raw search hit. The hit is rejected when it has no id
// or when the title field for the requested type is blank.
func FromHit(hit provider.SearchHit, isMovie bool) (*ResolvedMedia, bool) {
	if hit.ID == nil {
		return nil, false
	}

	title, date, kind := hit.Name, hit.FirstAirDate, TV
	if isMovie {
		title, date, kind = hit.Title, hit.ReleaseDate, Movie
	}
	if title == nil || strings.TrimSpace(*title) == "" {
		return nil, false
	}

	m := &ResolvedMedia{
		ID:          *hit.ID,
		Title:       *title,
		Overview:    deref(hit.Overview),
		ReleaseDate: deref(date),
		PosterPath:  deref(hit.PosterPath),
		MediaType:   kind,
		Year:        ParseYear(deref(date)),
	}
	if hit.VoteAverage != nil {
		v := *hit.VoteAverage
		m.VoteAverage = &v
	}
	return m, true
}

// ParseYear returns the leading four digit year of a date string, or nil.
func ParseYear(date string) *int {
	if len(date) < 4 {
		return nil
	}
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return nil
		}
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return &year
}

// DisplayTitle renders "Title (Year)", or just the title without a year.
func (m *ResolvedMedia) DisplayTitle() string {
	if m.Year == nil {
		return m.Title
	}
	return fmt.Sprintf("%s (%d)", m.Title, *m.Year)
}

// PosterURL returns the full poster image URL, or "" without a poster.
func (m *ResolvedMedia) PosterURL() string {
	if m.PosterPath == "" {
		return ""
	}
	return PosterBaseURL + PosterSize + m.PosterPath
}

// Rating renders the vote average as "★ 7.3/10" or a placeholder.
func (m *ResolvedMedia) Rating() string {
	if m.VoteAverage == nil {
		return "No information available"
	}
	return fmt.Sprintf("★ %.1f/10", *m.VoteAverage)
}

// Synopsis returns the overview, or a placeholder when there is none.
func (m *ResolvedMedia) Synopsis() string {
	if strings.TrimSpace(m.Overview) == "" {
		return "No information available"
	}
	return m.Overview
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
