package release

import (
	"strings"
)

// ParsedRelease is the structured form of a release filename.
type ParsedRelease struct {
	Title   string `json:"title"`
	Year    *int   `json:"year,omitempty"`
	Season  *int   `json:"season,omitempty"`
	Episode *int   `json:"episode,omitempty"`
	IsMovie bool   `json:"isMovie"`
}

// Parse runs the full pipeline over a raw filename.
func Parse(filename string) ParsedRelease {
	normalized := Normalize(filename)

	var parsed ParsedRelease
	parsed.Title = ResolveTitle(normalized)

	// The leftmost year wins even when a "(YYYY)" group decides the title
	if year, _, ok := ExtractYear(normalized); ok {
		parsed.Year = &year
	}

	if se, ok := ExtractSeasonEpisode(normalized); ok {
		season := se.Season
		parsed.Season = &season
		if se.HasEpisode {
			episode := se.Episode
			parsed.Episode = &episode
		}
	}

	parsed.IsMovie = Classify(parsed.Season, parsed.Episode)
	return parsed
}

// Classify reports whether a release without season or episode markers
// should be treated as a movie.
func Classify(season, episode *int) bool {
	return season == nil && episode == nil
}

// HasTitle reports whether the parse produced something worth searching for.
func (p ParsedRelease) HasTitle() bool {
	return strings.TrimSpace(p.Title) != ""
}

// Kind returns "movie" or "tv".
func (p ParsedRelease) Kind() string {
	if p.IsMovie {
		return "movie"
	}
	return "tv"
}
