package release

import (
	"strconv"
)

// Match is the text and byte span of a token found in a normalized name.
type Match struct {
	Text  string
	Start int
	End   int
}

func newMatch(s string, loc []int) Match {
	return Match{Text: s[loc[0]:loc[1]], Start: loc[0], End: loc[1]}
}

// SeasonEpisode holds a season/episode marker. Episode is only meaningful
// when HasEpisode is true (the "Season 2" and "S02" forms carry no episode).
type SeasonEpisode struct {
	Season     int
	Episode    int
	HasEpisode bool
	Match      Match
}

// ExtractYear returns the leftmost word bounded year between 1900 and 2099.
func ExtractYear(s string) (int, Match, bool) {
	loc := yearRe.FindStringIndex(s)
	if loc == nil {
		return 0, Match{}, false
	}
	m := newMatch(s, loc)
	year, err := strconv.Atoi(m.Text)
	if err != nil {
		return 0, Match{}, false
	}
	return year, m, true
}

// ExtractSeasonEpisode looks for S01E02 (or S01EP02) first and falls back
// to a season-only marker such as "Season 2" or "S02".
func ExtractSeasonEpisode(s string) (SeasonEpisode, bool) {
	if loc := seasonEpisodeRe.FindStringSubmatchIndex(s); loc != nil {
		season, err1 := strconv.Atoi(s[loc[2]:loc[3]])
		episode, err2 := strconv.Atoi(s[loc[4]:loc[5]])
		if err1 == nil && err2 == nil {
			return SeasonEpisode{
				Season:     season,
				Episode:    episode,
				HasEpisode: true,
				Match:      newMatch(s, loc),
			}, true
		}
	}

	if loc := seasonOnlyRe.FindStringSubmatchIndex(s); loc != nil {
		if season, err := strconv.Atoi(s[loc[2]:loc[3]]); err == nil {
			return SeasonEpisode{Season: season, Match: newMatch(s, loc)}, true
		}
	}

	return SeasonEpisode{}, false
}

// ExtractQuality returns the first resolution, source or codec tag.
func ExtractQuality(s string) (Match, bool) {
	loc := qualityRe.FindStringIndex(s)
	if loc == nil {
		return Match{}, false
	}
	return newMatch(s, loc), true
}

// ExtractReleaseGroup returns everything from the first dash or opening
// bracket after position 0 to the end of the string.
func ExtractReleaseGroup(s string) (Match, bool) {
	if len(s) < 2 {
		return Match{}, false
	}
	loc := releaseGroupRe.FindStringIndex(s[1:])
	if loc == nil {
		return Match{}, false
	}
	start := loc[0] + 1
	return Match{Text: s[start:], Start: start, End: len(s)}, true
}
