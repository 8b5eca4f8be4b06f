package release

import (
	"strings"
)

// ResolveTitle derives the human title from a normalized release name.
//
// A "Title (YYYY)" prefix always wins. Otherwise the anchors are applied in
// turn to a working string: cut before the year, excise the season/episode
// token, cut before the first quality tag. The result may be empty when the
// name starts with an anchor and nothing else identifies it.
func ResolveTitle(normalized string) string {
	if m := parenYearRe.FindStringSubmatch(normalized); m != nil {
		return cleanTitle(m[1], false)
	}

	working := normalized
	truncated := false

	if _, m, ok := ExtractYear(working); ok && m.Start > 0 {
		working = working[:m.Start]
		truncated = true
	}

	if se, ok := ExtractSeasonEpisode(working); ok {
		working = working[:se.Match.Start] + " " + working[se.Match.End:]
	}

	if m, ok := ExtractQuality(working); ok && m.Start > 0 {
		working = working[:m.Start]
		truncated = true
	}

	return cleanTitle(working, !truncated)
}

// cleanTitle tidies a candidate title. A cut can leave a bracket open, as in
// "Movie [2019]", so an unclosed trailing group is dropped too. The release
// group suffix is only looked for when the candidate still carries the
// original tail of the name.
func cleanTitle(title string, keepsTail bool) string {
	title = collapseSpaces(title)
	title = trailingGroupRe.ReplaceAllString(title, "")
	title = unclosedGroupRe.ReplaceAllString(title, "")

	if keepsTail {
		if _, ok := ExtractReleaseGroup(title); ok {
			title = trailingReleaseRe.ReplaceAllString(title, "")
		}
	}

	title = strings.Trim(title, danglingSeparators)
	return collapseSpaces(title)
}
