package release

import (
	"strings"
)

// Normalize prepares a raw release filename for the extractors. It removes a
// trailing video container extension, turns dots and underscores into spaces
// and collapses whitespace. Dashes survive so the release group can still be
// found later. Normalize is idempotent.
func Normalize(name string) string {
	working := videoExtRe.ReplaceAllString(name, "")
	working = separatorRe.ReplaceAllString(working, " ")
	return collapseSpaces(working)
}

// IsVideo reports whether filename carries a recognized video extension.
func IsVideo(filename string) bool {
	return videoExtRe.MatchString(filename)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
