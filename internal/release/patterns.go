package release

import (
	"regexp"
)

// Pattern compilation for release name parsing
var (
	// File type patterns
	videoExtRe = regexp.MustCompile(`(?i)\.(mkv|mp4|avi|mov|wmv|flv|webm|m4v|3gp|mpg|mpeg)$`)

	// Separators unified into a single space. Dash is kept for the release group.
	separatorRe = regexp.MustCompile(`[._]`)

	// Year extraction
	yearRe      = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	parenYearRe = regexp.MustCompile(`^(.+?)\s*\(((?:19|20)\d{2})\)`)

	// Season/episode patterns
	seasonEpisodeRe = regexp.MustCompile(`(?i)S(\d{1,2})EP?(\d{1,2})`)
	seasonOnlyRe    = regexp.MustCompile(`(?i)\b(?:Season\s*|S)(\d{1,2})\b`)

	// Technical tokens that mark the end of a title
	qualityRe = regexp.MustCompile(`(?i)\b(?:` +
		// resolution
		`2160p|1080p|720p|480p|4K|UHD|` +
		// source
		`BluRay|Blu-Ray|BDRip|BRRip|WEBRip|WEB-DL|WEBDL|DVDRip|DVDScr|HDTV|HDRip|HDCAM|CAM|REMUX|` +
		// bare WEB only counts in front of a resolution or codec
		`WEB\s(?:2160p|1080p|720p|480p|x264|x265|H\s?264|H\s?265|HEVC|AVC)|` +
		// codec
		`x264|x265|H\s?264|H\s?265|HEVC|AVC|XviD|AC3|AAC|DTS` +
		`)\b`)

	// Release group anchor: first dash or bracket after position 0
	releaseGroupRe = regexp.MustCompile(`[-\[]`)

	// Post-processing
	trailingGroupRe    = regexp.MustCompile(`\s*[\[(][^\])]*[\])]\s*$`)
	unclosedGroupRe    = regexp.MustCompile(`\s*[\[(][^\[\]()]*$`)
	trailingReleaseRe  = regexp.MustCompile(`-[^\s\-\[\]()]+$`)
	danglingSeparators = " -"
)
