package core

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Digital-Shane/release-lens/internal/media"
	"github.com/Digital-Shane/release-lens/internal/provider"
	"github.com/Digital-Shane/release-lens/internal/release"
	"github.com/sirupsen/logrus"
)

// Diagnostic explains why a resolution produced no media
type Diagnostic string

const (
	DiagnosticNone    Diagnostic = ""
	DiagnosticNoKey   Diagnostic = "no key"
	DiagnosticNoMatch Diagnostic = "no match"
)

// Message returns the user facing text for a diagnostic.
func (d Diagnostic) Message() string {
	switch d {
	case DiagnosticNoKey:
		return "TMDB lookup skipped: no API key configured"
	case DiagnosticNoMatch:
		return "No TMDB information found"
	}
	return ""
}

// Tier names the search call that produced (or failed to produce) a result
type Tier string

const (
	TierNone  Tier = ""
	TierMovie Tier = "movie"
	TierTV    Tier = "tv"
	TierMulti Tier = "multi"
)

// TierError records a search failure that was absorbed into an empty result.
type TierError struct {
	Tier Tier
	Err  error
}

func (e *TierError) Error() string {
	return fmt.Sprintf("%s search: %v", e.Tier, e.Err)
}

func (e *TierError) Unwrap() error {
	return e.Err
}

// Outcome is the result of one resolution. Exactly one of Media and
// Diagnostic is set.
type Outcome struct {
	Media      *media.ResolvedMedia
	Diagnostic Diagnostic
	Parsed     release.ParsedRelease
	Tier       Tier
	Errors     []error
}

// LookupState is one observable step of an asynchronous lookup
type LookupState struct {
	Loading    bool
	Media      *media.ResolvedMedia
	Diagnostic Diagnostic
}

// Engine resolves release filenames to catalog records. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	searcher provider.Searcher
	log      logrus.FieldLogger
}

// NewEngine creates an engine over searcher. A nil logger discards output.
func NewEngine(searcher provider.Searcher, logger logrus.FieldLogger) *Engine {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &Engine{searcher: searcher, log: logger}
}

// Lookup runs Resolve in the background. The channel yields a loading state,
// then the terminal state, then closes.
func (e *Engine) Lookup(ctx context.Context, filename, apiKey string) <-chan LookupState {
	states := make(chan LookupState, 2)
	states <- LookupState{Loading: true}
	go func() {
		defer close(states)
		out := e.Resolve(ctx, filename, apiKey)
		states <- LookupState{Media: out.Media, Diagnostic: out.Diagnostic}
	}()
	return states
}

// Resolve parses filename and looks it up. It never fails: search errors are
// recorded in the outcome and treated as empty results.
//
// Each tier takes its first acceptable hit. Hits the normalizer rejects are
// passed over, and so are people in the combined search.
func (e *Engine) Resolve(ctx context.Context, filename, apiKey string) Outcome {
	parsed := release.Parse(filename)
	out := Outcome{Parsed: parsed}

	if strings.TrimSpace(apiKey) == "" {
		out.Diagnostic = DiagnosticNoKey
		return out
	}

	log := e.log.WithFields(logrus.Fields{
		"filename": filename,
		"title":    parsed.Title,
		"kind":     parsed.Kind(),
	})
	log.WithFields(parsedFields(parsed)).Debug("parsed release")

	if !parsed.HasTitle() {
		out.Diagnostic = DiagnosticNoMatch
		return out
	}

	// Typed search, with year
	tier := TierMovie
	search := e.searcher.SearchMovies
	if !parsed.IsMovie {
		tier = TierTV
		search = e.searcher.SearchTv
	}
	resp, err := search(ctx, apiKey, parsed.Title, parsed.Year, 1)
	if err != nil {
		e.recordFailure(&out, log, tier, err)
	}
	for _, hit := range results(resp) {
		if m, ok := media.FromHit(hit, parsed.IsMovie); ok {
			out.Media, out.Tier = m, tier
			log.WithFields(logrus.Fields{"tier": tier, "id": m.ID}).Debug("resolved")
			return out
		}
	}

	// Combined search, title only
	resp, err = e.searcher.SearchMulti(ctx, apiKey, parsed.Title, 1)
	if err != nil {
		e.recordFailure(&out, log, TierMulti, err)
	}
	for _, hit := range results(resp) {
		isMovie, ok := disambiguate(hit)
		if !ok {
			continue
		}
		if m, ok := media.FromHit(hit, isMovie); ok {
			out.Media, out.Tier = m, TierMulti
			log.WithFields(logrus.Fields{"tier": TierMulti, "id": m.ID, "media_type": m.MediaType}).Debug("resolved")
			return out
		}
	}

	out.Diagnostic = DiagnosticNoMatch
	log.Debug("no match")
	return out
}

func (e *Engine) recordFailure(out *Outcome, log logrus.FieldLogger, tier Tier, err error) {
	out.Errors = append(out.Errors, &TierError{Tier: tier, Err: err})
	log.WithFields(logrus.Fields{"tier": tier, "error": err}).Warn("search failed")
}

// disambiguate decides whether a combined search hit is a movie. People are
// never media and are skipped.
func disambiguate(hit provider.SearchHit) (isMovie bool, ok bool) {
	switch hit.Kind() {
	case provider.KindMovie:
		return true, true
	case provider.KindTV:
		return false, true
	case provider.KindPerson:
		return false, false
	}
	return hit.Title != nil && strings.TrimSpace(*hit.Title) != "", true
}

func results(resp *provider.SearchResponse) []provider.SearchHit {
	if resp == nil {
		return nil
	}
	return resp.Results
}

func parsedFields(p release.ParsedRelease) logrus.Fields {
	fields := logrus.Fields{}
	if p.Year != nil {
		fields["year"] = *p.Year
	}
	if p.Season != nil {
		fields["season"] = *p.Season
	}
	if p.Episode != nil {
		fields["episode"] = *p.Episode
	}
	return fields
}
