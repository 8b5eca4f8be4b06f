package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Digital-Shane/release-lens/internal/config"
	"github.com/Digital-Shane/release-lens/internal/core"
	"github.com/Digital-Shane/release-lens/internal/media"
	"github.com/Digital-Shane/release-lens/internal/provider"
	"github.com/Digital-Shane/release-lens/internal/release"
	"github.com/gorilla/mux"
)

// ResolveResponse is the body returned by the resolve endpoint
type ResolveResponse struct {
	Loading    bool                  `json:"loading"`
	Media      *media.ResolvedMedia  `json:"media,omitempty"`
	Diagnostic core.Diagnostic       `json:"diagnostic,omitempty"`
	Message    string                `json:"message,omitempty"`
	Parsed     release.ParsedRelease `json:"parsed"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}

// Health reports liveness
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Parse returns the parsed form of the name query parameter
func (s *Server) Parse(w http.ResponseWriter, r *http.Request) {
	name, ok := nameParam(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, release.Parse(name))
}

// Resolve looks the name query parameter up. A missing key or a miss is a
// successful response carrying a diagnostic.
func (s *Server) Resolve(w http.ResponseWriter, r *http.Request) {
	name, ok := nameParam(w, r)
	if !ok {
		return
	}

	out := s.resolver.Resolve(r.Context(), name, config.APIKey(s.keys))
	resp := ResolveResponse{
		Media:      out.Media,
		Diagnostic: out.Diagnostic,
		Message:    out.Diagnostic.Message(),
		Parsed:     out.Parsed,
	}
	respondJSON(w, http.StatusOK, resp)
}

// MovieDetails returns the full movie record for an id
func (s *Server) MovieDetails(w http.ResponseWriter, r *http.Request) {
	id, key, ok := s.detailParams(w, r)
	if !ok {
		return
	}
	rec, err := s.details.GetMovieDetails(r.Context(), id, key)
	if err != nil {
		s.detailError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// TvDetails returns the full tv record for an id
func (s *Server) TvDetails(w http.ResponseWriter, r *http.Request) {
	id, key, ok := s.detailParams(w, r)
	if !ok {
		return
	}
	rec, err := s.details.GetTvDetails(r.Context(), id, key)
	if err != nil {
		s.detailError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func nameParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, "query parameter 'name' is required")
		return "", false
	}
	return name, true
}

func (s *Server) detailParams(w http.ResponseWriter, r *http.Request) (int, string, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, "", false
	}
	key := config.APIKey(s.keys)
	if key == "" {
		respondError(w, http.StatusConflict, core.DiagnosticNoKey.Message())
		return 0, "", false
	}
	return id, key, true
}

func (s *Server) detailError(w http.ResponseWriter, r *http.Request, err error) {
	var perr *provider.ProviderError
	if errors.As(err, &perr) && perr.Code == provider.CodeNotFound {
		respondError(w, http.StatusNotFound, perr.Message)
		return
	}
	s.logger.WithField("request_id", RequestIDFrom(r.Context())).WithError(err).Warn("detail lookup failed")
	respondError(w, http.StatusBadGateway, err.Error())
}
