// Package api serves the discovery HTTP surface.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/kaspa-ecosystem/discovery/internal/domain/dedupe"
	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
	"github.com/kaspa-ecosystem/discovery/internal/domain/preference"
	"github.com/kaspa-ecosystem/discovery/internal/domain/scoring"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Discovery is what the handlers need from the discovery core.
type Discovery interface {
	RefreshTrending(ctx context.Context, limit int) model.Ranking
	RefreshRecommendations(ctx context.Context, limit int) model.Ranking
	Refresh(ctx context.Context, limit int) (trending, recommendations model.Ranking)

	Mode() scoring.Mode
	Weights() scoring.WeightProfile
	SetMode(ctx context.Context, m scoring.Mode, limit int) (trending, recommendations model.Ranking, err error)

	Profile() preference.Profile

	TrackView(ctx context.Context, projectID string)
	TrackRating(ctx context.Context, projectID string, rating int)
	TrackSearch(ctx context.Context, query string)
	TrackCategory(ctx context.Context, category string)
	TrackTimeSpent(ctx context.Context, projectID string, d time.Duration)
	ClearHistory(ctx context.Context)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	rankingsHandler     *RankingsHandler
	interactionsHandler *InteractionsHandler
	modeHandler         *ModeHandler

	defaultLimit int
	maxLimit     int
}

// NewServer creates a new API server with all handlers.
func NewServer(disc Discovery, dd dedupe.Deduper, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{defaultLimit: defaultLimit, maxLimit: maxLimit}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaultLimit > s.maxLimit {
		s.defaultLimit = s.maxLimit
	}
	limits := limitParser{def: s.defaultLimit, max: s.maxLimit}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.rankingsHandler = NewRankingsHandler(disc, limits)
	s.interactionsHandler = NewInteractionsHandler(disc, dd)
	s.modeHandler = NewModeHandler(disc, limits)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", instrument("healthz", s.healthHandler.HandleHealth))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("/stats", instrument("stats", s.statsHandler.HandleStats))
	mux.HandleFunc("/trending", instrument("trending", s.rankingsHandler.HandleTrending))
	mux.HandleFunc("/recommendations", instrument("recommendations", s.rankingsHandler.HandleRecommendations))
	mux.HandleFunc("/profile", instrument("profile", s.rankingsHandler.HandleProfile))
	mux.HandleFunc("/interactions", instrument("interactions", s.interactionsHandler.HandleInteractions))
	mux.HandleFunc("/mode", instrument("mode", s.modeHandler.HandleMode))
	mux.HandleFunc("/refresh", instrument("refresh", s.modeHandler.HandleRefresh))
}

type limitParser struct {
	def, max int
}

// parse reads ?limit=N. A missing value yields the default.
func (p limitParser) parse(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return p.def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > p.max {
		return 0, errLimit{max: p.max}
	}
	return n, nil
}

type errLimit struct{ max int }

func (e errLimit) Error() string {
	return "limit must be an integer between 1 and " + strconv.Itoa(e.max)
}

type statusResponse struct {
	Status  string `json:"status"`
	EventID string `json:"event_id,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	for _, m := range allowed {
		w.Header().Add("Allow", m)
	}
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
}
