package api

import (
	"net/http"
)

// RankingsHandler serves the trending and recommendation lists.
type RankingsHandler struct {
	disc   Discovery
	limits limitParser
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(disc Discovery, limits limitParser) *RankingsHandler {
	return &RankingsHandler{disc: disc, limits: limits}
}

// HandleTrending handles GET /trending?limit=N requests.
func (h *RankingsHandler) HandleTrending(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_trending"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	n, err := h.limits.parse(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.disc.RefreshTrending(r.Context(), n))
}

// HandleRecommendations handles GET /recommendations?limit=N requests.
func (h *RankingsHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recommendations"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	n, err := h.limits.parse(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.disc.RefreshRecommendations(r.Context(), n))
}

// HandleProfile handles GET /profile requests.
func (h *RankingsHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, h.disc.Profile())
}
