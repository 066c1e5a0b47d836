package api

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
	"github.com/kaspa-ecosystem/discovery/internal/domain/scoring"
)

// ModeHandler reads and switches the weighting mode.
type ModeHandler struct {
	disc   Discovery
	limits limitParser
}

// NewModeHandler creates a new mode handler.
func NewModeHandler(disc Discovery, limits limitParser) *ModeHandler {
	return &ModeHandler{disc: disc, limits: limits}
}

type modeRequest struct {
	Mode string `json:"mode"`
}

type modeResponse struct {
	Mode    scoring.Mode          `json:"mode"`
	Weights scoring.WeightProfile `json:"weights"`
	Modes   []scoring.Mode        `json:"modes"`
}

type rankingsResponse struct {
	Mode            scoring.Mode  `json:"mode"`
	Trending        model.Ranking `json:"trending"`
	Recommendations model.Ranking `json:"recommendations"`
}

// HandleMode handles GET and PUT /mode requests.
func (h *ModeHandler) HandleMode(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_mode"
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, modeResponse{
			Mode:    h.disc.Mode(),
			Weights: h.disc.Weights(),
			Modes:   scoring.Modes(),
		})
	case http.MethodPut:
		n, err := h.limits.parse(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
			return
		}
		var req modeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
			return
		}
		m, err := scoring.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown_mode", wrapKind(op, ErrBadRequest, err))
			return
		}
		trending, recs, err := h.disc.SetMode(r.Context(), m, n)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown_mode", wrapKind(op, ErrBadRequest, err))
			return
		}
		writeJSON(w, http.StatusOK, rankingsResponse{Mode: m, Trending: trending, Recommendations: recs})
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut)
	}
}

// HandleRefresh handles POST /refresh requests.
func (h *ModeHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	n, err := h.limits.parse(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	trending, recs := h.disc.Refresh(r.Context(), n)
	writeJSON(w, http.StatusOK, rankingsResponse{Mode: h.disc.Mode(), Trending: trending, Recommendations: recs})
}
