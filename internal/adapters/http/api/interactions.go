package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/kaspa-ecosystem/discovery/internal/domain/dedupe"
	"github.com/kaspa-ecosystem/discovery/internal/domain/interaction"
	"github.com/kaspa-ecosystem/discovery/internal/validation"
	"github.com/kaspa-ecosystem/discovery/pkg/logger"
	"github.com/kaspa-ecosystem/discovery/pkg/metrics"
)

// InteractionsHandler records user interactions.
type InteractionsHandler struct {
	disc Discovery
	dd   dedupe.Deduper
}

// NewInteractionsHandler creates a new interactions handler.
func NewInteractionsHandler(disc Discovery, dd dedupe.Deduper) *InteractionsHandler {
	return &InteractionsHandler{disc: disc, dd: dd}
}

// interactionRequest mirrors the OpenAPI schema for POST /interactions.
type interactionRequest struct {
	EventID    string `json:"event_id" validate:"omitempty,max=128"`
	Type       string `json:"type" validate:"required,oneof=view rating search category time_spent"`
	ProjectID  string `json:"project_id" validate:"omitempty,max=128"`
	Rating     int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Query      string `json:"query" validate:"omitempty,max=256"`
	Category   string `json:"category" validate:"omitempty,max=128"`
	DurationMS int64  `json:"duration_ms" validate:"gte=0"`
}

func (req interactionRequest) validate() error {
	if err := validation.ValidateStruct(req); err != nil {
		return err
	}
	var missing string
	switch req.Type {
	case interaction.TypeView:
		if strings.TrimSpace(req.ProjectID) == "" {
			missing = "project_id"
		}
	case interaction.TypeRating:
		switch {
		case strings.TrimSpace(req.ProjectID) == "":
			missing = "project_id"
		case req.Rating == 0:
			missing = "rating"
		}
	case interaction.TypeSearch:
		if strings.TrimSpace(req.Query) == "" {
			missing = "query"
		}
	case interaction.TypeCategory:
		if strings.TrimSpace(req.Category) == "" {
			missing = "category"
		}
	case interaction.TypeTimeSpent:
		switch {
		case strings.TrimSpace(req.ProjectID) == "":
			missing = "project_id"
		case req.DurationMS == 0:
			missing = "duration_ms"
		}
	}
	if missing != "" {
		return errors.New(missing + " is required for " + req.Type)
	}
	return nil
}

// HandleInteractions handles POST and DELETE /interactions requests.
func (h *InteractionsHandler) HandleInteractions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.record(w, r)
	case http.MethodDelete:
		h.disc.ClearHistory(r.Context())
		writeJSON(w, http.StatusOK, statusResponse{Status: "cleared"})
	default:
		methodNotAllowed(w, http.MethodPost, http.MethodDelete)
	}
}

func (h *InteractionsHandler) record(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_interaction"
	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if req.EventID == "" {
		req.EventID = uuid.NewString()
	}

	ctx := logger.WithFields(r.Context(),
		logger.String("event_id", req.EventID),
		logger.String("type", req.Type))
	if h.dd.SeenAndRecord(ctx, req.EventID) {
		metrics.RecordInteractionDuplicate()
		writeJSON(w, http.StatusOK, statusResponse{Status: "duplicate", EventID: req.EventID})
		return
	}
	if err := ctx.Err(); err != nil {
		h.dd.Unrecord(ctx, req.EventID)
		writeError(w, http.StatusServiceUnavailable, "unavailable", wrapKind(op, ErrUnavailable, err))
		return
	}

	switch req.Type {
	case interaction.TypeView:
		h.disc.TrackView(ctx, req.ProjectID)
	case interaction.TypeRating:
		h.disc.TrackRating(ctx, req.ProjectID, req.Rating)
	case interaction.TypeSearch:
		h.disc.TrackSearch(ctx, req.Query)
	case interaction.TypeCategory:
		h.disc.TrackCategory(ctx, req.Category)
	case interaction.TypeTimeSpent:
		h.disc.TrackTimeSpent(ctx, req.ProjectID, time.Duration(req.DurationMS)*time.Millisecond)
	}
	writeJSON(w, http.StatusAccepted, statusResponse{Status: "recorded", EventID: req.EventID})
}
