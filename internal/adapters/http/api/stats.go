package api

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

// StatsProvider exposes the service counters shown by GET /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the service counters, whole or one section at a time.
type StatsHandler struct {
	stats StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(stats StatsProvider) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HandleStats handles GET /stats and GET /stats?section=<key>.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_stats"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	all := h.stats.GetStats()
	section := strings.TrimSpace(r.URL.Query().Get("section"))
	if section == "" {
		writeJSON(w, http.StatusOK, all)
		return
	}
	v, ok := all[section]
	if !ok {
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		err := errors.New("unknown section " + section + "; known: " + strings.Join(keys, ", "))
		writeError(w, http.StatusNotFound, "unknown_section", wrapKind(op, ErrNotFound, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{section: v})
}
