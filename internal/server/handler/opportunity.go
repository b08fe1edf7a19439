package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

// OpportunityHandler serves the opportunity endpoints for the dashboard.
type OpportunityHandler struct {
	engine Engine
	logger *slog.Logger
}

// NewOpportunityHandler creates an OpportunityHandler.
func NewOpportunityHandler(engine Engine, logger *slog.Logger) *OpportunityHandler {
	return &OpportunityHandler{
		engine: engine,
		logger: logHandler(logger, "opportunity"),
	}
}

// ListOpportunities returns the current opportunity set. Query parameters
// narrow the view: upcoming=true drops started events, cycle=true keeps only
// cycle-ready entries, team=<name> filters by team substring.
// GET /api/opportunities
func (h *OpportunityHandler) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	var opps []domain.Opportunity

	cycleOnly := boolParam(r, "cycle")
	team := strings.TrimSpace(r.URL.Query().Get("team"))
	switch {
	case team != "":
		opps = h.engine.FindByTeam(strings.Fields(team))
	case boolParam(r, "upcoming"):
		opps = h.engine.ActiveOpportunities(time.Now().UTC(), cycleOnly)
	case cycleOnly:
		opps = h.engine.CycleOpportunities()
	default:
		opps = h.engine.Opportunities()
	}

	if limit := parseLimit(r); len(opps) > limit {
		opps = opps[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":         len(opps),
		"opportunities": opps,
	})
}

// GetOpportunity returns the opportunity detected for one event.
// GET /api/opportunities/{eventID}
func (h *OpportunityHandler) GetOpportunity(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "missing event id")
		return
	}

	opp, err := h.engine.GetByEvent(eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no opportunity for event "+eventID)
			return
		}
		h.logger.ErrorContext(r.Context(), "get opportunity failed",
			slog.String("event_id", eventID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, opp)
}
