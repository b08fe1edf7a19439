package handler

import (
	"log/slog"
	"net/http"
	"time"
)

// DetectHandler serves the on-demand detection trigger.
type DetectHandler struct {
	logger    *slog.Logger
	triggerCh chan<- struct{} // when non-nil, sending triggers one detection run
}

// NewDetectHandler creates a DetectHandler with the given logger.
func NewDetectHandler(logger *slog.Logger) *DetectHandler {
	return &DetectHandler{logger: logHandler(logger, "detect")}
}

// WithTriggerChannel sets the channel to send on when a run is requested.
// The detection loop must receive from this channel to run one cycle.
func (h *DetectHandler) WithTriggerChannel(ch chan<- struct{}) *DetectHandler {
	h.triggerCh = ch
	return h
}

// TriggerRun enqueues one detection run. The send is non-blocking so repeated
// requests collapse into a single pending run.
// POST /api/detect/run
func (h *DetectHandler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "detection run requested")
	if h.triggerCh != nil {
		select {
		case h.triggerCh <- struct{}{}:
		default:
			// already triggered and not yet consumed
		}
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":       "accepted",
		"message":      "detection run enqueued",
		"requested_at": time.Now().UTC().Format(time.RFC3339),
	})
}
