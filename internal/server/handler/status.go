package handler

import (
	"context"
	"net/http"
)

// CaptureStatus is the collector surface the status endpoint reads.
type CaptureStatus interface {
	CaptureActive() bool
	UsedToday(ctx context.Context) (int, error)
}

// StatusHandler serves the engine status for the dashboard.
type StatusHandler struct {
	engine  Engine
	capture CaptureStatus
	mode    string
}

// NewStatusHandler creates a StatusHandler. capture may be nil when the
// process runs without a collector (serve-only mode).
func NewStatusHandler(engine Engine, capture CaptureStatus, mode string) *StatusHandler {
	return &StatusHandler{engine: engine, capture: capture, mode: mode}
}

// GetStatus responds with the latest detection summary, the active profile,
// and the collector's capture state.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()

	resp := map[string]any{
		"mode":              h.mode,
		"opportunity_count": st.OpportunityCount,
		"active_count":      st.ActiveCount,
		"cycle_count":       st.CycleCount,
		"arbitrage_count":   st.ArbitrageCount,
		"active_profile":    st.ActiveProfile,
		"last_run":          st.LastRun,
	}

	if h.capture != nil {
		resp["capture_active"] = h.capture.CaptureActive()
		if used, err := h.capture.UsedToday(r.Context()); err == nil {
			resp["requests_today"] = used
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
