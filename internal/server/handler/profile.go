package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

// ProfileHandler serves the cycle-profile endpoints.
type ProfileHandler struct {
	engine Engine
	logger *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(engine Engine, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		engine: engine,
		logger: logHandler(logger, "profile"),
	}
}

// ListProfiles returns all known profiles and which one is active.
// GET /api/profiles
func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	active, _ := h.engine.ActiveProfile()
	writeJSON(w, http.StatusOK, map[string]any{
		"active":   active,
		"profiles": h.engine.Profiles(),
	})
}

// SetActiveProfile switches the profile used by the next detection run.
// PUT /api/profiles/active
func (h *ProfileHandler) SetActiveProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.engine.SetProfile(req.Name); err != nil {
		if errors.Is(err, domain.ErrUnknownProfile) {
			writeError(w, http.StatusBadRequest, "unknown profile: "+req.Name)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.logger.InfoContext(r.Context(), "profile switched", slog.String("profile", req.Name))

	active, profile := h.engine.ActiveProfile()
	writeJSON(w, http.StatusOK, map[string]any{
		"active":  active,
		"profile": profile,
	})
}

// SetCustomProfile overwrites the custom profile and activates it.
// PUT /api/profiles/custom
func (h *ProfileHandler) SetCustomProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GreenTarget     float64 `json:"green_target"`
		MaxRed          float64 `json:"max_red"`
		RiskRewardRatio int     `json:"risk_reward_ratio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GreenTarget <= 0 || req.MaxRed <= 0 {
		writeError(w, http.StatusBadRequest, "green_target and max_red must be positive")
		return
	}
	if req.RiskRewardRatio <= 0 {
		req.RiskRewardRatio = 3
	}

	h.engine.SetCustomProfile(req.GreenTarget, req.MaxRed, req.RiskRewardRatio)
	if err := h.engine.SetProfile(domain.ProfileCustom); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.logger.InfoContext(r.Context(), "custom profile set",
		slog.Float64("green_target", req.GreenTarget),
		slog.Float64("max_red", req.MaxRed),
		slog.Int("risk_reward_ratio", req.RiskRewardRatio),
	)

	active, profile := h.engine.ActiveProfile()
	writeJSON(w, http.StatusOK, map[string]any{
		"active":  active,
		"profile": profile,
	})
}
