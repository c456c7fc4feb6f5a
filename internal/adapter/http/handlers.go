package http

import (
	"net/http"

	"github.com/Strob0t/Concierge/internal/port/capability"
	"github.com/Strob0t/Concierge/internal/service"
)

// Handlers bundles the services the HTTP surface exposes.
type Handlers struct {
	Orchestrator *service.Orchestrator
	Profiles     *service.ProfileService
	Directory    capability.Directory
}

type createSessionRequest struct {
	UserID string `json:"user_id"`
	Input  string `json:"input"`
}

// CreateSession handles POST /api/v1/sessions. It runs the request
// through intake, validation, drafting and conflict checking and returns
// the proposed plans plus the approval token.
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[createSessionRequest](w, r)
	if !ok {
		return
	}
	if !requireField(w, req.UserID, "user_id") || !requireField(w, req.Input, "input") {
		return
	}

	res, err := h.Orchestrator.Submit(r.Context(), req.UserID, req.Input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type approveSessionRequest struct {
	Token       string `json:"token"`
	ChosenIndex int    `json:"chosen_index"`
	Accepted    bool   `json:"accepted"`
	Reason      string `json:"reason,omitempty"`
}

// ApproveSession handles POST /api/v1/sessions/{id}/approve. An accepted
// decision executes the chosen plan and returns the per-step results; a
// rejected one fails the session.
func (h *Handlers) ApproveSession(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[approveSessionRequest](w, r)
	if !ok {
		return
	}
	if !requireField(w, req.Token, "token") {
		return
	}

	summary, err := h.Orchestrator.Approve(r.Context(), service.ApproveRequest{
		SessionID:   urlParam(r, "id"),
		Token:       req.Token,
		ChosenIndex: req.ChosenIndex,
		Accepted:    req.Accepted,
		Reason:      req.Reason,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetSession handles GET /api/v1/sessions/{id}.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.Orchestrator.Status(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// GetSessionReport handles GET /api/v1/sessions/{id}/report.
func (h *Handlers) GetSessionReport(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Orchestrator.Report(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetProfile handles GET /api/v1/users/{id}/profile.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Profiles.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PreferredArchetype handles GET /api/v1/users/{id}/profile/archetype.
// It reports the archetype the user selects most for a category, ties
// broken by most recent selection.
func (h *Handlers) PreferredArchetype(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if !requireField(w, category, "category") {
		return
	}

	p, err := h.Profiles.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	archetype, ok := p.PreferredArchetype(category)
	if !ok {
		writeError(w, http.StatusNotFound, "no selections recorded for category")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"category":  category,
		"archetype": string(archetype),
	})
}

// ListOutcomes handles GET /api/v1/users/{id}/outcomes.
func (h *Handlers) ListOutcomes(w http.ResponseWriter, r *http.Request) {
	outcomes, err := h.Profiles.History(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomes)
}

type rateOutcomeRequest struct {
	Rating int `json:"rating"`
}

// RateOutcome handles POST /api/v1/users/{id}/outcomes/{outcomeId}/rating.
// The rating re-runs the preference learner's reinforcement rules.
func (h *Handlers) RateOutcome(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[rateOutcomeRequest](w, r)
	if !ok {
		return
	}

	err := h.Profiles.RateOutcome(r.Context(), urlParam(r, "id"), urlParam(r, "outcomeId"), req.Rating)
	if err != nil {
		if req.Rating < 1 || req.Rating > 5 {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCapabilities handles GET /api/v1/capabilities.
func (h *Handlers) ListCapabilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Directory.List(r.Context()))
}

// CapabilityHealth handles GET /api/v1/capabilities/health.
func (h *Handlers) CapabilityHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Directory.HealthCheck(r.Context()))
}
