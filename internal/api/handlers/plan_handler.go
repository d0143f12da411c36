package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sandy853/TaskForge-AI/internal/auth"
	"github.com/Sandy853/TaskForge-AI/internal/models"
	"github.com/Sandy853/TaskForge-AI/internal/services"
	"github.com/rs/zerolog/log"
)

// PlanHandler handles HTTP requests for plan persistence, generation and
// the derived read endpoints.
type PlanHandler struct {
	service services.PlannerServiceProvider
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(service services.PlannerServiceProvider) *PlanHandler {
	return &PlanHandler{service: service}
}

// TaskInput is the body of a plan-generation request.
type TaskInput struct {
	Tasks string `json:"tasks"`
}

// StatusResponse is the envelope used by ping and analytics.
type StatusResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// currentUser pulls the authenticated username out of the request context.
// The auth middleware guarantees it is set on every protected route.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, ok := auth.UserFromContext(r.Context())
	if !ok {
		log.Error().Str("path", r.URL.Path).Msg("No authenticated user in request context")
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return "", false
	}
	return username, true
}

// Ping is the unauthenticated liveness probe.
func (h *PlanHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "success",
		Message: "Backend is up and running!",
	})
}

// Load returns the user's stored plan, or null when none exists.
func (h *PlanHandler) Load(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUser(w, r)
	if !ok {
		return
	}

	plan, err := h.service.LoadPlan(username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to load plan")
		http.Error(w, "Could not load existing plan.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// Save overwrites the user's stored plan with the request body.
func (h *PlanHandler) Save(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUser(w, r)
	if !ok {
		return
	}

	var plan models.Plan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := plan.Validate(); err != nil {
		http.Error(w, "Invalid plan: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.SavePlan(username, &plan); err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to save plan")
		http.Error(w, "Could not save plan.", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Create runs the generation pipeline over the submitted task text and
// returns the resulting plan.
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUser(w, r)
	if !ok {
		return
	}

	var input TaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.service.CreatePlan(r.Context(), username, input.Tasks)
	if err != nil {
		// Detail is logged inside the service; the client gets one
		// generic failure for format and schema cases alike.
		if errors.Is(err, services.ErrBadModelOutput) {
			http.Error(w, "AI response format invalid.", http.StatusInternalServerError)
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Plan generation failed")
		http.Error(w, "Could not generate plan.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// Today returns the tasks whose deadline matches today's date.
func (h *PlanHandler) Today(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUser(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.TodaysTasks(username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to fetch today's tasks")
		http.Error(w, "Could not retrieve today's tasks.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// Analytics returns completed-task counts grouped by category.
func (h *PlanHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUser(w, r)
	if !ok {
		return
	}

	counts, err := h.service.Analytics(username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to compute analytics")
		http.Error(w, "Could not retrieve analytics data.", http.StatusInternalServerError)
		return
	}

	message := "Analytics data retrieved."
	if len(counts) == 0 {
		message = "No data for analysis yet."
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "success",
		Message: message,
		Data:    counts,
	})
}
