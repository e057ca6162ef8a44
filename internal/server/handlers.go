package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/onproapp/website-backend/internal/domain"
	"github.com/onproapp/website-backend/internal/service"
)

// APIHandlers exposes HTTP handlers for the form endpoints.
type APIHandlers struct {
	logger   *slog.Logger
	waitlist *service.WaitlistService
	leads    *service.LeadService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, waitlist *service.WaitlistService, leads *service.LeadService) *APIHandlers {
	return &APIHandlers{
		logger:   logger,
		waitlist: waitlist,
		leads:    leads,
	}
}

func (h *APIHandlers) handleWaitlist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload signupRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	addr := ClientAddress(r)
	id, err := h.waitlist.Submit(r.Context(), domain.SignupRequest{
		Name:     payload.Name,
		Email:    payload.Email,
		UserType: payload.UserType,
		City:     payload.City,
		Role:     payload.Role,
	}, addr)
	if err != nil {
		h.writeSubmitError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, waitlistResponse{
		Success:    true,
		WaitlistID: id,
	})
}

func (h *APIHandlers) handleLeads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	kind := strings.TrimPrefix(r.URL.Path, "/api/leads/")
	kind = strings.Trim(kind, "/")

	var payload leadRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	addr := ClientAddress(r)
	id, err := h.leads.Submit(r.Context(), domain.LeadKind(kind), domain.LeadRequest{
		Name:    payload.Name,
		Email:   payload.Email,
		Subject: payload.Subject,
		Message: payload.Message,
	}, addr)
	if err != nil {
		h.writeSubmitError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, leadResponse{
		Success: true,
		LeadID:  id,
	})
}

// writeSubmitError maps service errors onto the response taxonomy: validation
// and duplicate failures are 400 with the message echoed, quota rejections are
// 429, anything else is a generic 500 with details logged only.
func (h *APIHandlers) writeSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Too many signup attempts. Please try again later.")
	default:
		h.logger.Error("form submission failed",
			"error", err,
			"path", r.URL.Path,
			"requestId", requestIDFromContext(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}

// --- Request & Response DTOs ---

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
	City     string `json:"city"`
	Role     string `json:"role"`
}

type leadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type waitlistResponse struct {
	Success    bool   `json:"success"`
	WaitlistID string `json:"waitlistId"`
}

type leadResponse struct {
	Success bool   `json:"success"`
	LeadID  string `json:"leadId"`
}

// --- Helpers ---

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
