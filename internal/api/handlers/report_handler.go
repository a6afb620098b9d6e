package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/stonescan/stonescan-be/internal/auth"
	"github.com/stonescan/stonescan-be/internal/models"
	"github.com/stonescan/stonescan-be/internal/services"
)

// ReportHandler handles HTTP requests for the caller's saved reports.
type ReportHandler struct {
	service services.ReportServiceProvider
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(service services.ReportServiceProvider) *ReportHandler {
	return &ReportHandler{service: service}
}

// ReportPayload defines the structure for report submissions.
type ReportPayload struct {
	Name       string            `json:"name" validate:"required"`
	Prediction models.Prediction `json:"prediction"`
	CreatedAt  string            `json:"createdAt"`
}

// ownerEmail resolves the caller's email from the bearer token claims.
func ownerEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok || claims.Subject == "" {
		log.Error().Msg("Could not retrieve user claims from context")
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return "", false
	}
	return claims.Subject, true
}

// List returns the caller's reports in insertion order.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	email, ok := ownerEmail(w, r)
	if !ok {
		return
	}

	reports, err := h.service.ListReports(email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to list reports")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reports)
}

// Create appends a new report to the caller's list.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	email, ok := ownerEmail(w, r)
	if !ok {
		return
	}

	var payload ReportPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	report, err := h.service.AddReport(email, payload.Name, payload.Prediction, payload.CreatedAt)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to add report")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Report added", "id": report.ID})
}

// Delete removes a report by id. Deleting an id the caller does not have is
// a no-op.
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	email, ok := ownerEmail(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.DeleteReport(email, id); err != nil {
		log.Warn().Err(err).Str("email", email).Str("report_id", id).Msg("Failed to delete report")
		writeDomainError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Report deleted")
}
