package http

import (
	"encoding/json"
	"net/http"

	"github.com/autopay-os/payroll-backend-go/internal/domain/anomaly"
	"github.com/autopay-os/payroll-backend-go/internal/handler/http/response"
	"github.com/autopay-os/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

type AnomalyHandler interface {
	ListAnomalies(w http.ResponseWriter, r *http.Request)
	ResolveAnomaly(w http.ResponseWriter, r *http.Request)
}

type anomalyHandlerImpl struct {
	anomalyService anomaly.AnomalyService
}

func NewAnomalyHandler(anomalyService anomaly.AnomalyService) AnomalyHandler {
	return &anomalyHandlerImpl{anomalyService: anomalyService}
}

func (h *anomalyHandlerImpl) ListAnomalies(w http.ResponseWriter, r *http.Request) {
	companyID, _, _, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "invalid token claims")
		return
	}

	var filter anomaly.AnomalyFilter
	if raw := r.URL.Query().Get("resolved"); raw != "" {
		resolved := raw == "true"
		filter.Resolved = &resolved
	}

	result, err := h.anomalyService.List(r.Context(), companyID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *anomalyHandlerImpl) ResolveAnomaly(w http.ResponseWriter, r *http.Request) {
	companyID, userID, _, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "invalid token claims")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Anomaly ID is required", nil)
		return
	}

	var req anomaly.ResolveAnomalyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id
	req.ResolvedBy = userID

	if err := h.anomalyService.Resolve(r.Context(), companyID, req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Anomaly resolved", nil)
}
