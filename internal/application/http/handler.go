package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hirehub/backend/internal/application/domain"
	"github.com/hirehub/backend/internal/application/service"
	commonerrors "github.com/hirehub/backend/internal/common/errors"
	commonhttp "github.com/hirehub/backend/internal/common/http"
	"github.com/hirehub/backend/internal/common/jwtverify"
	"github.com/hirehub/backend/internal/common/logger"
)

type Handler struct {
	apps *service.ApplicationService
	log  *logger.Logger
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type applicationResponse struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message"`
	Application domain.Application `json:"application"`
}

func NewHandler(apps *service.ApplicationService, log *logger.Logger) *Handler {
	return &Handler{apps: apps, log: log}
}

// Routes registers the application endpoints on r, relative to /api/v1.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/application/apply/{jobId}", h.apply)
	r.Patch("/application/status/{id}/update", h.updateStatus)
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrUnauthorized, h.log)
		return
	}

	jobID := chi.URLParam(r, "jobId")
	if err := commonhttp.ValidateUUID(jobID); err != nil {
		commonhttp.HandleError(w, r, commonerrors.ErrJobNotFound.WithCause(err), h.log)
		return
	}

	app, err := h.apps.Apply(r.Context(), claims.UserID, jobID)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, applicationResponse{
		Success:     true,
		Message:     "Job applied successfully",
		Application: app,
	})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrUnauthorized, h.log)
		return
	}

	applicationID := chi.URLParam(r, "id")
	if err := commonhttp.ValidateUUID(applicationID); err != nil {
		commonhttp.HandleError(w, r, commonerrors.ErrApplicationNotFound.WithCause(err), h.log)
		return
	}

	var req updateStatusRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.HandleError(w, r, commonerrors.ErrInvalidPayload.WithCause(err), h.log)
		return
	}
	if err := commonhttp.ValidateStruct(req); err != nil {
		commonhttp.HandleError(w, r, commonerrors.ErrInvalidApplicationStatus.WithCause(err), h.log)
		return
	}

	app, err := h.apps.UpdateStatus(r.Context(), claims.UserID, applicationID, req.Status)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, applicationResponse{
		Success:     true,
		Message:     "Status updated successfully",
		Application: app,
	})
}
