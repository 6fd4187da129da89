package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/coopcredit/credit-engine/internal/domain"
	"github.com/coopcredit/credit-engine/internal/service"
	"github.com/coopcredit/credit-engine/pkg/response"
)

type ApplicationHandler struct {
	applications *service.ApplicationService
	evaluations  *service.EvaluationService
	validator    *validator.Validate
}

func NewApplicationHandler(
	applications *service.ApplicationService,
	evaluations *service.EvaluationService,
) *ApplicationHandler {
	return &ApplicationHandler{
		applications: applications,
		evaluations:  evaluations,
		validator:    validator.New(),
	}
}

func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	app, err := h.applications.Create(r.Context(), &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, app)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid application id", err)
		return
	}

	app, err := h.applications.Get(r.Context(), id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, app)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	var memberID *uuid.UUID
	if raw := r.URL.Query().Get("memberId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid memberId filter", err)
			return
		}
		memberID = &id
	}

	status := r.URL.Query().Get("status")

	apps, err := h.applications.List(r.Context(), memberID, status)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, apps)
}

// Evaluate triggers the one-time automated decision for an application.
func (h *ApplicationHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid application id", err)
		return
	}

	evaluation, err := h.evaluations.Evaluate(r.Context(), id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, evaluation)
}

func (h *ApplicationHandler) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid application id", err)
		return
	}

	evaluation, err := h.evaluations.GetByApplicationID(r.Context(), id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, evaluation)
}
