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

type MemberHandler struct {
	service   *service.MemberService
	validator *validator.Validate
}

func NewMemberHandler(service *service.MemberService) *MemberHandler {
	return &MemberHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	member, err := h.service.Create(r.Context(), &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, member)
}

func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid member id", err)
		return
	}

	member, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, member)
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.List(r.Context())
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, members)
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid member id", err)
		return
	}

	var request domain.UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	member, err := h.service.Update(r.Context(), id, &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, member)
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid member id", err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.BusinessError(w, err)
		return
	}

	response.NoContent(w)
}
