package handler

import (
	"net/http"

	"QrestAPI/internal/auth"
	"QrestAPI/internal/service"
)

// OrganizationHandlers — HTTP-обвязка организаций.
type OrganizationHandlers struct {
	svc *service.OrganizationService
}

func NewOrganizationHandlers(svc *service.OrganizationService) *OrganizationHandlers {
	return &OrganizationHandlers{svc: svc}
}

type createOrganizationRequest struct {
	Name string `json:"name"`
}

// Create — POST /api/v1/organizations: новая организация, вызывающий
// становится её первым пользователем. Вызывающий ещё без арендатора.
func (h *OrganizationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if p.Email == "" {
		writeError(w, r, auth.ErrUnauthorized)
		return
	}
	var req createOrganizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "name is required"})
		return
	}

	org, err := h.svc.Create(r.Context(), service.CreateOrganizationParams{
		Name:      req.Name,
		UserName:  p.Name,
		UserEmail: p.Email,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, org)
}

// Self — GET /api/v1/organizations/self.
func (h *OrganizationHandlers) Self(w http.ResponseWriter, r *http.Request) {
	p, ok := tenantPrincipal(w, r)
	if !ok {
		return
	}
	org, err := h.svc.GetSelf(r.Context(), p.OrganizationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// DeleteSelf — DELETE /api/v1/organizations/self: организация вызывающего
// удаляется вместе с пользователями. Ответ — удалённая строка.
func (h *OrganizationHandlers) DeleteSelf(w http.ResponseWriter, r *http.Request) {
	p, ok := tenantPrincipal(w, r)
	if !ok {
		return
	}
	org, err := h.svc.DeleteSelf(r.Context(), p.OrganizationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}
