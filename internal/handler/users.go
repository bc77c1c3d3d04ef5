package handler

import (
	"errors"
	"net/http"

	"QrestAPI/internal/auth"
	"QrestAPI/internal/repository"
	"QrestAPI/internal/service"
)

// UserHandlers — HTTP-обвязка пользователей организации.
type UserHandlers struct {
	svc *service.UserService
}

func NewUserHandlers(svc *service.UserService) *UserHandlers {
	return &UserHandlers{svc: svc}
}

// Index — GET /api/v1/users: пользователи организации вызывающего.
func (h *UserHandlers) Index(w http.ResponseWriter, r *http.Request) {
	p, ok := tenantPrincipal(w, r)
	if !ok {
		return
	}
	params, err := listParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.svc.List(r.Context(), p.OrganizationID, params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// provisionalUser возвращается из /users/self, когда пользователя ещё
// нет в базе: токен валиден, но организация не заведена.
type provisionalUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Self — GET /api/v1/users/self: пользователь по email токена либо
// заготовка из клеймов, если записи ещё нет.
func (h *UserHandlers) Self(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if p.Email == "" {
		writeError(w, r, auth.ErrUnauthorized)
		return
	}

	user, err := h.svc.GetSelf(r.Context(), p.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusOK, provisionalUser{Name: p.Name, Email: p.Email})
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Delete — DELETE /api/v1/users/{id}. Себя удалить нельзя.
func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := tenantPrincipal(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), p.OrganizationID, p.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
