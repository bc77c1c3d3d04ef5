package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"QrestAPI/internal/auth"
	"QrestAPI/internal/db"
	"QrestAPI/internal/filter"
	"QrestAPI/internal/model"
	"QrestAPI/internal/pagination"
	"QrestAPI/internal/repository"
	"QrestAPI/internal/service"
	"QrestAPI/internal/uow"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("write_response_failed")
	}
}

// writeError переводит ошибку нижних слоёв в HTTP-статус и JSON-конверт.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	evt := log.Warn()
	if status >= http.StatusInternalServerError {
		evt = log.Error()
	}
	evt.Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request_failed")

	writeJSON(w, status, errorBody{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, filter.ErrMalformed),
		errors.Is(err, model.ErrUnknownField),
		errors.Is(err, model.ErrOperatorNotAllowed),
		errors.Is(err, model.ErrTypeMismatch),
		errors.Is(err, pagination.ErrInvalidCursor),
		errors.Is(err, pagination.ErrMultiSort),
		errors.Is(err, service.ErrSelfDelete):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, uow.ErrReadOnly), errors.Is(err, repository.ErrTenantImmutable):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken), repository.IsUniqueViolation(err):
		return http.StatusConflict
	case errors.Is(err, db.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON читает тело запроса в dst; мусорный JSON — ошибка клиента.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid_json")
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

// principal достаёт субъекта запроса; без него запрос не авторизован.
func principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, auth.ErrUnauthorized)
		return auth.Principal{}, false
	}
	return p, true
}

// tenantPrincipal — то же, но субъект обязан состоять в организации.
func tenantPrincipal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := principal(w, r)
	if !ok {
		return auth.Principal{}, false
	}
	if p.OrganizationID == 0 {
		writeError(w, r, auth.ErrUnauthorized)
		return auth.Principal{}, false
	}
	return p, true
}
