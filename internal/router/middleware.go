package router

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"QrestAPI/internal/auth"
	"QrestAPI/internal/metrics"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// withRequestID присваивает запросу идентификатор; клиентский
// X-Request-Id уважаем, чтобы не рвать сквозную трассировку.
func withRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next(w, r)
	}
}

// withObservability логирует завершённый запрос и пишет метрики.
// route — шаблон маршрута, им помечаются и метрики, и лог.
func withObservability(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		elapsed := time.Since(start)

		metrics.ObserveRequest(r.Method, route, sw.status, elapsed.Seconds())

		evt := log.Info()
		if sw.status >= 500 {
			evt = log.Error()
		} else if sw.status >= 400 {
			evt = log.Warn()
		}
		evt.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("elapsed", elapsed).
			Str("request_id", w.Header().Get("X-Request-Id")).
			Msg("response")
	}
}

// withAuth кладёт субъекта запроса в контекст. При выключенной проверке
// токенов субъект читается из X-* заголовков — локальная разработка без
// выписывания JWT.
func withAuth(v *auth.JWTValidator, enabled bool, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !enabled {
			next(w, r.WithContext(auth.WithPrincipal(r.Context(), headerPrincipal(r))))
			return
		}

		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w, "missing bearer token")
			return
		}
		claims, err := v.ValidateToken(token)
		if err != nil {
			unauthorized(w, err.Error())
			return
		}
		p, err := auth.PrincipalFromClaims(claims)
		if err != nil {
			unauthorized(w, err.Error())
			return
		}
		next(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
	}
}

func headerPrincipal(r *http.Request) auth.Principal {
	p := auth.Principal{
		Email: r.Header.Get("X-User-Email"),
		Name:  r.Header.Get("X-User-Name"),
	}
	if raw := r.Header.Get("X-User-ID"); raw != "" {
		p.UserID, _ = strconv.ParseInt(raw, 10, 64)
	}
	if raw := r.Header.Get("X-Organization-ID"); raw != "" {
		p.OrganizationID, _ = strconv.ParseInt(raw, 10, 64)
	}
	return p
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
