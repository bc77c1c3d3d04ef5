package router

import (
	"net/http"
	"strings"

	"QrestAPI/internal/config"
)

// corsPolicy — разобранная конфигурация CORS. Список origins парсится
// один раз при сборке роутера, а не на каждый запрос.
type corsPolicy struct {
	origins     []string
	wildcard    bool
	credentials bool
}

func newCORSPolicy(cfg config.CORSConfig) corsPolicy {
	p := corsPolicy{credentials: cfg.AllowCredentials}
	for _, o := range strings.Split(cfg.AllowOrigin, ",") {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if o == "*" {
			p.wildcard = true
		}
		p.origins = append(p.origins, o)
	}
	return p
}

// allowOrigin возвращает значение Access-Control-Allow-Origin для
// запроса и признак, что ответ зависит от заголовка Origin.
func (p corsPolicy) allowOrigin(requestOrigin string) (string, bool) {
	if len(p.origins) == 0 {
		return "*", false
	}
	if p.wildcard {
		// Со звёздочкой credentials не работают, отражаем Origin запроса.
		if p.credentials && requestOrigin != "" {
			return requestOrigin, true
		}
		return "*", false
	}
	if requestOrigin != "" {
		for _, o := range p.origins {
			if o == requestOrigin {
				return requestOrigin, true
			}
		}
	}
	return "", true
}

// wrap навешивает CORS-заголовки и закрывает preflight-запросы.
func (p corsPolicy) wrap(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value, vary := p.allowOrigin(r.Header.Get("Origin"))
		if value != "" {
			w.Header().Set("Access-Control-Allow-Origin", value)
		}
		if vary {
			w.Header().Set("Vary", "Origin")
		}
		if p.credentials {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id, X-User-ID, X-User-Email, X-User-Name, X-Organization-ID")
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-Id")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		h(w, r)
	}
}
