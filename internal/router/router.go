package router

import (
	"net/http"

	"QrestAPI/internal/auth"
	"QrestAPI/internal/config"
	"QrestAPI/internal/handler"
	"QrestAPI/internal/metrics"
)

// Deps — обработчики и настройки, из которых собирается маршрутизатор.
type Deps struct {
	Earthquakes   *handler.EarthquakeHandlers
	Organizations *handler.OrganizationHandlers
	Users         *handler.UserHandlers
	Validator     *auth.JWTValidator
	CORS          config.CORSConfig
	AuthEnabled   bool
}

// New собирает ServeMux: /api/v1 за авторизацией, /health и /metrics
// открыты. Каждый маршрут оборачивается цепочкой
// CORS -> request id -> логирование+метрики -> auth.
func New(d Deps) http.Handler {
	mux := http.NewServeMux()
	cors := newCORSPolicy(d.CORS)

	api := func(pattern string, h http.HandlerFunc) {
		chained := cors.wrap(
			withRequestID(
				withObservability(pattern,
					withAuth(d.Validator, d.AuthEnabled, h))))
		mux.HandleFunc(pattern, chained)
	}
	open := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, withRequestID(withObservability(pattern, h)))
	}

	api("GET /api/v1/earthquakes", d.Earthquakes.Index)
	api("GET /api/v1/earthquakes/{id}", d.Earthquakes.Show)
	api("POST /api/v1/earthquakes/ingest", d.Earthquakes.Ingest)

	api("POST /api/v1/organizations", d.Organizations.Create)
	api("GET /api/v1/organizations/self", d.Organizations.Self)
	api("DELETE /api/v1/organizations/self", d.Organizations.DeleteSelf)

	api("GET /api/v1/users", d.Users.Index)
	api("GET /api/v1/users/self", d.Users.Self)
	api("DELETE /api/v1/users/{id}", d.Users.Delete)

	open("GET /health", handler.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	return mux
}
