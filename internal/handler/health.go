package handler

import (
	"net/http"

	"QrestAPI/internal/db"
)

type healthResponse struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}

// Health — GET /health: пингует Postgres и Redis. Любой лежащий
// компонент опускает статус до 503.
func Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Postgres: "up", Redis: "up"}
	status := http.StatusOK

	if db.Pool == nil || db.Pool.Ping(r.Context()) != nil {
		resp.Postgres = "down"
	}
	if db.PingRedis(r.Context()) != nil {
		resp.Redis = "down"
	}
	if resp.Postgres == "down" || resp.Redis == "down" {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}
