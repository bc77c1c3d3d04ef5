package handler

import (
	"net/http"

	"QrestAPI/internal/service"
)

// EarthquakeHandlers — HTTP-обвязка каталога событий.
type EarthquakeHandlers struct {
	svc *service.EarthquakeService
}

func NewEarthquakeHandlers(svc *service.EarthquakeService) *EarthquakeHandlers {
	return &EarthquakeHandlers{svc: svc}
}

// Index — GET /api/v1/earthquakes: листинг с фильтрами и курсором.
func (h *EarthquakeHandlers) Index(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal(w, r); !ok {
		return
	}
	p, err := listParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.svc.ListPage(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Show — GET /api/v1/earthquakes/{id}.
func (h *EarthquakeHandlers) Show(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal(w, r); !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

type ingestRequest struct {
	StartDate              string   `json:"start_date"`
	EndDate                string   `json:"end_date"`
	MinMagnitude           *float64 `json:"min_magnitude"`
	Limit                  *int     `json:"limit"`
	SearchCiimGeoImageURL  bool     `json:"search_ciim_geo_image_url"`
	EnforceCiimGeoImageURL bool     `json:"enforce_ciim_geo_image_url"`
}

type ingestResponse struct {
	Count int64 `json:"count"`
}

// Ingest — POST /api/v1/earthquakes/ingest: загрузка окна каталога USGS.
func (h *EarthquakeHandlers) Ingest(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal(w, r); !ok {
		return
	}
	var req ingestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.StartDate == "" || req.EndDate == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "start_date and end_date are required"})
		return
	}

	count, err := h.svc.Ingest(r.Context(), service.IngestParams{
		StartDate:              req.StartDate,
		EndDate:                req.EndDate,
		MinMagnitude:           req.MinMagnitude,
		Limit:                  req.Limit,
		SearchCiimGeoImageURL:  req.SearchCiimGeoImageURL,
		EnforceCiimGeoImageURL: req.EnforceCiimGeoImageURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ingestResponse{Count: count})
}
