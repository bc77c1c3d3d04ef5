package domain

import "time"

// Earthquake — строка таблицы earthquakes. Поля-указатели соответствуют
// NULL-колонкам; USGS не для всех событий присылает полный набор метрик.
type Earthquake struct {
	ID                int64      `db:"id" json:"id"`
	ExternalID        string     `db:"external_id" json:"external_id"`
	Magnitude         *float64   `db:"magnitude" json:"magnitude"`
	MagnitudeType     *string    `db:"magnitude_type" json:"magnitude_type"`
	Place             *string    `db:"place" json:"place"`
	Status            *string    `db:"status" json:"status"`
	EventType         *string    `db:"event_type" json:"event_type"`
	Title             string     `db:"title" json:"title"`
	DetailURL         *string    `db:"detail_url" json:"detail_url"`
	InfoURL           *string    `db:"info_url" json:"info_url"`
	CiimGeoImageURL   *string    `db:"ciim_geo_image_url" json:"ciim_geo_image_url"`
	Significance      *int64     `db:"significance" json:"significance"`
	Tsunami           bool       `db:"tsunami" json:"tsunami"`
	FeltReports       *int64     `db:"felt_reports" json:"felt_reports"`
	CDI               *float64   `db:"cdi" json:"cdi"`
	MMI               *float64   `db:"mmi" json:"mmi"`
	Alert             *string    `db:"alert" json:"alert"`
	StationCount      *int64     `db:"station_count" json:"station_count"`
	MinimumDistance   *float64   `db:"minimum_distance" json:"minimum_distance"`
	RMS               *float64   `db:"rms" json:"rms"`
	Gap               *float64   `db:"gap" json:"gap"`
	Latitude          *float64   `db:"latitude" json:"latitude"`
	Longitude         *float64   `db:"longitude" json:"longitude"`
	DepthKM           *float64   `db:"depth_km" json:"depth_km"`
	OccurredAt        time.Time  `db:"occurred_at" json:"occurred_at"`
	ExternalUpdatedAt *time.Time `db:"external_updated_at" json:"external_updated_at"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	LastUpdatedAt     time.Time  `db:"last_updated_at" json:"last_updated_at"`
}

// Columns отдаёт значения всех колонок строки по имени колонки.
func (e *Earthquake) Columns() map[string]any {
	return map[string]any{
		"id":                  e.ID,
		"external_id":         e.ExternalID,
		"magnitude":           e.Magnitude,
		"magnitude_type":      e.MagnitudeType,
		"place":               e.Place,
		"status":              e.Status,
		"event_type":          e.EventType,
		"title":               e.Title,
		"detail_url":          e.DetailURL,
		"info_url":            e.InfoURL,
		"ciim_geo_image_url":  e.CiimGeoImageURL,
		"significance":        e.Significance,
		"tsunami":             e.Tsunami,
		"felt_reports":        e.FeltReports,
		"cdi":                 e.CDI,
		"mmi":                 e.MMI,
		"alert":               e.Alert,
		"station_count":       e.StationCount,
		"minimum_distance":    e.MinimumDistance,
		"rms":                 e.RMS,
		"gap":                 e.Gap,
		"latitude":            e.Latitude,
		"longitude":           e.Longitude,
		"depth_km":            e.DepthKM,
		"occurred_at":         e.OccurredAt,
		"external_updated_at": e.ExternalUpdatedAt,
		"created_at":          e.CreatedAt,
		"last_updated_at":     e.LastUpdatedAt,
	}
}

// InsertColumns — колонки для INSERT; id и тех-таймстампы назначает база.
func (e *Earthquake) InsertColumns() map[string]any {
	m := e.Columns()
	delete(m, "id")
	delete(m, "created_at")
	delete(m, "last_updated_at")
	return m
}
