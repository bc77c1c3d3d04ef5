package usgs

import (
	"time"

	"QrestAPI/internal/domain"
)

// Лимиты длин колонок таблицы earthquakes.
const (
	maxExternalID    = 32
	maxMagnitudeType = 16
	maxPlace         = 255
	maxStatus        = 32
	maxEventType     = 32
	maxTitle         = 255
	maxDetailURL     = 512
	maxInfoURL       = 512
	maxAlert         = 16
	maxImageURL      = 1024
)

// FeatureToEarthquake маппит GeoJSON-фичу каталога в строку таблицы.
// Возвращает nil, если у фичи нет id, заголовка или времени: такие
// записи не пригодны для хранения.
func FeatureToEarthquake(f *feature) *domain.Earthquake {
	if f.ID == "" || f.Properties.Title == nil || *f.Properties.Title == "" {
		return nil
	}
	if f.Properties.Time == nil {
		return nil
	}

	e := &domain.Earthquake{
		ExternalID: truncate(f.ID, maxExternalID),
		Title:      truncate(*f.Properties.Title, maxTitle),
		OccurredAt: epochMillis(*f.Properties.Time),
	}

	e.Magnitude = f.Properties.Mag
	e.MagnitudeType = truncatePtr(f.Properties.MagType, maxMagnitudeType)
	e.Place = truncatePtr(f.Properties.Place, maxPlace)
	e.Status = truncatePtr(f.Properties.Status, maxStatus)
	e.EventType = truncatePtr(f.Properties.Type, maxEventType)
	e.DetailURL = truncatePtr(f.Properties.Detail, maxDetailURL)
	e.InfoURL = truncatePtr(f.Properties.URL, maxInfoURL)
	e.Alert = truncatePtr(f.Properties.Alert, maxAlert)

	e.FeltReports = floatToInt(f.Properties.Felt)
	e.CDI = f.Properties.CDI
	e.MMI = f.Properties.MMI
	e.Significance = floatToInt(f.Properties.Sig)
	e.StationCount = floatToInt(f.Properties.Nst)
	e.MinimumDistance = f.Properties.Dmin
	e.RMS = f.Properties.RMS
	e.Gap = f.Properties.Gap

	e.Tsunami = f.Properties.Tsunami != nil && *f.Properties.Tsunami != 0

	if f.Properties.Updated != nil {
		t := epochMillis(*f.Properties.Updated)
		e.ExternalUpdatedAt = &t
	}

	// Координаты каталога: [долгота, широта, глубина в км].
	coords := f.Geometry.Coordinates
	if len(coords) >= 1 {
		e.Longitude = coords[0]
	}
	if len(coords) >= 2 {
		e.Latitude = coords[1]
	}
	if len(coords) >= 3 {
		e.DepthKM = coords[2]
	}

	return e
}

func epochMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// truncate режет строку по символам, а не байтам: лимиты колонок
// заданы в varchar(n).
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func truncatePtr(s *string, n int) *string {
	if s == nil || *s == "" {
		return nil
	}
	cut := truncate(*s, n)
	return &cut
}

func floatToInt(v *float64) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}
