package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"QrestAPI/internal/config"
	"QrestAPI/internal/domain"
)

// Client ходит в публичный fdsnws-API USGS за событиями и их
// detail-документами.
type Client struct {
	baseURL  string
	http     *http.Client
	cacheTTL time.Duration
}

func NewClient(cfg config.USGSConfig) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		cacheTTL: time.Duration(cfg.CacheTTLSec) * time.Second,
	}
}

// FetchParams — окно выборки каталога событий.
type FetchParams struct {
	StartDate    string
	EndDate      string
	MinMagnitude *float64
	Limit        *int
	// SearchCiimGeoImageURL — ходить в detail-документ каждого события
	// за ссылкой на карту интенсивности.
	SearchCiimGeoImageURL bool
	// EnforceCiimGeoImageURL отбрасывает события без найденной ссылки.
	EnforceCiimGeoImageURL bool
}

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string       `json:"id"`
	Properties featureProps `json:"properties"`
	Geometry   struct {
		Coordinates []*float64 `json:"coordinates"`
	} `json:"geometry"`
}

// Числовые свойства декодируем как *float64: каталог отдаёт и целые,
// и дробные, а отсутствующие значения приходят null-ами.
type featureProps struct {
	Mag     *float64 `json:"mag"`
	Place   *string  `json:"place"`
	Time    *int64   `json:"time"`
	Updated *int64   `json:"updated"`
	URL     *string  `json:"url"`
	Detail  *string  `json:"detail"`
	Felt    *float64 `json:"felt"`
	CDI     *float64 `json:"cdi"`
	MMI     *float64 `json:"mmi"`
	Alert   *string  `json:"alert"`
	Status  *string  `json:"status"`
	Tsunami *float64 `json:"tsunami"`
	Sig     *float64 `json:"sig"`
	Nst     *float64 `json:"nst"`
	Dmin    *float64 `json:"dmin"`
	RMS     *float64 `json:"rms"`
	Gap     *float64 `json:"gap"`
	MagType *string  `json:"magType"`
	Type    *string  `json:"type"`
	Title   *string  `json:"title"`
}

// FetchFeatures запрашивает GeoJSON-каталог за окно дат.
func (c *Client) FetchFeatures(ctx context.Context, p FetchParams) ([]feature, error) {
	q := url.Values{}
	q.Set("format", "geojson")
	q.Set("starttime", p.StartDate)
	q.Set("endtime", p.EndDate)
	if p.MinMagnitude != nil {
		q.Set("minmagnitude", strconv.FormatFloat(*p.MinMagnitude, 'g', -1, 64))
	}
	if p.Limit != nil {
		q.Set("limit", strconv.Itoa(*p.Limit))
	}

	endpoint := c.baseURL + "/fdsnws/event/1/query?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build usgs request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("usgs query: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("usgs query: unexpected status %d", resp.StatusCode)
	}

	var payload featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode usgs response: %w", err)
	}
	return payload.Features, nil
}

// FetchEarthquakes возвращает события окна, смаппленные в строки таблицы,
// с дедупликацией по external_id внутри пачки.
func (c *Client) FetchEarthquakes(ctx context.Context, p FetchParams) ([]domain.Earthquake, error) {
	features, err := c.FetchFeatures(ctx, p)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(features))
	out := make([]domain.Earthquake, 0, len(features))
	for i := range features {
		e := FeatureToEarthquake(&features[i])
		if e == nil {
			continue
		}
		if seen[e.ExternalID] {
			continue
		}
		seen[e.ExternalID] = true

		if p.SearchCiimGeoImageURL {
			if imageURL := c.CiimGeoImageURL(ctx, e.ExternalID, e.DetailURL); imageURL != nil {
				e.CiimGeoImageURL = imageURL
			}
		}
		if p.EnforceCiimGeoImageURL && e.CiimGeoImageURL == nil {
			continue
		}

		out = append(out, *e)
	}
	return out, nil
}
