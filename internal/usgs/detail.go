package usgs

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"QrestAPI/internal/db"
)

const ciimGeoCachePrefix = "usgs:ciim_geo:"

// detailDocument — усечённый detail-документ события: нас интересует
// только продукт dyfi и ссылки на его файлы.
type detailDocument struct {
	Properties struct {
		Products struct {
			Dyfi []struct {
				Contents map[string]struct {
					URL string `json:"url"`
				} `json:"contents"`
			} `json:"dyfi"`
		} `json:"products"`
	} `json:"properties"`
}

// CiimGeoImageURL ищет ссылку на карту интенсивности (ciim_geo.jpg) в
// detail-документе события. Результат кэшируется в Redis, любые сбои
// похода за документом дают nil: отсутствие картинки не должно
// останавливать загрузку каталога.
func (c *Client) CiimGeoImageURL(ctx context.Context, externalID string, detailURL *string) *string {
	if detailURL == nil || *detailURL == "" {
		return nil
	}

	cacheKey := ciimGeoCachePrefix + externalID
	if db.RDB != nil {
		if cached, err := db.RDB.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			return &cached
		}
	}

	imageURL := c.fetchCiimGeoImageURL(ctx, *detailURL)
	if imageURL == "" {
		return nil
	}

	if db.RDB != nil {
		if err := db.RDB.Set(ctx, cacheKey, imageURL, c.cacheTTL).Err(); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("ciim_geo_cache_set_failed")
		}
	}
	return &imageURL
}

func (c *Client) fetchCiimGeoImageURL(ctx context.Context, detailURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailURL, nil)
	if err != nil {
		return ""
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var doc detailDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return ""
	}
	return extractCiimGeoImageURL(&doc)
}

// extractCiimGeoImageURL перебирает contents продуктов dyfi: файл
// *ciim_geo.jpg выигрывает сразу, иначе берётся первый .jpg по
// отсортированным именам.
func extractCiimGeoImageURL(doc *detailDocument) string {
	fallback := ""
	for _, product := range doc.Properties.Products.Dyfi {
		names := make([]string, 0, len(product.Contents))
		for name := range product.Contents {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			u := product.Contents[name].URL
			if u == "" || len(u) > maxImageURL {
				continue
			}
			lower := strings.ToLower(name)
			if !strings.HasSuffix(lower, ".jpg") {
				continue
			}
			if strings.HasSuffix(lower, "ciim_geo.jpg") {
				return u
			}
			if fallback == "" {
				fallback = u
			}
		}
	}
	return fallback
}
