package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"QrestAPI/internal/domain"
	"QrestAPI/internal/metrics"
	"QrestAPI/internal/pagination"
	"QrestAPI/internal/repository"
	"QrestAPI/internal/uow"
	"QrestAPI/internal/usgs"
)

// EarthquakeService обслуживает каталог событий: выборки и инжест из
// USGS. Каталог общий для всех арендаторов, сессии без скоупа.
type EarthquakeService struct {
	uow    *uow.Manager
	repo   *repository.Repo[domain.Earthquake]
	client *usgs.Client
}

func NewEarthquakeService(m *uow.Manager, repo *repository.Repo[domain.Earthquake], client *usgs.Client) *EarthquakeService {
	return &EarthquakeService{uow: m, repo: repo, client: client}
}

// ListPage — страница каталога по фильтрам, сортировке и курсору.
func (s *EarthquakeService) ListPage(ctx context.Context, p repository.ListParams) (*pagination.Page[domain.Earthquake], error) {
	var page *pagination.Page[domain.Earthquake]
	err := s.uow.Run(ctx, uow.SystemReadOnly(), func(sess *uow.Session) error {
		var err error
		page, err = s.repo.ListPage(ctx, sess, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Get — событие по id.
func (s *EarthquakeService) Get(ctx context.Context, id int64) (*domain.Earthquake, error) {
	var e *domain.Earthquake
	err := s.uow.Run(ctx, uow.SystemReadOnly(), func(sess *uow.Session) error {
		var err error
		e, err = s.repo.GetByID(ctx, sess, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// IngestParams — окно загрузки каталога USGS.
type IngestParams struct {
	StartDate              string
	EndDate                string
	MinMagnitude           *float64
	Limit                  *int
	SearchCiimGeoImageURL  bool
	EnforceCiimGeoImageURL bool
}

// Ingest загружает окно каталога: фичи маппятся в строки, пачка
// дедуплицируется против уже имеющихся external_id, остаток
// вставляется одной транзакцией. Возвращает число вставленных строк.
func (s *EarthquakeService) Ingest(ctx context.Context, p IngestParams) (int64, error) {
	events, err := s.client.FetchEarthquakes(ctx, usgs.FetchParams{
		StartDate:              p.StartDate,
		EndDate:                p.EndDate,
		MinMagnitude:           p.MinMagnitude,
		Limit:                  p.Limit,
		SearchCiimGeoImageURL:  p.SearchCiimGeoImageURL,
		EnforceCiimGeoImageURL: p.EnforceCiimGeoImageURL,
	})
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	var inserted int64
	err = s.uow.Run(ctx, uow.System(), func(sess *uow.Session) error {
		ids := make([]any, len(events))
		for i := range events {
			ids[i] = events[i].ExternalID
		}
		existing, err := s.repo.ListByField(ctx, sess, "external_id", ids)
		if err != nil {
			return err
		}
		known := make(map[string]bool, len(existing))
		for i := range existing {
			known[existing[i].ExternalID] = true
		}

		fresh := make([]domain.Earthquake, 0, len(events))
		for _, e := range events {
			if !known[e.ExternalID] {
				fresh = append(fresh, e)
			}
		}
		if len(fresh) == 0 {
			return nil
		}
		inserted, err = s.repo.InsertMany(ctx, sess, fresh)
		return err
	})
	if err != nil {
		return 0, err
	}

	metrics.IngestInserted.Add(float64(inserted))
	log.Info().
		Int("fetched", len(events)).
		Int64("inserted", inserted).
		Str("window", p.StartDate+".."+p.EndDate).
		Msg("usgs_ingest_done")
	return inserted, nil
}
