package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"QrestAPI/internal/filter"
	"QrestAPI/internal/repository"
)

// listParams разбирает параметры листинга: повторяемые filters и sorts,
// cursor, size, includeTotal. Любая некорректная часть отклоняет запрос.
func listParams(r *http.Request) (repository.ListParams, error) {
	q := r.URL.Query()

	tokens, err := filter.ParseFilters(q["filters"])
	if err != nil {
		return repository.ListParams{}, err
	}
	sorts, err := filter.ParseSorts(q["sorts"])
	if err != nil {
		return repository.ListParams{}, err
	}

	p := repository.ListParams{Filters: tokens, Sorts: sorts, Cursor: q.Get("cursor")}

	if raw := q.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return repository.ListParams{}, fmt.Errorf("%w: size %q", filter.ErrMalformed, raw)
		}
		p.Size = size
	}
	if raw := q.Get("includeTotal"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return repository.ListParams{}, fmt.Errorf("%w: includeTotal %q", filter.ErrMalformed, raw)
		}
		p.IncludeTotal = v
	}
	return p, nil
}

// pathID — числовой идентификатор из сегмента пути.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q", filter.ErrMalformed, raw)
	}
	return id, nil
}
