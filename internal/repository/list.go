package repository

import (
	"context"
	"fmt"

	"QrestAPI/internal/filter"
	"QrestAPI/internal/model"
	"QrestAPI/internal/pagination"
	"QrestAPI/internal/uow"

	"github.com/Masterminds/squirrel"
)

// ListParams — параметры листинга с курсорной пагинацией.
type ListParams struct {
	Filters      []filter.Token
	Sorts        []filter.Sort
	Cursor       string
	Size         int
	IncludeTotal bool
}

// List — выборка без пагинации, для внутренних нужд сервисов.
// limit <= 0 означает «без ограничения».
func (r *Repo[T]) List(ctx context.Context, s *uow.Session, tokens []filter.Token, sorts []filter.Sort, limit int) ([]T, error) {
	qb, err := r.res.BuildIndexQuery(tokens)
	if err != nil {
		return nil, err
	}
	if tc := r.tenantClause(s.Tenant()); tc != nil {
		qb = qb.Where(tc)
	}
	for _, srt := range sorts {
		col, err := r.res.SortColumn(srt.Field)
		if err != nil {
			return nil, err
		}
		dir := "ASC"
		if srt.Desc {
			dir = "DESC"
		}
		qb = qb.OrderBy("main." + col + " " + dir)
	}
	qb = qb.OrderBy(r.idColumn() + " ASC")
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	return r.queryRows(ctx, s, qb)
}

// ListPage — курсорный листинг: фильтры, не более одного поля сортировки,
// страница size строк и токены на обе стороны.
func (r *Repo[T]) ListPage(ctx context.Context, s *uow.Session, p ListParams) (*pagination.Page[T], error) {
	if len(p.Sorts) > 1 {
		return nil, pagination.ErrMultiSort
	}

	var sortField string
	var sortDesc bool
	var sortCol string
	if len(p.Sorts) == 1 {
		sortField = p.Sorts[0].Field
		sortDesc = p.Sorts[0].Desc
		col, err := r.res.SortColumn(sortField)
		if err != nil {
			return nil, err
		}
		sortCol = "main." + col
	}

	size := pagination.ClampSize(p.Size, r.maxSize)

	// Курсор авторитетен по сортировке: смена sorts между страницами
	// делает позицию бессмысленной. Фильтры не пиним — их переприменяем.
	var cur *pagination.Cursor
	if p.Cursor != "" {
		decoded, err := r.codec.Decode(p.Cursor)
		if err != nil {
			return nil, err
		}
		if !decoded.MatchesOrdering(sortField, sortDesc) {
			return nil, fmt.Errorf("%w: ordering changed since cursor was issued", pagination.ErrInvalidCursor)
		}
		cur = &decoded
	}
	reverse := cur != nil && cur.Reverse

	qb, err := r.res.BuildIndexQuery(p.Filters)
	if err != nil {
		return nil, err
	}
	if tc := r.tenantClause(s.Tenant()); tc != nil {
		qb = qb.Where(tc)
	}

	if cur != nil {
		var seekVal any
		if cur.SortValue != nil {
			f, err := r.res.Field(sortField)
			if err != nil {
				return nil, err
			}
			v, err := f.Coerce(*cur.SortValue)
			if err != nil {
				return nil, fmt.Errorf("%w: boundary value: %v", pagination.ErrInvalidCursor, err)
			}
			seekVal = v
		}
		qb = qb.Where(pagination.BuildSeekClause(pagination.Seek{
			Column:   sortCol,
			Desc:     sortDesc,
			Value:    seekVal,
			Tiebreak: cur.Tiebreak,
			Reverse:  reverse,
		}, r.idColumn()))
	}

	qb = qb.OrderBy(pagination.OrderExpressions(sortCol, sortDesc, r.idColumn(), reverse)...)
	qb = qb.Limit(uint64(size) + 1)

	items, err := r.queryRows(ctx, s, qb)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > size
	if hasMore {
		items = items[:size]
	}
	if reverse {
		// Обратный обход читался в зеркальном порядке.
		pagination.ReverseInPlace(items)
	}

	page := &pagination.Page[T]{Items: items, Size: size}

	if len(items) > 0 {
		first, last := &items[0], &items[len(items)-1]
		switch {
		case cur == nil:
			if hasMore {
				if page.NextPage, err = r.boundaryToken(last, sortField, sortDesc, false); err != nil {
					return nil, err
				}
			}
		case !reverse:
			if hasMore {
				if page.NextPage, err = r.boundaryToken(last, sortField, sortDesc, false); err != nil {
					return nil, err
				}
			}
			if page.PreviousPage, err = r.boundaryToken(first, sortField, sortDesc, true); err != nil {
				return nil, err
			}
		default:
			// hasMore при обратном обходе означает строки позади first
			if hasMore {
				if page.PreviousPage, err = r.boundaryToken(first, sortField, sortDesc, true); err != nil {
					return nil, err
				}
			}
			if page.NextPage, err = r.boundaryToken(last, sortField, sortDesc, false); err != nil {
				return nil, err
			}
		}
	}

	if p.IncludeTotal {
		total, err := r.Count(ctx, s, p.Filters)
		if err != nil {
			return nil, err
		}
		page.Total = &total
	}

	return page, nil
}

// boundaryToken кодирует курсор по граничной строке страницы.
func (r *Repo[T]) boundaryToken(row *T, sortField string, sortDesc, reverse bool) (*string, error) {
	cols := r.mapper.Columns(row)

	idVal, ok := cols[r.res.GetIDColumn()].(int64)
	if !ok {
		return nil, fmt.Errorf("id column %s.%s must be int64", r.res.Name, r.res.GetIDColumn())
	}

	var sv *string
	if sortField != "" {
		var err error
		sv, err = pagination.FormatSortValue(cols[sortField])
		if err != nil {
			return nil, fmt.Errorf("sort value of %s.%s: %w", r.res.Name, sortField, err)
		}
	}

	token := r.codec.Encode(pagination.Cursor{
		SortField: sortField,
		SortValue: sv,
		Desc:      sortDesc,
		Tiebreak:  idVal,
		Reverse:   reverse,
	})
	return &token, nil
}

// GetByID возвращает строку по первичному ключу в пределах арендатора.
func (r *Repo[T]) GetByID(ctx context.Context, s *uow.Session, id int64) (*T, error) {
	qb, err := r.res.BuildIndexQuery(nil)
	if err != nil {
		return nil, err
	}
	qb = qb.Where(squirrel.Eq{r.idColumn(): id})
	if tc := r.tenantClause(s.Tenant()); tc != nil {
		qb = qb.Where(tc)
	}
	items, err := r.queryRows(ctx, s, qb)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s id=%d", ErrNotFound, r.res.Name, id)
	}
	return &items[0], nil
}

// Count считает строки под теми же фильтрами, что и листинг.
func (r *Repo[T]) Count(ctx context.Context, s *uow.Session, tokens []filter.Token) (int64, error) {
	qb, err := r.res.BuildCountQuery(tokens)
	if err != nil {
		return 0, err
	}
	if tc := r.tenantClause(s.Tenant()); tc != nil {
		qb = qb.Where(tc)
	}
	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sql: %w", err)
	}
	var total int64
	if err := s.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// ListByField — выборка по множеству значений объявленного поля,
// например по пачке external_id при дедупликации инжеста.
func (r *Repo[T]) ListByField(ctx context.Context, s *uow.Session, field string, values []any) ([]T, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if _, err := r.res.Field(field); err != nil {
		return nil, err
	}
	qb, err := r.res.BuildIndexQuery(nil)
	if err != nil {
		return nil, err
	}
	qb = qb.Where(squirrel.Eq{"main." + field: values})
	if tc := r.tenantClause(s.Tenant()); tc != nil {
		qb = qb.Where(tc)
	}
	qb = qb.OrderBy(r.idColumn() + " ASC")
	return r.queryRows(ctx, s, qb)
}

// Search — регистронезависимый поиск подстроки по строковому полю.
// Спецсимволы LIKE в запросе экранируются, шаблон собираем сами.
func (r *Repo[T]) Search(ctx context.Context, s *uow.Session, field, term string, limit int) ([]T, error) {
	f, err := r.res.Field(field)
	if err != nil {
		return nil, err
	}
	if !f.Allows(filter.OpILike) {
		return nil, fmt.Errorf("%w: %s.%s does not support pattern search", model.ErrOperatorNotAllowed, r.res.Name, field)
	}
	qb, err := r.res.BuildIndexQuery(nil)
	if err != nil {
		return nil, err
	}
	pattern := "%" + model.EscapePattern(term) + "%"
	qb = qb.Where(squirrel.ILike{"main." + field: pattern})
	if tc := r.tenantClause(s.Tenant()); tc != nil {
		qb = qb.Where(tc)
	}
	qb = qb.OrderBy(r.idColumn() + " ASC")
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	return r.queryRows(ctx, s, qb)
}
