package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"QrestAPI/internal/model"
	"QrestAPI/internal/pagination"
	"QrestAPI/internal/uow"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound: строки нет либо она принадлежит другому арендатору;
// снаружи эти случаи неразличимы.
var ErrNotFound = errors.New("not found")

// ErrTenantImmutable запрещает скоуп-сессии переносить строку между
// арендаторами через PATCH колонки арендатора.
var ErrTenantImmutable = errors.New("tenant column is immutable in scoped sessions")

// Mapper связывает доменный тип с колонками его таблицы.
type Mapper[T any] struct {
	// Columns — значения всех колонок строки, ключ — имя колонки.
	Columns func(*T) map[string]any
	// Insert — колонки для INSERT (без id и тех-таймстампов).
	Insert func(*T) map[string]any
}

// Repo — типизированный репозиторий поверх реестра ресурсов. SQL всегда
// собирается squirrel-ом из проверенных реестром кусков, значения уходят
// только в аргументы.
type Repo[T any] struct {
	res     *model.Resource
	codec   *pagination.Codec
	maxSize int
	mapper  Mapper[T]
}

func New[T any](resource string, codec *pagination.Codec, maxPageSize int, mapper Mapper[T]) (*Repo[T], error) {
	res, err := model.Lookup(resource)
	if err != nil {
		return nil, err
	}
	return &Repo[T]{res: res, codec: codec, maxSize: maxPageSize, mapper: mapper}, nil
}

func (r *Repo[T]) Resource() *model.Resource { return r.res }

// idColumn — квалифицированная колонка первичного ключа.
func (r *Repo[T]) idColumn() string {
	return "main." + r.res.GetIDColumn()
}

// tenantClause возвращает обязательный предикат арендатора; nil — ресурс
// вне тенанта либо контекст служебный.
func (r *Repo[T]) tenantClause(tc uow.TenantContext) squirrel.Sqlizer {
	if tc.Unscoped || !r.res.HasTenant() {
		return nil
	}
	return squirrel.Eq{"main." + r.res.TenantColumn: tc.OrganizationID}
}

func (r *Repo[T]) queryRows(ctx context.Context, s *uow.Session, qb squirrel.SelectBuilder) ([]T, error) {
	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql: %w", err)
	}
	rows, err := s.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
}

// IsUniqueViolation распознаёт нарушение уникального индекса.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
