package repository

import (
	"context"
	"fmt"

	"QrestAPI/internal/filter"
	"QrestAPI/internal/uow"

	"github.com/Masterminds/squirrel"
)

// Insert вставляет строку и возвращает назначенный базой id. Колонка
// арендатора скоуп-сессии всегда берётся из сессии, а не из сущности.
func (r *Repo[T]) Insert(ctx context.Context, s *uow.Session, entity *T) (int64, error) {
	if err := s.RequireWrite(); err != nil {
		return 0, err
	}
	row := r.mapper.Insert(entity)
	tc := s.Tenant()
	if r.res.HasTenant() && !tc.Unscoped {
		row[r.res.TenantColumn] = tc.OrganizationID
	}

	cols := sortedKeys(row)
	vals := make([]any, len(cols))
	for i, c := range cols {
		vals[i] = row[c]
	}

	qb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Insert(r.res.Table).
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING " + r.res.GetIDColumn())

	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sql: %w", err)
	}
	var id int64
	if err := s.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// InsertMany вставляет пачку одним запросом; возвращает число строк.
func (r *Repo[T]) InsertMany(ctx context.Context, s *uow.Session, entities []T) (int64, error) {
	if err := s.RequireWrite(); err != nil {
		return 0, err
	}
	if len(entities) == 0 {
		return 0, nil
	}

	tc := s.Tenant()
	withTenant := r.res.HasTenant() && !tc.Unscoped

	first := r.mapper.Insert(&entities[0])
	if withTenant {
		first[r.res.TenantColumn] = tc.OrganizationID
	}
	cols := sortedKeys(first)

	qb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Insert(r.res.Table).
		Columns(cols...)
	for i := range entities {
		row := r.mapper.Insert(&entities[i])
		if withTenant {
			row[r.res.TenantColumn] = tc.OrganizationID
		}
		vals := make([]any, len(cols))
		for j, c := range cols {
			vals[j] = row[c]
		}
		qb = qb.Values(vals...)
	}

	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sql: %w", err)
	}
	tag, err := s.Exec(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UpdateByID обновляет строку map-патчем. Ключи патча обязаны быть
// объявленными полями ресурса; last_updated_at трогается автоматически,
// если объявлена и не задана явно.
func (r *Repo[T]) UpdateByID(ctx context.Context, s *uow.Session, id int64, patch map[string]any) error {
	if err := s.RequireWrite(); err != nil {
		return err
	}
	if len(patch) == 0 {
		return nil
	}

	tc := s.Tenant()
	keys := sortedKeys(patch)
	for _, k := range keys {
		if _, err := r.res.Field(k); err != nil {
			return err
		}
		if r.res.HasTenant() && !tc.Unscoped && k == r.res.TenantColumn {
			return fmt.Errorf("%w: %s.%s", ErrTenantImmutable, r.res.Name, k)
		}
	}

	qb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Update(r.res.Table + " AS main")
	for _, k := range keys {
		qb = qb.Set(k, patch[k])
	}
	if _, declared := r.res.Fields["last_updated_at"]; declared {
		if _, explicit := patch["last_updated_at"]; !explicit {
			qb = qb.Set("last_updated_at", squirrel.Expr("now()"))
		}
	}
	qb = qb.Where(squirrel.Eq{r.idColumn(): id})
	if clause := r.tenantClause(s.Tenant()); clause != nil {
		qb = qb.Where(clause)
	}

	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return fmt.Errorf("build sql: %w", err)
	}
	tag, err := s.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s id=%d", ErrNotFound, r.res.Name, id)
	}
	return nil
}

// DeleteByID удаляет строку в пределах арендатора.
func (r *Repo[T]) DeleteByID(ctx context.Context, s *uow.Session, id int64) error {
	if err := s.RequireWrite(); err != nil {
		return err
	}
	qb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Delete(r.res.Table + " AS main").
		Where(squirrel.Eq{r.idColumn(): id})
	if clause := r.tenantClause(s.Tenant()); clause != nil {
		qb = qb.Where(clause)
	}

	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return fmt.Errorf("build sql: %w", err)
	}
	tag, err := s.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s id=%d", ErrNotFound, r.res.Name, id)
	}
	return nil
}

// DeleteMany удаляет строки по фильтрам; без единого предиката запрос
// не исполняется. Возвращает число удалённых строк.
func (r *Repo[T]) DeleteMany(ctx context.Context, s *uow.Session, tokens []filter.Token) (int64, error) {
	if err := s.RequireWrite(); err != nil {
		return 0, err
	}
	where, err := r.res.BuildWhereClause(tokens)
	if err != nil {
		return 0, err
	}
	clause := r.tenantClause(s.Tenant())
	if where == nil && clause == nil {
		return 0, fmt.Errorf("refusing unfiltered delete on %s", r.res.Name)
	}

	qb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Delete(r.res.Table + " AS main")
	if where != nil {
		qb = qb.Where(where)
	}
	if clause != nil {
		qb = qb.Where(clause)
	}

	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sql: %w", err)
	}
	tag, err := s.Exec(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
