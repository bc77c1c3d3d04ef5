package model

import (
	"fmt"

	"github.com/Masterminds/squirrel"

	"QrestAPI/internal/filter"
)

// BuildIndexQuery строит базовый SELECT для выборки списка: FROM и
// скомпилированный WHERE. Порядок, условие поиска по курсору и LIMIT
// добавляет слой пагинации поверх этого билдера.
func (r *Resource) BuildIndexQuery(tokens []filter.Token) (squirrel.SelectBuilder, error) {
	sb := squirrel.SelectBuilder{}.PlaceholderFormat(squirrel.Dollar)

	// 1. FROM + список колонок
	sb = sb.Columns("main.*").From(fmt.Sprintf("%s AS main", r.Table))

	// 2. WHERE фильтры
	whereBuilder, err := r.BuildWhereClause(tokens)
	if err != nil {
		return sb, err
	}
	if whereBuilder != nil {
		sb = sb.Where(whereBuilder)
	}

	return sb, nil
}
