package model

import (
	"fmt"

	"github.com/Masterminds/squirrel"

	"QrestAPI/internal/filter"
)

// BuildCountQuery строит COUNT по тому же предикату, что и выборка.
// Подсчёт запускается только по явному запросу клиента: он дорогой и
// не кэшируется.
func (r *Resource) BuildCountQuery(tokens []filter.Token) (squirrel.SelectBuilder, error) {
	sb := squirrel.SelectBuilder{}.PlaceholderFormat(squirrel.Dollar)
	sb = sb.Column("COUNT(*)").From(fmt.Sprintf("%s AS main", r.Table))

	wherePart, err := r.BuildWhereClause(tokens)
	if err != nil {
		return sb, err
	}
	if wherePart != nil {
		sb = sb.Where(wherePart)
	}
	return sb, nil
}
