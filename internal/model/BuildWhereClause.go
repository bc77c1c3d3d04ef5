package model

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"QrestAPI/internal/filter"
)

// BuildWhereClause компилирует разобранные фильтры в параметризованное
// условие WHERE. Значения всегда уходят в аргументы запроса и никогда
// не попадают в текст SQL. Несколько фильтров соединяются через AND.
func (r *Resource) BuildWhereClause(tokens []filter.Token) (squirrel.Sqlizer, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	exprs := make([]squirrel.Sqlizer, 0, len(tokens))
	for _, tok := range tokens {
		cond, err := r.buildCondition(tok)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, cond)
	}
	return squirrel.And(exprs), nil
}

func (r *Resource) buildCondition(tok filter.Token) (squirrel.Sqlizer, error) {
	f, err := r.Field(tok.Field)
	if err != nil {
		return nil, err
	}
	if !f.Allows(tok.Op) {
		return nil, fmt.Errorf("%w: %s on %s.%s", ErrOperatorNotAllowed, tok.Op, r.Name, f.Name)
	}
	col := "main." + f.Name

	switch {
	case tok.Op.IsUnary():
		if tok.Op == filter.OpIsNull {
			return squirrel.Eq{col: nil}, nil
		}
		return squirrel.NotEq{col: nil}, nil

	case tok.Op.IsList():
		items := filter.SplitListValue(tok.RawValue)
		vals := make([]any, 0, len(items))
		for _, item := range items {
			v, err := f.Coerce(item)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		if tok.Op == filter.OpIn {
			return squirrel.Eq{col: vals}, nil
		}
		return squirrel.NotEq{col: vals}, nil

	case tok.Op.IsPattern():
		// Шаблон передаётся как есть: подстановочные знаки расставляет клиент.
		switch tok.Op {
		case filter.OpLike:
			return squirrel.Like{col: tok.RawValue}, nil
		case filter.OpNotLike:
			return squirrel.NotLike{col: tok.RawValue}, nil
		case filter.OpILike:
			return squirrel.ILike{col: tok.RawValue}, nil
		default:
			return squirrel.NotILike{col: tok.RawValue}, nil
		}
	}

	v, err := f.Coerce(tok.RawValue)
	if err != nil {
		return nil, err
	}
	switch tok.Op {
	case filter.OpEq:
		return squirrel.Eq{col: v}, nil
	case filter.OpNeq:
		return squirrel.NotEq{col: v}, nil
	case filter.OpLt:
		return squirrel.Lt{col: v}, nil
	case filter.OpLte:
		return squirrel.LtOrEq{col: v}, nil
	case filter.OpGt:
		return squirrel.Gt{col: v}, nil
	case filter.OpGte:
		return squirrel.GtOrEq{col: v}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrOperatorNotAllowed, tok.Op)
}

// EscapePattern экранирует %, _ и сам символ экранирования в литерале,
// который будет вставлен внутрь LIKE/ILIKE шаблона. Подстановочные
// знаки самого шаблона добавляет вызывающая сторона.
func EscapePattern(literal string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(literal)
}
