// Package filter implements the query string filter grammar: filter tokens
// of the form field:operator[:value] and sort tokens field[:direction].
package filter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed возвращается на любую синтаксически некорректную строку
// фильтра или сортировки. Сравнивать через errors.Is.
var ErrMalformed = errors.New("malformed filter")

// Token — разобранный фильтр. RawValue может содержать двоеточия:
// строка разбивается только по первым двум разделителям.
type Token struct {
	Field    string
	Op       Operator
	RawValue string
	HasValue bool
}

// Sort — разобранная сортировка.
type Sort struct {
	Field string
	Desc  bool
}

// ParseFilters разбирает значения повторяемого параметра filters.
// Любая некорректная строка отклоняет запрос целиком: частично
// применённых фильтров не бывает.
func ParseFilters(raw []string) ([]Token, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	tokens := make([]Token, 0, len(raw))
	for _, s := range raw {
		t, err := parseFilter(s)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

func parseFilter(s string) (Token, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 || parts[0] == "" {
		return Token{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	op, ok := ParseOperator(parts[1])
	if !ok {
		return Token{}, fmt.Errorf("%w: unknown operator %q in %q", ErrMalformed, parts[1], s)
	}
	t := Token{Field: parts[0], Op: op}
	if len(parts) == 3 {
		t.RawValue = parts[2]
		t.HasValue = true
	}
	// Унарные операторы значение не принимают, остальные — требуют.
	if op.IsUnary() && t.HasValue {
		return Token{}, fmt.Errorf("%w: operator %s takes no value in %q", ErrMalformed, op, s)
	}
	if !op.IsUnary() && !t.HasValue {
		return Token{}, fmt.Errorf("%w: operator %s requires a value in %q", ErrMalformed, op, s)
	}
	return t, nil
}

// ParseSorts разбирает значения повторяемого параметра sorts.
// Направление опционально, по умолчанию asc.
func ParseSorts(raw []string) ([]Sort, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	sorts := make([]Sort, 0, len(raw))
	for _, s := range raw {
		parts := strings.SplitN(s, ":", 2)
		if parts[0] == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
		sort := Sort{Field: parts[0]}
		if len(parts) == 2 {
			switch parts[1] {
			case "asc":
			case "desc":
				sort.Desc = true
			default:
				return nil, fmt.Errorf("%w: unknown sort direction %q in %q", ErrMalformed, parts[1], s)
			}
		}
		sorts = append(sorts, sort)
	}
	return sorts, nil
}

// SplitListValue разбивает значение спискового оператора по запятым.
// Запятая внутри элемента экранируется клиентом как `\,`, обратный
// слэш — как `\\`.
func SplitListValue(raw string) []string {
	out := make([]string, 0, 4)
	var b strings.Builder
	escaped := false
	for _, r := range raw {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ',':
			out = append(out, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if escaped {
		b.WriteByte('\\')
	}
	out = append(out, b.String())
	return out
}
