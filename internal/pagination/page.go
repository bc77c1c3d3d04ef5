package pagination

import (
	"errors"

	"github.com/Masterminds/squirrel"
)

// Размеры страницы по умолчанию; максимум переопределяется конфигом.
const (
	DefaultSize = 50
	MaxSize     = 200
)

// ErrMultiSort: курсор хранит одно поле сортировки плюс тайбрейк,
// запрос с несколькими sorts не обслуживается.
var ErrMultiSort = errors.New("cursor pagination supports at most one sort field")

// ClampSize нормализует запрошенный размер страницы: 0 — значение по
// умолчанию, больше max — max.
func ClampSize(requested, max int) int {
	if max <= 0 {
		max = MaxSize
	}
	if requested <= 0 {
		return DefaultSize
	}
	if requested > max {
		return max
	}
	return requested
}

// Seek описывает граничную строку, после которой продолжается выборка.
// Column пуста, когда сортировка идёт только по id; Value nil означает,
// что в сортируемой колонке граничной строки был NULL.
type Seek struct {
	Column   string
	Desc     bool
	Value    any
	Tiebreak int64
	Reverse  bool
}

// BuildSeekClause строит условие продолжения после граничной строки.
//
// Тайбрейк id всегда упорядочен по возрастанию, поэтому вперёд идём через
// id > t, назад — через id < t. Для ASC-обхода NULL-строки лежат в конце
// потока (порядок Postgres по умолчанию), для DESC — в начале; ветки с
// IS NULL / IS NOT NULL удерживают их достижимыми.
func BuildSeekClause(seek Seek, idColumn string) squirrel.Sqlizer {
	var idCmp squirrel.Sqlizer = squirrel.Gt{idColumn: seek.Tiebreak}
	if seek.Reverse {
		idCmp = squirrel.Lt{idColumn: seek.Tiebreak}
	}
	if seek.Column == "" {
		return idCmp
	}

	// Эффективное направление колонки в исполняемом запросе: обратный
	// обход зеркалит объявленное направление.
	descEff := seek.Desc != seek.Reverse
	col := seek.Column

	if seek.Value == nil {
		inBlock := squirrel.And{squirrel.Eq{col: nil}, idCmp}
		if descEff {
			// NULL-блок стоит первым, после него идут все ненулевые строки.
			return squirrel.Or{inBlock, squirrel.NotEq{col: nil}}
		}
		// NULL-блок стоит последним, дальше только его хвост.
		return inBlock
	}

	var primary squirrel.Sqlizer = squirrel.Gt{col: seek.Value}
	if descEff {
		primary = squirrel.Lt{col: seek.Value}
	}
	clause := squirrel.Or{
		primary,
		squirrel.And{squirrel.Eq{col: seek.Value}, idCmp},
	}
	if !descEff {
		clause = append(clause, squirrel.Eq{col: nil})
	}
	return clause
}

// OrderExpressions возвращает выражения ORDER BY: колонка сортировки (если
// задана) и тайбрейк по id. Обратный обход зеркалит оба направления, сама
// страница потом разворачивается обратно.
func OrderExpressions(column string, desc bool, idColumn string, reverse bool) []string {
	out := make([]string, 0, 2)
	if column != "" {
		dir := "ASC"
		if desc != reverse {
			dir = "DESC"
		}
		out = append(out, column+" "+dir)
	}
	idDir := "ASC"
	if reverse {
		idDir = "DESC"
	}
	return append(out, idColumn+" "+idDir)
}

// Page — страница выдачи с курсорами на обе стороны.
type Page[T any] struct {
	Items        []T     `json:"items"`
	Total        *int64  `json:"total,omitempty"`
	Size         int     `json:"size"`
	NextPage     *string `json:"next_page"`
	PreviousPage *string `json:"previous_page"`
}

// ReverseInPlace разворачивает срез; нужен после обратного обхода, чтобы
// страница вернулась в объявленном порядке сортировки.
func ReverseInPlace[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
