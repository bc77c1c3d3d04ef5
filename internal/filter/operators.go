package filter

// Operator — оператор фильтрации из фиксированного набора.
// Текстовые токены регистрозависимы (notIn, а не notin).
type Operator string

const (
	OpEq        Operator = "eq"
	OpNeq       Operator = "neq"
	OpLt        Operator = "lt"
	OpLte       Operator = "lte"
	OpGt        Operator = "gt"
	OpGte       Operator = "gte"
	OpIn        Operator = "in"
	OpNotIn     Operator = "notIn"
	OpLike      Operator = "like"
	OpNotLike   Operator = "notLike"
	OpILike     Operator = "ilike"
	OpNotILike  Operator = "notILike"
	OpIsNull    Operator = "isnull"
	OpIsNotNull Operator = "isnotnull"
)

var knownOperators = map[Operator]bool{
	OpEq: true, OpNeq: true,
	OpLt: true, OpLte: true, OpGt: true, OpGte: true,
	OpIn: true, OpNotIn: true,
	OpLike: true, OpNotLike: true, OpILike: true, OpNotILike: true,
	OpIsNull: true, OpIsNotNull: true,
}

// ParseOperator возвращает оператор по текстовому токену.
func ParseOperator(s string) (Operator, bool) {
	op := Operator(s)
	return op, knownOperators[op]
}

// IsUnary — оператор без значения (проверки на NULL).
func (op Operator) IsUnary() bool {
	return op == OpIsNull || op == OpIsNotNull
}

// IsList — оператор со списковым значением.
func (op Operator) IsList() bool {
	return op == OpIn || op == OpNotIn
}

// IsPattern — LIKE/ILIKE и их отрицания, только для строковых полей.
func (op Operator) IsPattern() bool {
	switch op {
	case OpLike, OpNotLike, OpILike, OpNotILike:
		return true
	}
	return false
}

// IsOrdering — операторы сравнения по порядку.
func (op Operator) IsOrdering() bool {
	switch op {
	case OpLt, OpLte, OpGt, OpGte:
		return true
	}
	return false
}
