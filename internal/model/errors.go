package model

import "errors"

// Ошибки валидации фильтров против реестра. Сравнивать через errors.Is.
var (
	ErrUnknownResource    = errors.New("unknown resource")
	ErrUnknownField       = errors.New("unknown field")
	ErrOperatorNotAllowed = errors.New("operator not allowed for field")
	ErrTypeMismatch       = errors.New("filter value type mismatch")
)
