package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Coerce приводит сырое строковое значение к объявленному типу поля.
// Ошибка приведения — ErrTypeMismatch с именем поля и ожидаемым типом.
func (f *FieldSpec) Coerce(raw string) (any, error) {
	switch f.Type {
	case KindString:
		return raw, nil

	case KindInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, f.mismatch(raw)
		}
		return v, nil

	case KindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, f.mismatch(raw)
		}
		return v, nil

	case KindBool:
		switch strings.ToLower(raw) {
		case "true", "yes", "y", "1":
			return true, nil
		case "false", "no", "n", "0":
			return false, nil
		}
		return nil, f.mismatch(raw)

	case KindDateTime:
		if t, ok := parseDateTime(raw); ok {
			return t, nil
		}
		return nil, f.mismatch(raw)

	case KindEnum:
		for _, allowed := range f.Enum {
			if raw == allowed {
				return raw, nil
			}
		}
		return nil, f.mismatch(raw)
	}
	return nil, f.mismatch(raw)
}

func (f *FieldSpec) mismatch(raw string) error {
	return fmt.Errorf("%w: field %q expects %s, got %q", ErrTypeMismatch, f.Name, f.Type, raw)
}

// parseDateTime принимает RFC 3339, "2006-01-02 15:04:05", "2006-01-02"
// и целочисленный epoch (секунды; значения от 1e12 трактуются как
// миллисекунды). Результат всегда в UTC.
func parseDateTime(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n >= 1_000_000_000_000 || n <= -1_000_000_000_000 {
			return time.UnixMilli(n).UTC(), true
		}
		return time.Unix(n, 0).UTC(), true
	}
	return time.Time{}, false
}
