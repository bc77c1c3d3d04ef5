package model

import (
	"fmt"

	"QrestAPI/internal/filter"
)

// ValidateAll выполняет полную проверку всех ресурсов реестра:
// 1) корректность типов полей и наборов операторов,
// 2) согласованность ключевой и тенантной колонок с объявленными полями.
func ValidateAll() error {
	for name, res := range Registry {
		if err := res.Validate(); err != nil {
			return fmt.Errorf("resource %s: %w", name, err)
		}
	}
	return nil
}

// Validate подготавливает ресурс к работе: применяет наборы операторов
// по умолчанию и отклоняет противоречивые объявления. Вызывается один
// раз при старте; после успешной проверки ресурс не меняется.
func (r *Resource) Validate() error {
	if r.Table == "" {
		return fmt.Errorf("missing table")
	}
	if len(r.Fields) == 0 {
		return fmt.Errorf("no fields declared")
	}

	for name, f := range r.Fields {
		if f.Name == "" {
			f.Name = name
		}
		if err := f.validate(); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}

	// Ключевая и тенантная колонки обязаны быть объявленными полями:
	// обе участвуют в фильтрах, сортировках и предикатах доступа.
	id := r.GetIDColumn()
	idField, ok := r.Fields[id]
	if !ok {
		return fmt.Errorf("id column %q is not a declared field", id)
	}
	if idField.Type != KindInt {
		return fmt.Errorf("id column %q must be int, got %s", id, idField.Type)
	}
	if r.TenantColumn != "" {
		tf, ok := r.Fields[r.TenantColumn]
		if !ok {
			return fmt.Errorf("tenant column %q is not a declared field", r.TenantColumn)
		}
		if tf.Type != KindInt {
			return fmt.Errorf("tenant column %q must be int, got %s", r.TenantColumn, tf.Type)
		}
	}
	return nil
}

func (f *FieldSpec) validate() error {
	switch f.Type {
	case KindString, KindInt, KindFloat, KindBool, KindDateTime, KindEnum:
	case "":
		return fmt.Errorf("missing type")
	default:
		return fmt.Errorf("unknown type %q", f.Type)
	}

	if f.Type == KindEnum && len(f.Enum) == 0 {
		return fmt.Errorf("enum type requires enum values")
	}
	if f.Type != KindEnum && len(f.Enum) > 0 {
		return fmt.Errorf("enum values allowed only for enum type")
	}

	ops := f.Ops
	if len(ops) == 0 {
		ops = defaultOps(f.Type)
	}
	f.opSet = make(map[filter.Operator]bool, len(ops))
	for _, raw := range ops {
		op, ok := filter.ParseOperator(raw)
		if !ok {
			return fmt.Errorf("unknown operator %q", raw)
		}
		if err := checkOpForType(op, f.Type); err != nil {
			return err
		}
		f.opSet[op] = true
	}
	return nil
}

// checkOpForType — матрица допустимости оператора для типа поля.
// Шаблонные операторы только для строк; сравнения по порядку не имеют
// смысла для bool и enum.
func checkOpForType(op filter.Operator, kind string) error {
	if op.IsPattern() && kind != KindString {
		return fmt.Errorf("operator %s is valid only for string fields", op)
	}
	if op.IsOrdering() && (kind == KindBool || kind == KindEnum) {
		return fmt.Errorf("operator %s is not valid for %s fields", op, kind)
	}
	return nil
}

// defaultOps возвращает набор операторов по умолчанию для типа поля.
func defaultOps(kind string) StringList {
	common := StringList{
		string(filter.OpEq), string(filter.OpNeq),
		string(filter.OpIn), string(filter.OpNotIn),
		string(filter.OpIsNull), string(filter.OpIsNotNull),
	}
	switch kind {
	case KindString:
		return append(common,
			string(filter.OpLike), string(filter.OpNotLike),
			string(filter.OpILike), string(filter.OpNotILike))
	case KindInt, KindFloat, KindDateTime:
		return append(common,
			string(filter.OpLt), string(filter.OpLte),
			string(filter.OpGt), string(filter.OpGte))
	default:
		return common
	}
}
