package model

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"QrestAPI/internal/filter"
)

// Типы значений полей ресурса.
const (
	KindString   = "string"
	KindInt      = "int"
	KindFloat    = "float"
	KindBool     = "bool"
	KindDateTime = "datetime"
	KindEnum     = "enum"
)

// Resource описывает структуру ресурса в конфигурации
type Resource struct {
	Name         string                `yaml:"-"` // logical name of the resource
	Table        string                `yaml:"table"`
	IDColumn     string                `yaml:"id_column"`     // optional, default "id"
	TenantColumn string                `yaml:"tenant_column"` // пусто — ресурс вне тенанта
	Fields       map[string]*FieldSpec `yaml:"fields"`
}

// FieldSpec описывает одно разрешённое поле ресурса: тип значения и
// набор допустимых операторов. Поля, не объявленные здесь, никогда не
// участвуют в фильтрации и сортировке, даже если колонка существует.
type FieldSpec struct {
	Name string     `yaml:"-"`
	Type string     `yaml:"type"`
	Ops  StringList `yaml:"ops"`  // пусто — набор по умолчанию для типа
	Enum StringList `yaml:"enum"` // допустимые значения для type: enum

	// для runtime (не сериализуется)
	opSet map[filter.Operator]bool
}

// UnmarshalYAML поддерживает краткую форму объявления поля:
// `magnitude: float` эквивалентно `magnitude: {type: float}`.
func (f *FieldSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		f.Type = value.Value
		return nil
	}
	type plain FieldSpec
	return value.Decode((*plain)(f))
}

// StringList принимает и YAML-список, и скаляр с запятыми:
// `ops: eq, neq, isnull` или `ops: [eq, neq, isnull]`.
type StringList []string

func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parts := strings.Split(value.Value, ",")
		out := make(StringList, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		*s = out
		return nil
	case yaml.SequenceNode:
		var raw []string
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*s = StringList(raw)
		return nil
	}
	return fmt.Errorf("expected scalar or sequence for string list")
}

// GetIDColumn возвращает колонку первичного ключа ресурса.
// Если не задано в конфиге, по умолчанию возвращает "id".
func (r *Resource) GetIDColumn() string {
	if r.IDColumn != "" {
		return r.IDColumn
	}
	// fallback по умолчанию
	return "id"
}

// HasTenant — принадлежат ли строки ресурса конкретному тенанту.
func (r *Resource) HasTenant() bool {
	return r.TenantColumn != ""
}

// Field возвращает спецификацию поля. Поиск регистрозависимый;
// необъявленное поле — ошибка ErrUnknownField.
func (r *Resource) Field(name string) (*FieldSpec, error) {
	if f, ok := r.Fields[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, r.Name, name)
}

// SortColumn проверяет поле сортировки по реестру и возвращает имя колонки.
func (r *Resource) SortColumn(name string) (string, error) {
	f, err := r.Field(name)
	if err != nil {
		return "", err
	}
	return f.Name, nil
}

// Allows сообщает, разрешён ли оператор для поля. Набор собирается
// при валидации реестра и после старта не меняется.
func (f *FieldSpec) Allows(op filter.Operator) bool {
	return f.opSet[op]
}
