package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Разрешённые ключи для объектов
var allowedResourceKeys = map[string]bool{
	"table":         true,
	"id_column":     true,
	"tenant_column": true,
	"fields":        true,
}

var allowedFieldKeys = map[string]bool{
	"type": true,
	"ops":  true,
	"enum": true,
}

// Разрешённые значения для type в полях
var allowedFieldTypeValues = map[string]bool{
	KindString:   true,
	KindInt:      true,
	KindFloat:    true,
	KindBool:     true,
	KindDateTime: true,
	KindEnum:     true,
}

func validateYAMLNode(node *yaml.Node, context string) error {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			if err := validateYAMLNode(child, "resource"); err != nil {
				return err
			}
		}

	case yaml.MappingNode:
		var allowedKeys map[string]bool
		switch context {
		case "resource":
			allowedKeys = allowedResourceKeys
		case "field":
			allowedKeys = allowedFieldKeys
		default:
			allowedKeys = nil // fields-map: ключи — произвольные имена полей
		}

		for i := 0; i < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			valNode := node.Content[i+1]
			key := keyNode.Value

			if allowedKeys != nil && !allowedKeys[key] {
				return fmt.Errorf("unknown key '%s' in %s", key, context)
			}

			// Проверка допустимых значений для type в поле
			if context == "field" && key == "type" {
				if !allowedFieldTypeValues[valNode.Value] {
					return fmt.Errorf("unknown type value '%s' in field", valNode.Value)
				}
			}

			// Определяем новый контекст
			nextContext := context
			if context == "resource" && key == "fields" {
				nextContext = "fields-map"
			} else if context == "fields-map" {
				nextContext = "field"
			}

			// Краткая форма поля: скаляр с именем типа вместо объекта
			if nextContext == "field" && valNode.Kind == yaml.ScalarNode {
				if !allowedFieldTypeValues[valNode.Value] {
					return fmt.Errorf("unknown type value '%s' in field", valNode.Value)
				}
				continue
			}

			if err := validateYAMLNode(valNode, nextContext); err != nil {
				return err
			}
		}

	case yaml.SequenceNode:
		for _, item := range node.Content {
			if err := validateYAMLNode(item, context); err != nil {
				return err
			}
		}

	case yaml.ScalarNode:
		// скаляры не валидируем на ключи — они уже проверяются при разборе MappingNode
	}

	return nil
}
