package model

import "fmt"

// Registry — статический реестр ресурсов. Заполняется один раз при
// старте процесса и дальше только читается, поэтому безопасен для
// конкурентного доступа без блокировок.
var Registry = map[string]*Resource{}

func InitRegistry(dir string) error {
	if err := LoadResourcesFromDir(dir); err != nil {
		return fmt.Errorf("load error: %w", err)
	}
	if err := ValidateAll(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// Lookup возвращает ресурс по логическому имени (регистрозависимо).
func Lookup(name string) (*Resource, error) {
	if r, ok := Registry[name]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownResource, name)
}
