package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

func LoadResourcesFromDir(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no resource declarations found in %s", dir)
	}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		// 1. Разбираем в yaml.Node для структурной валидации
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("YAML parse error in %s: %w", path, err)
		}

		if len(root.Content) == 0 {
			return fmt.Errorf("empty YAML in %s", path)
		}

		if err := validateYAMLNode(root.Content[0], "resource"); err != nil {
			return fmt.Errorf("validation error in %s: %w", path, err)
		}

		// 2. Теперь уже Unmarshal в ресурс
		var res Resource
		if err := root.Decode(&res); err != nil {
			return fmt.Errorf("unmarshal error in %s: %w", path, err)
		}

		// 3. Регистрируем ресурс под именем файла
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		res.Name = name
		for fname, f := range res.Fields {
			f.Name = fname
		}
		Registry[name] = &res
		log.Info().Str("resource", name).Int("fields", len(res.Fields)).Msg("resource_loaded")
	}
	return nil
}
