package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/comparatrib/internal/calculation"
	"github.com/rgehrsitz/comparatrib/internal/domain"
	"gopkg.in/yaml.v3"
)

// TablesFile overrides the compiled-in regulatory tables. Either section may be
// omitted, in which case the statutory default is kept.
type TablesFile struct {
	Simples    *domain.SimplesTables    `yaml:"simples,omitempty"`
	Activities *domain.ActivityRegistry `yaml:"activities,omitempty"`
}

// LoadTables reads a tables override file; an empty path returns the defaults
func LoadTables(path string) (domain.SimplesTables, *domain.ActivityRegistry, error) {
	tables := calculation.DefaultSimplesTables()
	registry := calculation.DefaultActivityRegistry()
	if path == "" {
		return tables, registry, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tables, registry, fmt.Errorf("failed to read tables %s: %w", path, err)
	}
	var file TablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return tables, registry, fmt.Errorf("failed to parse tables %s: %w", path, err)
	}

	if file.Simples != nil {
		for annex, table := range file.Simples.Annexes {
			if table.Annex == "" {
				table.Annex = annex
				file.Simples.Annexes[annex] = table
			}
		}
		if err := file.Simples.Validate(); err != nil {
			return tables, registry, fmt.Errorf("invalid simples tables: %w", err)
		}
		tables = *file.Simples
	}
	if file.Activities != nil {
		if err := file.Activities.Build(); err != nil {
			return tables, registry, fmt.Errorf("invalid activity registry: %w", err)
		}
		registry = file.Activities
	}
	return tables, registry, nil
}

// WriteTables dumps the given tables in the override format
func WriteTables(path string, tables domain.SimplesTables, registry *domain.ActivityRegistry) error {
	data, err := yaml.Marshal(TablesFile{Simples: &tables, Activities: registry})
	if err != nil {
		return fmt.Errorf("failed to encode tables: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write tables %s: %w", path, err)
	}
	return nil
}
