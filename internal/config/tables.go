package config

import (
	"fmt"
	"os"

	"talentrank/internal/errors"
	"talentrank/internal/match"

	"gopkg.in/yaml.v3"
)

// LoadTables returns the match lookup tables for the current configuration.
// With no tables file configured the built-in defaults are used; a configured
// file replaces them wholesale rather than merging.
func (c *Config) LoadTables(logger *errors.Logger) (*match.Tables, error) {
	if c.Match.TablesFile == "" {
		if logger != nil {
			logger.Debug("Using built-in match tables")
		}
		return match.DefaultTables(), nil
	}

	tables, err := LoadTablesFile(c.Match.TablesFile)
	if err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("Loaded match tables from file",
			"file", c.Match.TablesFile,
			"synonym_groups", len(tables.SynonymGroups),
			"regions", len(tables.Regions))
	}

	return tables, nil
}

// LoadTablesFile parses a YAML tables file.
func LoadTablesFile(path string) (*match.Tables, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to read match tables file %s", path), err)
	}

	var tables match.Tables
	if err := yaml.Unmarshal(content, &tables); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("failed to parse match tables file %s", path), err)
	}

	if err := tables.Validate(); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid match tables in %s", path), err)
	}

	return &tables, nil
}
