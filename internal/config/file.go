package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"

	"github.com/albapepper/scoracle-quiz/internal/logo"
)

// ReadFile decodes a JSON5 file and merges <name>.local.<ext> over it when
// present. os.ErrNotExist is returned when neither file exists.
func ReadFile[T any](name string) (T, error) {
	var out T
	found := false

	base, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(base) > 0 {
		if err := json5.Unmarshal(base, &out); err != nil {
			return out, fmt.Errorf("decode %s: %w", name, err)
		}
		found = true
	}

	local := LocalName(name)
	override, err := os.ReadFile(local)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(override) > 0 {
		var o T
		if err := json5.Unmarshal(override, &o); err != nil {
			return out, fmt.Errorf("decode %s: %w", local, err)
		}
		if err := mergo.Merge(&out, o, mergo.WithOverride); err != nil {
			return out, fmt.Errorf("merge %s: %w", local, err)
		}
		slog.Info("merging config with local overrides", "local", local)
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// LocalName returns the local override path for name:
// "configs/logo_tables.json5" becomes "configs/logo_tables.local.json5".
func LocalName(name string) string {
	dir, file := filepath.Split(name)
	ext := filepath.Ext(file)
	return filepath.Join(dir, strings.TrimSuffix(file, ext)+".local"+ext)
}

// LoadLogoTables reads the crest tables file. A missing file yields the
// built-in defaults; lists left empty in the file keep their defaults.
func LoadLogoTables(name string) (logo.Tables, error) {
	tables, err := ReadFile[logo.Tables](name)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("logo tables file not found, using defaults", "file", name)
		return logo.DefaultTables(), nil
	}
	if err != nil {
		return logo.Tables{}, err
	}

	defaults := logo.DefaultTables()
	if err := mergo.Merge(&tables, defaults); err != nil {
		return logo.Tables{}, fmt.Errorf("apply logo table defaults: %w", err)
	}
	return tables, nil
}
