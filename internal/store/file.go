package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File keeps each stage in <dir>/<stage>.json.
type File struct {
	dir string
}

// NewFile creates the directory if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(stage string) string {
	return filepath.Join(f.dir, stage+".json")
}

func (f *File) Load(_ context.Context, stage string, v any) error {
	if err := ValidStage(stage); err != nil {
		return err
	}
	data, err := os.ReadFile(f.path(stage))
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", stage, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", stage, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", stage, err)
	}
	return nil
}

// Save writes through a temporary file so an interrupted run never leaves a
// truncated stage behind.
func (f *File) Save(_ context.Context, stage string, v any) error {
	if err := ValidStage(stage); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", stage, err)
	}

	tmp, err := os.CreateTemp(f.dir, stage+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", stage, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", stage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", stage, err)
	}
	if err := os.Rename(tmp.Name(), f.path(stage)); err != nil {
		return fmt.Errorf("rename %s: %w", stage, err)
	}
	return nil
}

func (f *File) Stages(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", f.dir, err)
	}
	var stages []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		stages = append(stages, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(stages)
	return stages, nil
}

func (f *File) Close() error { return nil }
