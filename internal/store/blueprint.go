package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"callsheet-cli/internal/schema"
)

const blueprintFileName = "blueprint.yaml"

func (s Store) blueprintPath() string {
	return filepath.Join(s.Dir, blueprintFileName)
}

// LoadBlueprint reads the workspace blueprint. Missing file means the
// built-in default; a file that exists but does not parse also falls back to
// the default, with warn set so startup can report it without blocking.
func (s Store) LoadBlueprint() (bp *schema.Blueprint, warn error) {
	b, err := os.ReadFile(s.blueprintPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return schema.Default(), nil
		}
		return schema.Default(), fmt.Errorf("read blueprint: %w", err)
	}
	bp, err = schema.Parse(b)
	if err != nil {
		return schema.Default(), fmt.Errorf("blueprint unusable (using default): %w", err)
	}
	return bp, nil
}

// WriteDefaultBlueprint seeds blueprint.yaml so users have a file to edit.
// Existing files are left alone.
func (s Store) WriteDefaultBlueprint() error {
	if err := s.Ensure(); err != nil {
		return err
	}
	path := s.blueprintPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, schema.DefaultYAML(), 0o644)
}
