package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"codee/pkg/platform/sentinel"
)

// Load reads and compiles the rule tree at path. When the file does not
// exist it writes DefaultTree(adultAgeLimit) there first, so a fresh
// deployment starts with the built-in rules and operators can edit the
// persisted copy.
func Load(path string, adultAgeLimit float64) (*Tree, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		tree := DefaultTree(adultAgeLimit)
		if err := persist(path, tree); err != nil {
			return nil, err
		}
		if err := tree.Compile(); err != nil {
			return nil, err
		}
		return tree, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}

	// Rule files edited on Windows tend to arrive with a UTF-8 BOM.
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	var tree Tree
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", path, err)
	}
	if len(tree.States) == 0 {
		return nil, fmt.Errorf("rules %s: no states: %w", path, sentinel.ErrInvalidState)
	}
	if err := tree.Compile(); err != nil {
		return nil, fmt.Errorf("compile rules %s: %w", path, err)
	}
	return &tree, nil
}

func persist(path string, tree *Tree) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create rules dir: %w", err)
		}
	}
	data, err := tree.Dump()
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write rules %s: %w", path, err)
	}
	return nil
}
