package provider

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// expandInputs resolves inputs against root and returns the .rs files they
// name as sorted, deduplicated slash paths relative to root.
func expandInputs(root string, inputs []string, suffix string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	seen := make(map[string]bool)
	var out []string
	add := func(abs string) error {
		rel, err := filepath.Rel(absRoot, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("input %s is outside root %s", abs, absRoot)
		}
		rel = filepath.ToSlash(rel)
		if !seen[rel] {
			seen[rel] = true
			out = append(out, rel)
		}
		return nil
	}

	for _, in := range inputs {
		abs := in
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(absRoot, in)
		}
		abs = filepath.Clean(abs)
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", in, err)
		}
		if !info.IsDir() {
			if filepath.Ext(abs) != ".rs" {
				return nil, fmt.Errorf("input %s: not a .rs file", in)
			}
			if err := add(abs); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != abs && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".rs" || isGenerated(path, suffix) {
				return nil
			}
			return add(path)
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", in, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

// skipDir reports directories never scanned: cargo output and hidden dirs.
func skipDir(name string) bool {
	return name == "target" || strings.HasPrefix(name, ".")
}

func isGenerated(path, suffix string) bool {
	return suffix != "" && strings.HasSuffix(path, suffix+".rs")
}
