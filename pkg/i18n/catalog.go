package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog maps a language code to its nested translation tree.
type Catalog map[string]map[string]any

// ParseYAML parses one translation file.
func ParseYAML(content []byte) (Catalog, error) {
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}

	result := make(Catalog, len(data))
	for lang, val := range data {
		tree, ok := val.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: language %q: expected map, got %T", ErrInvalidCatalog, lang, val)
		}
		result[lang] = tree
	}
	return result, nil
}

// LoadFS reads every .yaml and .yml file under fsys and merges them. Files
// are read in lexical order; a later file overrides top-level keys of an
// earlier one for the same language.
func LoadFS(ctx context.Context, fsys fs.FS) (Catalog, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(path.Ext(p)) {
		case ".yaml", ".yml":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	sort.Strings(files)

	result := make(Catalog)
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(ErrLoadingCancelled, err)
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, errors.Join(ErrFailedToReadFile, err)
		}
		if len(content) == 0 {
			continue
		}

		parsed, err := ParseYAML(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		result.Merge(parsed)
	}

	if len(result) == 0 {
		return nil, ErrNoTranslations
	}
	return result, nil
}

// Merge copies the top-level keys of other into c.
func (c Catalog) Merge(other Catalog) {
	for lang, tree := range other {
		if c[lang] == nil {
			c[lang] = make(map[string]any, len(tree))
		}
		maps.Copy(c[lang], tree)
	}
}

// lookup walks a dot-separated key through a nested tree.
func lookup(tree map[string]any, key string) (string, bool) {
	current := tree
	parts := strings.Split(key, ".")
	for i, part := range parts {
		val, ok := current[part]
		if !ok {
			return "", false
		}
		if i == len(parts)-1 {
			switch v := val.(type) {
			case string:
				return v, true
			case fmt.Stringer:
				return v.String(), true
			default:
				return "", false
			}
		}
		next, ok := val.(map[string]any)
		if !ok {
			return "", false
		}
		current = next
	}
	return "", false
}
