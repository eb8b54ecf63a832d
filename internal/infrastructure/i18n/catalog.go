package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog resolves canned copy by key and locale from YAML message files.
// Lookups traverse dot-separated keys through nested maps and fall back to
// the default locale when a key or locale is missing.
type Catalog struct {
	defaultLocale string
	messages      map[string]map[string]any
}

// Load reads every <locale>.yaml file from dir. Missing directory or files
// leave the catalog empty; Resolve then returns the key itself, which keeps
// fallback copy visible rather than blank.
func Load(dir, defaultLocale string) (*Catalog, error) {
	catalog := &Catalog{
		defaultLocale: defaultLocale,
		messages:      make(map[string]map[string]any),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return catalog, nil
		}
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		locale := strings.TrimSuffix(name, ".yaml")

		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read locale file %s: %w", name, err)
		}
		var table map[string]any
		if err := yaml.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("parse locale file %s: %w", name, err)
		}
		catalog.messages[locale] = table
	}
	return catalog, nil
}

// FromTables builds a catalog from in-memory tables. Used in tests and for
// embedded defaults.
func FromTables(defaultLocale string, tables map[string]map[string]any) *Catalog {
	return &Catalog{defaultLocale: defaultLocale, messages: tables}
}

func (c *Catalog) Resolve(key, locale string, substitutions map[string]string) string {
	msg, ok := c.lookup(key, locale)
	if !ok && locale != c.defaultLocale {
		msg, ok = c.lookup(key, c.defaultLocale)
	}
	if !ok {
		return key
	}
	for name, value := range substitutions {
		msg = strings.ReplaceAll(msg, "{"+name+"}", value)
	}
	return msg
}

func (c *Catalog) lookup(key, locale string) (string, bool) {
	table, ok := c.messages[locale]
	if !ok {
		return "", false
	}

	var node any = map[string]any(table)
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return "", false
		}
		node, ok = m[part]
		if !ok {
			return "", false
		}
	}

	s, ok := node.(string)
	return s, ok
}
