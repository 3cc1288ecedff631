package menu

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Catalog is the set of categories offered by the menu.
type Catalog struct {
	Categories []Category `yaml:"categories"`
}

// Category is one sub-menu. Singular and Plural default to Name.
type Category struct {
	Name     string   `yaml:"name"`
	Singular string   `yaml:"singular,omitempty"`
	Plural   string   `yaml:"plural,omitempty"`
	Items    []string `yaml:"items"`
}

// DefaultCatalog returns the built-in fruit, vegetable and spice catalog.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("menu: invalid default catalog: %v", err))
	}
	return c
}

// LoadCatalog reads and validates a YAML catalog file.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	for i := range c.Categories {
		cat := &c.Categories[i]
		if cat.Singular == "" {
			cat.Singular = cat.Name
		}
		if cat.Plural == "" {
			cat.Plural = cat.Name
		}
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate checks that category names and items are non-empty and unique.
// Items must be unique across categories so misplaced picks can be
// redirected unambiguously.
func (c Catalog) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("catalog has no categories")
	}
	names := make(map[string]bool)
	owner := make(map[string]string)
	for _, cat := range c.Categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return fmt.Errorf("category name must not be empty")
		}
		if name == QuitCommand {
			return fmt.Errorf("category name %q is reserved", name)
		}
		if names[name] {
			return fmt.Errorf("duplicate category %q", name)
		}
		names[name] = true

		if len(cat.Items) == 0 {
			return fmt.Errorf("category %q has no items", name)
		}
		for _, item := range cat.Items {
			switch {
			case strings.TrimSpace(item) == "":
				return fmt.Errorf("category %q has an empty item", name)
			case item == QuitCommand:
				return fmt.Errorf("item %q in category %q is reserved", item, name)
			case owner[item] != "":
				return fmt.Errorf("item %q appears in both %q and %q", item, owner[item], name)
			}
			owner[item] = name
		}
	}
	return nil
}

// owner returns the category containing item.
func (c Catalog) owner(item string) (Category, bool) {
	for _, cat := range c.Categories {
		for _, it := range cat.Items {
			if it == item {
				return cat, true
			}
		}
	}
	return Category{}, false
}
