// Package catalog holds the labeled asset pool that puzzles are assembled from.
package catalog

import (
	"encoding/json"
	"log/slog"
	"slices"
	"strings"

	"github.com/myrjola/botornot/internal/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultItemsPerPuzzle is used when the catalog document does not declare itemsPerPuzzle.
	DefaultItemsPerPuzzle = 8
	// MinItemsPerPuzzle is the smallest size that leaves room for at least two items per sorted category.
	MinItemsPerPuzzle = 4
	// MinCategories is the number of non-empty categories every puzzle kind needs.
	MinCategories = 2
)

var (
	// ErrConfiguration means no puzzle can be built from the catalog. It is not retryable.
	ErrConfiguration = errors.NewSentinel("configuration error")
	// ErrUnavailable means the catalog could not be fetched or decoded. Reloading the page may help.
	ErrUnavailable = errors.NewSentinel("catalog unavailable")
)

// Category names a pool of items. It is internal data and must never be rendered.
type Category string

// Asset is one labeled image in the catalog.
type Asset struct {
	FileName string   `json:"fileName"           yaml:"fileName"`
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`
}

// Catalog maps categories to their assets.
type Catalog struct {
	ItemsPerPuzzle int                  `json:"itemsPerPuzzle" yaml:"itemsPerPuzzle"`
	Categories     map[Category][]Asset `json:"categories"     yaml:"categories"`
}

// Format is the encoding of a catalog document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the document format from a file name or URL path.
func FormatFromPath(path string) Format {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

// Parse decodes and validates a catalog document.
//
// Decoding failures wrap [ErrUnavailable], validation failures wrap [ErrConfiguration].
func Parse(data []byte, format Format) (*Catalog, error) {
	var (
		c   Catalog
		err error
	)
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &c)
	case FormatJSON:
		err = json.Unmarshal(data, &c)
	default:
		return nil, errors.Wrap(ErrUnavailable, "unknown catalog format", slog.String("format", string(format)))
	}
	if err != nil {
		return nil, errors.Wrap(ErrUnavailable, "decode catalog",
			slog.String("format", string(format)), slog.String("cause", err.Error()))
	}

	c.normalize()
	if err = c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// normalize fills in defaults. Items without a category inherit the key they are listed under.
func (c *Catalog) normalize() {
	if c.ItemsPerPuzzle == 0 {
		c.ItemsPerPuzzle = DefaultItemsPerPuzzle
	}
	for name, assets := range c.Categories {
		for i := range assets {
			if assets[i].Category == "" {
				assets[i].Category = name
			}
		}
	}
}

// Validate checks the invariants every puzzle kind relies on.
func (c *Catalog) Validate() error {
	if c.ItemsPerPuzzle < MinItemsPerPuzzle {
		return errors.Wrap(ErrConfiguration, "too few items per puzzle",
			slog.Int("items_per_puzzle", c.ItemsPerPuzzle), slog.Int("min", MinItemsPerPuzzle))
	}
	for name, assets := range c.Categories {
		if name == "" || strings.ContainsAny(string(name), `/\`) || strings.Contains(string(name), "..") {
			return errors.Wrap(ErrConfiguration, "invalid category name", slog.String("category", string(name)))
		}
		for _, asset := range assets {
			if asset.Category != name {
				return errors.Wrap(ErrConfiguration, "item listed under another category",
					slog.String("category", string(name)),
					slog.String("item_category", string(asset.Category)),
					slog.String("file_name", asset.FileName))
			}
			if asset.FileName == "" || strings.ContainsAny(asset.FileName, `/\`) || strings.Contains(asset.FileName, "..") {
				return errors.Wrap(ErrConfiguration, "invalid file name",
					slog.String("category", string(name)), slog.String("file_name", asset.FileName))
			}
		}
	}
	if n := len(c.NonEmpty()); n < MinCategories {
		return errors.Wrap(ErrConfiguration, "not enough categories to build a puzzle", slog.Int("non_empty", n))
	}
	return nil
}

// NonEmpty returns the categories that have at least one asset in a stable order.
func (c *Catalog) NonEmpty() []Category {
	names := make([]Category, 0, len(c.Categories))
	for name, assets := range c.Categories {
		if len(assets) > 0 {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Assets returns a copy of the assets of category.
func (c *Catalog) Assets(category Category) []Asset {
	return slices.Clone(c.Categories[category])
}
