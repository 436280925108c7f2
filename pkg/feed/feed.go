// Package feed parses supplier catalog feeds. A feed is a YAML document
// carrying the shop name, its category list, and the goods on offer.
package feed

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Feed is the root of a supplier catalog document.
type Feed struct {
	Shop       string     `yaml:"shop"`
	Categories []Category `yaml:"categories"`
	Goods      []Good     `yaml:"goods"`
}

// Category declares a feed-scoped category. ID is the supplier's identifier.
type Category struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

// Good is one offered product with its per-shop stock and price.
type Good struct {
	ID         int64                 `yaml:"id"`
	Category   int64                 `yaml:"category"`
	Model      string                `yaml:"model"`
	Name       string                `yaml:"name"`
	Price      Money                 `yaml:"price"`
	PriceRRC   *Money                `yaml:"price_rrc"`
	Quantity   int                   `yaml:"quantity"`
	Parameters map[string]ParamValue `yaml:"parameters"`
}

// Money decodes a YAML scalar into an exact decimal amount. yaml.v3 has no
// TextUnmarshaler support, so decimal.Decimal needs the adapter.
type Money struct {
	decimal.Decimal
}

func (m *Money) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("money value must be a scalar, got %s", value.Tag)
	}
	d, err := decimal.NewFromString(value.Value)
	if err != nil {
		return fmt.Errorf("invalid money value %q: %w", value.Value, err)
	}
	m.Decimal = d
	return nil
}

// ParamValue accepts any YAML scalar and keeps its textual form. Supplier
// feeds mix strings, integers, floats, and booleans in parameter values.
type ParamValue string

func (p *ParamValue) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("parameter value must be a scalar, got %s", value.Tag)
	}
	*p = ParamValue(value.Value)
	return nil
}

func (p ParamValue) String() string {
	return string(p)
}

// Decode reads a YAML feed from r. Unknown fields are rejected so supplier
// typos surface as errors instead of silently dropped data.
func Decode(r io.Reader) (*Feed, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Feed
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("feed document is empty")
		}
		return nil, fmt.Errorf("decoding feed yaml: %w", err)
	}
	return &f, nil
}

// DecodeBytes parses a YAML feed held in memory.
func DecodeBytes(data []byte) (*Feed, error) {
	return Decode(bytes.NewReader(data))
}

// Validate checks the decoded feed for structural problems. All problems are
// aggregated so a supplier can fix the whole document in one pass.
func (f *Feed) Validate() error {
	var err error

	if f.Shop == "" {
		err = multierr.Append(err, errors.New("shop name is required"))
	}

	categoryIDs := make(map[int64]struct{}, len(f.Categories))
	for i, cat := range f.Categories {
		if cat.ID <= 0 {
			err = multierr.Append(err, fmt.Errorf("categories[%d]: id must be positive", i))
			continue
		}
		if cat.Name == "" {
			err = multierr.Append(err, fmt.Errorf("categories[%d] (id %d): name is required", i, cat.ID))
		}
		if _, dup := categoryIDs[cat.ID]; dup {
			err = multierr.Append(err, fmt.Errorf("categories[%d]: duplicate category id %d", i, cat.ID))
		}
		categoryIDs[cat.ID] = struct{}{}
	}

	goodIDs := make(map[int64]struct{}, len(f.Goods))
	for i, good := range f.Goods {
		if good.ID <= 0 {
			err = multierr.Append(err, fmt.Errorf("goods[%d]: id must be positive", i))
			continue
		}
		if _, dup := goodIDs[good.ID]; dup {
			err = multierr.Append(err, fmt.Errorf("goods[%d]: duplicate good id %d", i, good.ID))
		}
		goodIDs[good.ID] = struct{}{}

		if good.Name == "" {
			err = multierr.Append(err, fmt.Errorf("goods[%d] (id %d): name is required", i, good.ID))
		}
		if _, ok := categoryIDs[good.Category]; !ok {
			err = multierr.Append(err, fmt.Errorf("goods[%d] (id %d): unknown category %d", i, good.ID, good.Category))
		}
		if !good.Price.IsPositive() {
			err = multierr.Append(err, fmt.Errorf("goods[%d] (id %d): price must be positive", i, good.ID))
		}
		if good.PriceRRC != nil && !good.PriceRRC.IsPositive() {
			err = multierr.Append(err, fmt.Errorf("goods[%d] (id %d): price_rrc must be positive", i, good.ID))
		}
		if good.Quantity < 0 {
			err = multierr.Append(err, fmt.Errorf("goods[%d] (id %d): quantity cannot be negative", i, good.ID))
		}
	}

	return err
}
