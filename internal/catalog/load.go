package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type itemDoc struct {
	ID            string         `yaml:"id"`
	Category      string         `yaml:"category"`
	Name          string         `yaml:"name"`
	Icon          string         `yaml:"icon"`
	Price         string         `yaml:"price"`
	Currency      string         `yaml:"currency"`
	RequiredLevel int            `yaml:"requiredLevel"`
	Kind          string         `yaml:"kind"`
	Payouts       map[string]int `yaml:"payouts"`
}

type catalogDoc struct {
	Items []itemDoc `yaml:"items"`
}

// LoadFile reads a locally authored catalog from a YAML file.
func LoadFile(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a YAML catalog document. Item order is preserved and IDs
// must be unique.
func Decode(r io.Reader) ([]Item, error) {
	var doc catalogDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	items := make([]Item, 0, len(doc.Items))
	seen := make(map[string]bool, len(doc.Items))
	for i, d := range doc.Items {
		if d.ID == "" {
			return nil, fmt.Errorf("catalog item %d: id is required", i)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("catalog item %q: duplicate id", d.ID)
		}
		seen[d.ID] = true

		it, err := d.item()
		if err != nil {
			return nil, fmt.Errorf("catalog item %q: %w", d.ID, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func (d itemDoc) item() (Item, error) {
	price := decimal.Zero
	if d.Price != "" {
		p, err := decimal.NewFromString(d.Price)
		if err != nil {
			return Item{}, fmt.Errorf("parsing price: %w", err)
		}
		price = p
	}
	cur, err := ParseCurrency(d.Currency)
	if err != nil {
		return Item{}, err
	}
	if cur == Tickets && !price.IsInteger() {
		return Item{}, fmt.Errorf("ticket price %s is not a whole number", price)
	}
	kind, err := ParseKind(d.Kind)
	if err != nil {
		return Item{}, err
	}
	payouts := d.Payouts
	if payouts == nil {
		payouts = make(map[string]int)
	}
	return Item{
		ID:            d.ID,
		Category:      d.Category,
		Name:          d.Name,
		Icon:          d.Icon,
		Price:         price,
		Currency:      cur,
		RequiredLevel: d.RequiredLevel,
		Kind:          kind,
		Payouts:       payouts,
	}, nil
}
