package catalog

import (
	"log/slog"
	"maps"

	"github.com/tidwall/gjson"
)

// Merge reconciles the local catalog with the live storefront listing.
//
// A live product whose ID matches a local item overlays its name, price,
// currency, kind and payouts onto that item. Category, icon and required
// level stay local when set and are otherwise taken from the product
// metadata. Live products without a local counterpart are synthesized
// from the product alone. Local-only items are added last.
func Merge(local []Item, live []Product, logger *slog.Logger) *Set {
	if logger == nil {
		logger = slog.Default()
	}

	byID := make(map[string]Item, len(local))
	for _, it := range local {
		if _, ok := byID[it.ID]; !ok {
			byID[it.ID] = it
		}
	}

	set := NewSet()
	for _, p := range live {
		it, ok := byID[p.ID]
		if !ok {
			it = Item{ID: p.ID}
		}
		overlay(&it, p, logger)
		set.Add(it)
		if ok {
			logger.Debug("loaded item from storefront", "item_id", p.ID)
		}
	}

	for _, it := range local {
		set.Add(it)
	}
	return set
}

func overlay(it *Item, p Product, logger *slog.Logger) {
	it.Name = p.Title
	it.Price = p.Price
	it.Currency = RealMoney
	it.Kind = p.Kind
	it.Payouts = maps.Clone(p.Payouts)
	if it.Payouts == nil {
		it.Payouts = make(map[string]int)
	}

	if p.Metadata == "" {
		return
	}
	if !gjson.Valid(p.Metadata) {
		logger.Warn("skipping unparseable product metadata", "item_id", p.ID)
		return
	}
	meta := gjson.Parse(p.Metadata)
	if !meta.IsObject() {
		logger.Warn("skipping unparseable product metadata", "item_id", p.ID)
		return
	}

	if it.Category == "" {
		it.Category = meta.Get("category").String()
	}
	if it.Icon == "" {
		it.Icon = meta.Get("icon").String()
	}
	if it.RequiredLevel == 0 {
		it.RequiredLevel = int(meta.Get("requiredLevel").Int())
	}
}
