// Package progress owns the persistent player aggregate: tickets, level,
// audio settings, claimed daily bonuses and purchased items.
package progress

import (
	"maps"
	"slices"
)

// DailyBonus is a claimable bonus from the weekly bonus screen.
type DailyBonus struct {
	Day    int `json:"day"`
	Amount int `json:"amount"`
}

// Progress is the player aggregate. It is mutated only through a Ledger.
type Progress struct {
	Tickets    int
	Level      int
	Music      bool
	Sound      bool
	DailyBonus map[int]bool
	Purchased  map[string]struct{}
}

// Default returns the progress of a fresh install.
func Default() *Progress {
	return &Progress{
		Tickets:    0,
		Level:      1,
		Music:      true,
		Sound:      true,
		DailyBonus: make(map[int]bool),
		Purchased:  make(map[string]struct{}),
	}
}

// Clone returns a deep copy.
func (p *Progress) Clone() Progress {
	c := *p
	c.DailyBonus = maps.Clone(p.DailyBonus)
	if c.DailyBonus == nil {
		c.DailyBonus = make(map[int]bool)
	}
	c.Purchased = maps.Clone(p.Purchased)
	if c.Purchased == nil {
		c.Purchased = make(map[string]struct{})
	}
	return c
}

// PurchasedIDs returns the purchased item ids in sorted order.
func (p *Progress) PurchasedIDs() []string {
	return slices.Sorted(maps.Keys(p.Purchased))
}

// ClaimedDays counts the claimed daily bonuses.
func (p *Progress) ClaimedDays() int {
	n := 0
	for _, taken := range p.DailyBonus {
		if taken {
			n++
		}
	}
	return n
}
