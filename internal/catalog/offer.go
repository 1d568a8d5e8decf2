package catalog

import "github.com/shopspring/decimal"

// Offer is an item as the shop shows it to a particular player.
type Offer struct {
	Item       Item
	Locked     bool
	Purchased  bool
	Affordable bool
}

// Wallet is the slice of player state an offer depends on.
type Wallet interface {
	Tickets() int
	Level() int
	IsPurchased(id string) bool
}

// OfferFor projects it for the player behind w. Ticket items are
// affordable when the balance covers the price; real-money items always
// are.
func OfferFor(it Item, w Wallet) Offer {
	o := Offer{
		Item:       it,
		Locked:     it.RequiredLevel > w.Level(),
		Purchased:  w.IsPurchased(it.ID),
		Affordable: true,
	}
	if it.Currency == Tickets {
		o.Affordable = decimal.NewFromInt(int64(w.Tickets())).GreaterThanOrEqual(it.Price)
	}
	return o
}

// Offers projects every item of s.
func Offers(s *Set, w Wallet) []Offer {
	out := make([]Offer, 0, s.Len())
	for _, it := range s.items {
		out = append(out, OfferFor(it, w))
	}
	return out
}
