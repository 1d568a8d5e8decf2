// Package catalog models purchasable shop items and reconciles the locally
// authored catalog with the live storefront listing.
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is what an item is paid with.
type Currency uint8

const (
	RealMoney Currency = iota
	Tickets
)

func (c Currency) String() string {
	switch c {
	case RealMoney:
		return "real_money"
	case Tickets:
		return "tickets"
	}
	return "unknown"
}

func ParseCurrency(s string) (Currency, error) {
	switch s {
	case "real_money", "RealMoney", "":
		return RealMoney, nil
	case "tickets", "Tickets", "soft":
		return Tickets, nil
	}
	return 0, fmt.Errorf("unknown currency %q", s)
}

// Kind is the storefront product type of an item.
type Kind uint8

const (
	Consumable Kind = iota
	NonConsumable
	Subscription
)

func (k Kind) String() string {
	switch k {
	case Consumable:
		return "consumable"
	case NonConsumable:
		return "non_consumable"
	case Subscription:
		return "subscription"
	}
	return "unknown"
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "consumable", "Consumable", "":
		return Consumable, nil
	case "non_consumable", "NonConsumable":
		return NonConsumable, nil
	case "subscription", "Subscription":
		return Subscription, nil
	}
	return 0, fmt.Errorf("unknown product kind %q", s)
}

// PayoutTicket is the payout key that credits tickets.
const PayoutTicket = "Ticket"

// Item is a shop entry. Two items are the same item when their IDs match.
type Item struct {
	ID            string
	Category      string
	Name          string
	Icon          string
	Price         decimal.Decimal
	Currency      Currency
	RequiredLevel int
	Kind          Kind
	Payouts       map[string]int
}

func (it Item) String() string { return fmt.Sprintf("%s [%s]", it.Name, it.ID) }

// TicketPrice is the price of a ticket item as a whole ticket count.
func (it Item) TicketPrice() int { return int(it.Price.IntPart()) }

// Product is a product definition as listed by the live storefront.
// Metadata optionally carries a JSON object with category, icon and
// requiredLevel.
type Product struct {
	ID        string
	Title     string
	Price     decimal.Decimal
	Kind      Kind
	Payouts   map[string]int
	Metadata  string
	Available bool
}
