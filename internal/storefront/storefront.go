// Package storefront describes the external store session the client
// purchases real-money products through.
package storefront

import (
	"context"
	"errors"

	"github.com/playperu/ticketarcade/internal/catalog"
)

var (
	ErrNotInitialized = errors.New("storefront: not initialized")
	ErrUnknownProduct = errors.New("storefront: product not found")
	ErrUnavailable    = errors.New("storefront: product not available for purchase")
)

// Status is the result reported for a purchase.
type Status uint8

const (
	Completed Status = iota + 1
	Deferred
	Failed
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case Deferred:
		return "deferred"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Outcome is delivered to the session listener, possibly long after the
// purchase was started. A deferred purchase is followed by a later
// Completed or Failed outcome for the same product.
type Outcome struct {
	ProductID string
	Status    Status
	Receipt   string
	Reason    string
}

// Listener receives purchase outcomes. It is called from storefront
// goroutines.
type Listener func(Outcome)

// Storefront is a platform store session.
type Storefront interface {
	// Initialize opens the session and registers the outcome listener.
	Initialize(ctx context.Context, l Listener) error
	// Products lists the live product definitions.
	Products(ctx context.Context) ([]catalog.Product, error)
	// Purchase starts a purchase. The result arrives through the listener;
	// the returned error only covers requests that could not be started.
	Purchase(ctx context.Context, productID string) error
	// Receipts lists the ids of owned non-consumable products.
	Receipts(ctx context.Context) ([]string, error)
}

// ConsentChecker verifies the consents required before the store session
// may be opened.
type ConsentChecker interface {
	CheckRequiredConsents(ctx context.Context) error
}
