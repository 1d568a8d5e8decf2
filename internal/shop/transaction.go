package shop

import (
	"github.com/google/uuid"

	"github.com/playperu/ticketarcade/internal/catalog"
)

// Phase is the lifecycle position of the in-flight transaction.
type Phase uint8

const (
	Idle Phase = iota
	Initiated
	Pending
	Completed
	Denied
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Initiated:
		return "initiated"
	case Pending:
		return "pending"
	case Completed:
		return "completed"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// Transaction is one purchase attempt. The coordinator keeps a single one;
// a new request replaces it.
type Transaction struct {
	ID    uuid.UUID
	Item  catalog.Item
	Phase Phase
}

// Open reports whether the transaction still waits for a storefront outcome.
func (t Transaction) Open() bool { return t.Phase == Initiated || t.Phase == Pending }
