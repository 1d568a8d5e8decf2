package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultSlot is the save slot name used when none is configured.
const DefaultSlot = "PlayerData"

// ErrCorruptSlot is returned by a SlotStore whose stored data fails its
// integrity check.
var ErrCorruptSlot = errors.New("progress: save slot is corrupt")

// SlotStore persists opaque save records by slot name. Load returns nil
// data and no error for an absent slot.
type SlotStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}

// Load reads the named slot. An absent or blank slot yields Default.
func Load(ctx context.Context, slots SlotStore, name string) (*Progress, error) {
	data, err := slots.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loading slot %q: %w", name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Default(), nil
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding slot %q: %w: %w", name, ErrCorruptSlot, err)
	}
	p := FromRecord(r)
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Tickets < 0 {
		p.Tickets = 0
	}
	return p, nil
}

// Save writes p to the named slot.
func Save(ctx context.Context, slots SlotStore, name string, p *Progress) error {
	data, err := json.Marshal(p.ToRecord())
	if err != nil {
		return fmt.Errorf("encoding progress: %w", err)
	}
	if err := slots.Save(ctx, name, data); err != nil {
		return fmt.Errorf("saving slot %q: %w", name, err)
	}
	return nil
}

// MemorySlots is an in-process SlotStore.
type MemorySlots map[string][]byte

func (m MemorySlots) Load(_ context.Context, name string) ([]byte, error) {
	return m[name], nil
}

func (m MemorySlots) Save(_ context.Context, name string, data []byte) error {
	m[name] = bytes.Clone(data)
	return nil
}
