// Package store keeps save slots in the local libSQL database. Every slot
// is stored with a keyed BLAKE2b digest so that edited save files are
// detected on load.
package store

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/playperu/ticketarcade/internal/progress"
)

var _ progress.SlotStore = (*Slots)(nil)

// SlotInfo describes a stored slot without its data.
type SlotInfo struct {
	Name      string `json:"name"`
	Size      int    `json:"size"`
	Saves     int    `json:"saves"`
	UpdatedAt string `json:"updatedAt"`
}

type Slots struct {
	db  *sql.DB
	key []byte
}

// NewSlots returns a slot store over db. key may be empty, in which case
// digests are unkeyed; it must not exceed 64 bytes.
func NewSlots(db *sql.DB, key []byte) (*Slots, error) {
	if len(key) > blake2b.Size {
		return nil, fmt.Errorf("save key is %d bytes, at most %d allowed", len(key), blake2b.Size)
	}
	return &Slots{db: db, key: key}, nil
}

func (s *Slots) digest(name string, data []byte) []byte {
	h, err := blake2b.New256(s.key)
	if err != nil {
		// Key length is checked in NewSlots.
		panic(err)
	}
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write(data)
	return h.Sum(nil)
}

// Load returns the slot's data, or nil when the slot does not exist. Data
// whose digest does not match fails with progress.ErrCorruptSlot.
func (s *Slots) Load(ctx context.Context, name string) ([]byte, error) {
	var data, digest []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data, digest FROM save_slots WHERE name = ?
	`, name).Scan(&data, &digest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot: %w", err)
	}
	if subtle.ConstantTimeCompare(digest, s.digest(name, data)) != 1 {
		return nil, fmt.Errorf("verifying slot %q: %w", name, progress.ErrCorruptSlot)
	}
	return data, nil
}

func (s *Slots) Save(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO save_slots (name, data, digest)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			data = excluded.data,
			digest = excluded.digest,
			saves = save_slots.saves + 1,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, name, data, s.digest(name, data))
	if err != nil {
		return fmt.Errorf("writing slot: %w", err)
	}
	return nil
}

// Delete removes a slot. Deleting an absent slot is not an error.
func (s *Slots) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM save_slots WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting slot: %w", err)
	}
	return nil
}

// List describes every stored slot, ordered by name.
func (s *Slots) List(ctx context.Context) ([]SlotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, length(data), saves, updated_at
		FROM save_slots
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	defer rows.Close()

	var out []SlotInfo
	for rows.Next() {
		var info SlotInfo
		if err := rows.Scan(&info.Name, &info.Size, &info.Saves, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
