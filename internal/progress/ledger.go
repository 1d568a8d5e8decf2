package progress

import (
	"errors"
	"log/slog"
)

// ErrNilProgress is returned when a Ledger is built without an aggregate.
var ErrNilProgress = errors.New("progress: player progress must not be nil")

// Ledger applies domain mutations to a Progress while keeping its
// invariants: tickets never go negative, the level never decreases and
// purchased ids stay unique.
type Ledger struct {
	p         *Progress
	lastBonus *DailyBonus
	logger    *slog.Logger
}

func NewLedger(p *Progress, logger *slog.Logger) (*Ledger, error) {
	if p == nil {
		return nil, ErrNilProgress
	}
	if p.DailyBonus == nil {
		p.DailyBonus = make(map[int]bool)
	}
	if p.Purchased == nil {
		p.Purchased = make(map[string]struct{})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{p: p, logger: logger}, nil
}

// Snapshot returns a deep copy of the current progress.
func (l *Ledger) Snapshot() Progress { return l.p.Clone() }

func (l *Ledger) Tickets() int { return l.p.Tickets }

func (l *Ledger) Level() int { return l.p.Level }

// SetLevel raises the level to n. Lower values are ignored.
func (l *Ledger) SetLevel(n int) {
	l.p.Level = max(l.p.Level, n)
}

func (l *Ledger) AddTickets(n int) {
	if n <= 0 {
		return
	}
	l.logger.Debug("adding tickets", "amount", n)
	l.p.Tickets += n
}

// SpendTickets deducts n tickets. It refuses, returning false, when the
// balance would go negative.
func (l *Ledger) SpendTickets(n int) bool {
	if n < 0 || n > l.p.Tickets {
		return false
	}
	l.p.Tickets -= n
	return true
}

// ClaimDailyBonus credits the bonus once per day and remembers it as the
// last claimed bonus. It reports whether the bonus was new.
func (l *Ledger) ClaimDailyBonus(b DailyBonus) bool {
	if l.p.DailyBonus[b.Day] {
		return false
	}
	l.p.DailyBonus[b.Day] = true
	l.logger.Debug("adding tickets as daily bonus", "day", b.Day, "amount", b.Amount)
	l.AddTickets(b.Amount)
	l.lastBonus = &b
	return true
}

// LastBonus returns the most recently claimed daily bonus of the session.
func (l *Ledger) LastBonus() (DailyBonus, bool) {
	if l.lastBonus == nil {
		return DailyBonus{}, false
	}
	return *l.lastBonus, true
}

// AddPurchase records a purchased item id. Re-adding an id is a no-op
// and reports false.
func (l *Ledger) AddPurchase(id string) bool {
	if id == "" {
		return false
	}
	if _, ok := l.p.Purchased[id]; ok {
		return false
	}
	l.p.Purchased[id] = struct{}{}
	l.logger.Info("item added to purchases", "item_id", id)
	return true
}

func (l *Ledger) IsPurchased(id string) bool {
	_, ok := l.p.Purchased[id]
	return ok
}

// ToggleMusic flips the music flag and returns the new value.
func (l *Ledger) ToggleMusic() bool {
	l.p.Music = !l.p.Music
	return l.p.Music
}

// ToggleSound flips the sound flag and returns the new value.
func (l *Ledger) ToggleSound() bool {
	l.p.Sound = !l.p.Sound
	return l.p.Sound
}

func (l *Ledger) Progress() *Progress { return l.p }
