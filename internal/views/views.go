// Package views provides headless screens. They record what the navigator
// and presenter showed them so the devtools surface and tests can inspect
// the client without a renderer.
package views

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/playperu/ticketarcade/internal/catalog"
	"github.com/playperu/ticketarcade/internal/navigator"
	"github.com/playperu/ticketarcade/internal/progress"
)

var (
	_ navigator.MenuView     = (*Menu)(nil)
	_ navigator.LevelsView   = (*Levels)(nil)
	_ navigator.SettingsView = (*Settings)(nil)
	_ navigator.BonusView    = (*Bonus)(nil)
	_ navigator.ShopView     = (*Shop)(nil)
	_ navigator.View         = (*Overlay)(nil)
)

type base struct {
	name   string
	shown  bool
	logger *slog.Logger
}

func (b *base) Show() {
	b.shown = true
	b.logger.Debug("view shown", "view", b.name)
}

func (b *base) Hide() {
	b.shown = false
	b.logger.Debug("view hidden", "view", b.name)
}

func (b *base) IsShown() bool { return b.shown }

type Menu struct {
	base
	Tickets int
}

func (m *Menu) SetTickets(n int) { m.Tickets = n }

// LevelState describes one level button.
type LevelState uint8

const (
	LevelLocked LevelState = iota
	LevelCompleted
	LevelPlayable
)

func (s LevelState) String() string {
	switch s {
	case LevelCompleted:
		return "completed"
	case LevelPlayable:
		return "playable"
	}
	return "locked"
}

type Levels struct {
	base
	Count int
	Level int
}

func (l *Levels) SetProgress(p progress.Progress) { l.Level = p.Level }

// State reports how level n is presented: levels below the current one
// are completed, the current one is playable, the rest are locked.
func (l *Levels) State(n int) LevelState {
	switch {
	case n < l.Level:
		return LevelCompleted
	case n == l.Level:
		return LevelPlayable
	}
	return LevelLocked
}

type Settings struct {
	base
	Music bool
	Sound bool
}

func (s *Settings) SetProgress(p progress.Progress) {
	s.Music = p.Music
	s.Sound = p.Sound
}

// Face is the sub-screen the bonus view currently displays.
type Face uint8

const (
	FaceNone Face = iota
	FaceWeek
	FaceDay
)

func (f Face) String() string {
	switch f {
	case FaceWeek:
		return "week"
	case FaceDay:
		return "day"
	}
	return "none"
}

// Days is the number of daily bonuses in a week.
const Days = 7

type Bonus struct {
	base
	Face    Face
	Claimed map[int]bool
	Day     progress.DailyBonus
}

func (b *Bonus) ShowWeek() {
	b.Show()
	b.Face = FaceWeek
}

func (b *Bonus) ShowDay() {
	b.Show()
	b.Face = FaceDay
}

func (b *Bonus) Hide() {
	b.base.Hide()
	b.Face = FaceNone
}

func (b *Bonus) SetWeek(p progress.Progress) { b.Claimed = maps.Clone(p.DailyBonus) }

func (b *Bonus) SetDay(d progress.DailyBonus) { b.Day = d }

// Fill reports the weekly progress bar position between 0 and 1.
func (b *Bonus) Fill() float64 {
	return float64(len(b.ClaimedDays())) / Days
}

// Claimable reports whether day can still be claimed this week.
func (b *Bonus) Claimable(day int) bool {
	return !b.Claimed[day]
}

// ClaimedDays lists the claimed days in order.
func (b *Bonus) ClaimedDays() []int {
	days := make([]int, 0, len(b.Claimed))
	for day, taken := range b.Claimed {
		if taken {
			days = append(days, day)
		}
	}
	slices.Sort(days)
	return days
}

type Shop struct {
	base
	Categories []string
	Offers     []catalog.Offer
	Refills    int
}

func (s *Shop) Refill(offers []catalog.Offer) {
	s.Refills++
	s.Offers = slices.Clone(offers)
	s.Categories = s.Categories[:0]
	for _, o := range s.Offers {
		if o.Item.Category == "" || slices.Contains(s.Categories, o.Item.Category) {
			continue
		}
		s.Categories = append(s.Categories, o.Item.Category)
	}
	s.logger.Debug("shop refilled", "offers", len(s.Offers), "categories", len(s.Categories))
}

func (s *Shop) UpdateItem(o catalog.Offer) {
	for i := range s.Offers {
		if s.Offers[i].Item.ID == o.Item.ID {
			s.Offers[i] = o
		}
	}
}

// UpdateItems refreshes the flags of offers already on display. Offers the
// shop was never filled with are ignored.
func (s *Shop) UpdateItems(offers []catalog.Offer) {
	for _, o := range offers {
		s.UpdateItem(o)
	}
}

// Offer looks up a displayed offer by item id.
func (s *Shop) Offer(id string) (catalog.Offer, bool) {
	for _, o := range s.Offers {
		if o.Item.ID == id {
			return o, true
		}
	}
	return catalog.Offer{}, false
}

type Overlay struct {
	base
}
