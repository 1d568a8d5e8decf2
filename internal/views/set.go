package views

import (
	"log/slog"

	"github.com/playperu/ticketarcade/internal/catalog"
	"github.com/playperu/ticketarcade/internal/events"
	"github.com/playperu/ticketarcade/internal/navigator"
	"github.com/playperu/ticketarcade/internal/progress"
)

// LevelCount is the number of level buttons on the levels screen.
const LevelCount = 12

// Set is one of every headless view.
type Set struct {
	Menu     *Menu
	Settings *Settings
	Bonus    *Bonus
	Levels   *Levels
	Shop     *Shop
	Overlay  *Overlay
	Focus    *Focus
	Audio    *Audio
}

func NewSet(pub events.Publisher, logger *slog.Logger) *Set {
	mk := func(name string) base {
		return base{name: name, logger: logger.With("view", name)}
	}
	return &Set{
		Menu:     &Menu{base: mk("menu")},
		Settings: &Settings{base: mk("settings")},
		Bonus:    &Bonus{base: mk("bonus")},
		Levels:   &Levels{base: mk("levels"), Count: LevelCount},
		Shop:     &Shop{base: mk("shop")},
		Overlay:  &Overlay{base: mk("overlay")},
		Focus:    &Focus{pub: pub, logger: logger},
		Audio:    &Audio{Music: true, Sound: true, logger: logger},
	}
}

// Navigator returns the set as the navigator's collaborators.
func (s *Set) Navigator() navigator.Views {
	return navigator.Views{
		Menu:     s.Menu,
		Settings: s.Settings,
		Bonus:    s.Bonus,
		Levels:   s.Levels,
		Shop:     s.Shop,
		Overlay:  s.Overlay,
		Focus:    s.Focus,
	}
}

// State is a serializable snapshot of every view.
type State struct {
	Shown    []string             `json:"shown"`
	Tickets  int                  `json:"tickets"`
	Level    int                  `json:"level"`
	Music    bool                 `json:"music"`
	Sound    bool                 `json:"sound"`
	Face     string               `json:"bonusFace"`
	Claimed  []int                `json:"claimedDays"`
	Day      *progress.DailyBonus `json:"dailyBonus,omitempty"`
	Overlay  bool                 `json:"overlay"`
	Offers   []OfferState         `json:"offers"`
	Selected string               `json:"selected,omitempty"`
	Clicks   int                  `json:"clicks"`
	Playing  bool                 `json:"musicPlaying"`
}

type OfferState struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	Currency   string `json:"currency"`
	Locked     bool   `json:"locked"`
	Purchased  bool   `json:"purchased"`
	Affordable bool   `json:"affordable"`
}

func offerState(o catalog.Offer) OfferState {
	return OfferState{
		ID:         o.Item.ID,
		Category:   o.Item.Category,
		Name:       o.Item.Name,
		Price:      o.Item.Price.String(),
		Currency:   o.Item.Currency.String(),
		Locked:     o.Locked,
		Purchased:  o.Purchased,
		Affordable: o.Affordable,
	}
}

func (s *Set) State() State {
	st := State{
		Shown:    []string{},
		Tickets:  s.Menu.Tickets,
		Level:    s.Levels.Level,
		Music:    s.Settings.Music,
		Sound:    s.Settings.Sound,
		Face:     s.Bonus.Face.String(),
		Claimed:  s.Bonus.ClaimedDays(),
		Overlay:  s.Overlay.IsShown(),
		Offers:   make([]OfferState, 0, len(s.Shop.Offers)),
		Selected: s.Focus.Selected(),
		Clicks:   s.Audio.Clicks,
		Playing:  s.Audio.Playing(),
	}
	if s.Bonus.Day.Day != 0 {
		d := s.Bonus.Day
		st.Day = &d
	}
	for _, v := range []*base{&s.Menu.base, &s.Settings.base, &s.Bonus.base, &s.Levels.base, &s.Shop.base, &s.Overlay.base} {
		if v.shown {
			st.Shown = append(st.Shown, v.name)
		}
	}
	for _, o := range s.Shop.Offers {
		st.Offers = append(st.Offers, offerState(o))
	}
	return st
}
