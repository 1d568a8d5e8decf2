package navigator

import (
	"github.com/playperu/ticketarcade/internal/catalog"
	"github.com/playperu/ticketarcade/internal/progress"
)

// View is a screen that can be shown and hidden.
type View interface {
	Show()
	Hide()
	IsShown() bool
}

type MenuView interface {
	View
	SetTickets(n int)
}

type LevelsView interface {
	View
	SetProgress(p progress.Progress)
}

type SettingsView interface {
	View
	SetProgress(p progress.Progress)
}

// BonusView hosts both bonus screens. ShowWeek and ShowDay show the view
// with the matching face.
type BonusView interface {
	View
	ShowWeek()
	ShowDay()
	SetWeek(p progress.Progress)
	SetDay(b progress.DailyBonus)
}

type ShopView interface {
	View
	Refill(offers []catalog.Offer)
	UpdateItem(o catalog.Offer)
	UpdateItems(offers []catalog.Offer)
}

// Focus activates whatever control currently has input focus.
type Focus interface {
	SubmitSelected()
}

// Views is the set of collaborators the navigator drives. Overlay blocks
// input while shown.
type Views struct {
	Menu     MenuView
	Settings SettingsView
	Bonus    BonusView
	Levels   LevelsView
	Shop     ShopView
	Overlay  View
	Focus    Focus
}
