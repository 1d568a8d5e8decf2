package events

import (
	"github.com/google/uuid"

	"github.com/playperu/ticketarcade/internal/catalog"
	"github.com/playperu/ticketarcade/internal/progress"
	"github.com/playperu/ticketarcade/internal/screen"
	"github.com/playperu/ticketarcade/internal/storefront"
)

// Topic is the category of an event. Subscriptions are per topic.
type Topic uint8

const (
	TopicButton Topic = iota + 1
	TopicAudio
	TopicGame
	TopicShop
	TopicUI
	TopicInput
	TopicNavigation
)

// Topics lists every topic.
var Topics = []Topic{TopicButton, TopicAudio, TopicGame, TopicShop, TopicUI, TopicInput, TopicNavigation}

func (t Topic) String() string {
	switch t {
	case TopicButton:
		return "button"
	case TopicAudio:
		return "audio"
	case TopicGame:
		return "game"
	case TopicShop:
		return "shop"
	case TopicUI:
		return "ui"
	case TopicInput:
		return "input"
	case TopicNavigation:
		return "navigation"
	}
	return "unknown"
}

// Button events are raised by screens when a control is activated.

type ButtonKind uint8

const (
	ButtonMenu ButtonKind = iota + 1
	ButtonPlay
	ButtonSettings
	ButtonShop
	ButtonBonus
	ButtonLevel
	ButtonMusic
	ButtonSound
	ButtonDailyBonus
)

var buttonNames = map[ButtonKind]string{
	ButtonMenu:       "menu",
	ButtonPlay:       "play",
	ButtonSettings:   "settings",
	ButtonShop:       "shop",
	ButtonBonus:      "bonus",
	ButtonLevel:      "level",
	ButtonMusic:      "music",
	ButtonSound:      "sound",
	ButtonDailyBonus: "daily_bonus",
}

func (k ButtonKind) String() string { return nameOf(buttonNames, k) }

// ParseButton maps a button name to its kind.
func ParseButton(name string) (ButtonKind, bool) { return parseName(buttonNames, name) }

type ButtonEvent struct {
	Kind ButtonKind
	// Level is the level number of a ButtonLevel press.
	Level int
	// Bonus is the bonus claimed by a ButtonDailyBonus press.
	Bonus progress.DailyBonus
}

func (ButtonEvent) Topic() Topic { return TopicButton }

// Audio events drive the passive audio collaborator.

type AudioKind uint8

const (
	AudioSettingsChanged AudioKind = iota + 1
	AudioPlayClick
	AudioTurnMusic
	AudioTurnSound
)

var audioNames = map[AudioKind]string{
	AudioSettingsChanged: "settings_changed",
	AudioPlayClick:       "play_click",
	AudioTurnMusic:       "turn_music",
	AudioTurnSound:       "turn_sound",
}

func (k AudioKind) String() string { return nameOf(audioNames, k) }

type AudioEvent struct {
	Kind  AudioKind
	Music bool
	Sound bool
}

func (AudioEvent) Topic() Topic { return TopicAudio }

// Game events carry domain facts to the presenter.

type GameKind uint8

const (
	GameTicketsReceived GameKind = iota + 1
	GameTicketsSpent
	GameViewShown
	GameViewHidden
	GameLevelAcquired
	GameStoreInitialized
	GameReceiptsRestored
)

var gameNames = map[GameKind]string{
	GameTicketsReceived:  "tickets_received",
	GameTicketsSpent:     "tickets_spent",
	GameViewShown:        "view_shown",
	GameViewHidden:       "view_hidden",
	GameLevelAcquired:    "level_acquired",
	GameStoreInitialized: "store_initialized",
	GameReceiptsRestored: "receipts_restored",
}

func (k GameKind) String() string { return nameOf(gameNames, k) }

type GameEvent struct {
	Kind    GameKind
	Tickets int
	// Bonus is set when received tickets come from a daily bonus claim.
	Bonus  *progress.DailyBonus
	Level  int
	Screen screen.Screen
	// ProductIDs lists owned products for GameReceiptsRestored.
	ProductIDs []string
}

func (GameEvent) Topic() Topic { return TopicGame }

// Shop events follow a purchase from request to outcome.

type ShopKind uint8

const (
	ShopPurchaseRequested ShopKind = iota + 1
	ShopPurchaseInitiated
	ShopPurchaseDenied
	ShopPurchaseCompleted
	ShopStorefrontOutcome
)

var shopNames = map[ShopKind]string{
	ShopPurchaseRequested: "purchase_requested",
	ShopPurchaseInitiated: "purchase_initiated",
	ShopPurchaseDenied:    "purchase_denied",
	ShopPurchaseCompleted: "purchase_completed",
	ShopStorefrontOutcome: "storefront_outcome",
}

func (k ShopKind) String() string { return nameOf(shopNames, k) }

type ShopEvent struct {
	Kind          ShopKind
	TransactionID uuid.UUID
	Item          catalog.Item
	// Pending marks a denial that is really a deferred purchase awaiting
	// a later outcome.
	Pending bool
	Reason  string
	// Outcome is the raw storefront report for ShopStorefrontOutcome.
	Outcome storefront.Outcome
}

func (ShopEvent) Topic() Topic { return TopicShop }

// UI events push data to screens and toggle the blocking overlay.

type UIKind uint8

const (
	UIUpdateTickets UIKind = iota + 1
	UIUpdateLevels
	UIShowDailyBonus
	UIUpdateSettings
	UIUpdateShop
	UIUpdateShopItem
	UIUpdateShopItems
	UIShowOverlay
	UIHideOverlay
	UIUpdateWeeklyBonus
	UIUpdateDailyBonus
)

var uiNames = map[UIKind]string{
	UIUpdateTickets:     "update_tickets",
	UIUpdateLevels:      "update_levels",
	UIShowDailyBonus:    "show_daily_bonus",
	UIUpdateSettings:    "update_settings",
	UIUpdateShop:        "update_shop",
	UIUpdateShopItem:    "update_shop_item",
	UIUpdateShopItems:   "update_shop_items",
	UIShowOverlay:       "show_overlay",
	UIHideOverlay:       "hide_overlay",
	UIUpdateWeeklyBonus: "update_weekly_bonus",
	UIUpdateDailyBonus:  "update_daily_bonus",
}

func (k UIKind) String() string { return nameOf(uiNames, k) }

type UIEvent struct {
	Kind     UIKind
	Tickets  int
	Progress progress.Progress
	Bonus    progress.DailyBonus
	Offers   []catalog.Offer
	Offer    catalog.Offer
}

func (UIEvent) Topic() Topic { return TopicUI }

// Input events come from the device: a confirm press or a back press.

type InputKind uint8

const (
	InputConfirm InputKind = iota + 1
	InputCancel
)

var inputNames = map[InputKind]string{
	InputConfirm: "confirm",
	InputCancel:  "cancel",
}

func (k InputKind) String() string { return nameOf(inputNames, k) }

func ParseInput(name string) (InputKind, bool) { return parseName(inputNames, name) }

type InputEvent struct {
	Kind InputKind
}

func (InputEvent) Topic() Topic { return TopicInput }

// NavigationRequest asks the navigator to move to Target.
type NavigationRequest struct {
	Target screen.Screen
}

func (NavigationRequest) Topic() Topic { return TopicNavigation }

func nameOf[K comparable](names map[K]string, k K) string {
	if n, ok := names[k]; ok {
		return n
	}
	return "unknown"
}

func parseName[K comparable](names map[K]string, name string) (K, bool) {
	for k, n := range names {
		if n == name {
			return k, true
		}
	}
	var zero K
	return zero, false
}
