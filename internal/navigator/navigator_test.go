package navigator_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/ticketarcade/internal/catalog"
	"github.com/playperu/ticketarcade/internal/events"
	"github.com/playperu/ticketarcade/internal/navigator"
	"github.com/playperu/ticketarcade/internal/progress"
	"github.com/playperu/ticketarcade/internal/screen"
	"github.com/playperu/ticketarcade/internal/views"
)

type fixture struct {
	broker *events.Broker
	views  *views.Set
	nav    *navigator.Navigator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := events.NewBroker(logger, nil)
	v := views.NewSet(b, logger)
	n := navigator.New(b, v.Navigator(), logger, nil)
	t.Cleanup(n.Close)
	return &fixture{broker: b, views: v, nav: n}
}

// pathTo lists the navigations that reach s from a fresh navigator.
func pathTo(s screen.Screen) []screen.Screen {
	switch s {
	case screen.None:
		return nil
	case screen.Menu:
		return []screen.Screen{screen.Menu}
	}
	return []screen.Screen{screen.Menu, s}
}

func TestAllowedTable(t *testing.T) {
	allowed := map[[2]screen.Screen]bool{}
	for _, from := range []screen.Screen{screen.Shop, screen.DailyBonus, screen.WeeklyBonus, screen.Levels, screen.Settings, screen.None} {
		allowed[[2]screen.Screen{from, screen.Menu}] = true
	}
	allowed[[2]screen.Screen{screen.Menu, screen.Settings}] = true
	allowed[[2]screen.Screen{screen.Menu, screen.WeeklyBonus}] = true
	allowed[[2]screen.Screen{screen.DailyBonus, screen.WeeklyBonus}] = true
	allowed[[2]screen.Screen{screen.Menu, screen.DailyBonus}] = true
	allowed[[2]screen.Screen{screen.WeeklyBonus, screen.DailyBonus}] = true
	allowed[[2]screen.Screen{screen.Menu, screen.Levels}] = true
	allowed[[2]screen.Screen{screen.Menu, screen.Shop}] = true

	for _, from := range screen.All {
		for _, to := range screen.All {
			assert.Equal(t, allowed[[2]screen.Screen{from, to}], navigator.Allowed(from, to), "%s -> %s", from, to)
		}
	}
}

func TestNavigationGuard(t *testing.T) {
	for _, from := range screen.All {
		for _, to := range screen.All {
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				f := newFixture(t)
				for _, s := range pathTo(from) {
					f.nav.Navigate(s)
				}
				require.Equal(t, from, f.nav.Current())
				before := f.nav.History()

				f.nav.Navigate(to)

				if navigator.Allowed(from, to) {
					assert.Equal(t, to, f.nav.Current())
					assert.Equal(t, append(before, from), f.nav.History())
				} else {
					assert.Equal(t, from, f.nav.Current())
					assert.Equal(t, before, f.nav.History())
				}
			})
		}
	}
}

func TestBackCollapsesBonusRun(t *testing.T) {
	f := newFixture(t)
	f.nav.Start()
	f.nav.Navigate(screen.WeeklyBonus)
	f.nav.Navigate(screen.DailyBonus)
	require.Equal(t, screen.DailyBonus, f.nav.Current())

	f.nav.Back()

	assert.Equal(t, screen.Menu, f.nav.Current())
	assert.Equal(t, []screen.Screen{screen.None}, f.nav.History())
	assert.True(t, f.views.Menu.IsShown())
	assert.False(t, f.views.Bonus.IsShown())
}

func TestBackCollapsesLongBonusRun(t *testing.T) {
	f := newFixture(t)
	f.nav.Start()
	f.nav.Navigate(screen.DailyBonus)
	f.nav.Navigate(screen.WeeklyBonus)
	f.nav.Navigate(screen.DailyBonus)
	f.nav.Navigate(screen.WeeklyBonus)

	f.nav.Back()

	assert.Equal(t, screen.Menu, f.nav.Current())
	assert.Equal(t, []screen.Screen{screen.None}, f.nav.History())
}

func TestBackFromSingleScreen(t *testing.T) {
	for _, s := range []screen.Screen{screen.Settings, screen.WeeklyBonus, screen.DailyBonus, screen.Levels, screen.Shop} {
		t.Run(s.String(), func(t *testing.T) {
			f := newFixture(t)
			f.nav.Start()
			f.nav.Navigate(s)

			f.nav.Back()

			assert.Equal(t, screen.Menu, f.nav.Current())
			assert.Equal(t, []screen.Screen{screen.None}, f.nav.History())
			assert.True(t, f.views.Menu.IsShown())
		})
	}
}

func TestBackDiscardsNoneSentinel(t *testing.T) {
	f := newFixture(t)
	f.nav.Start()
	require.Equal(t, []screen.Screen{screen.None}, f.nav.History())

	f.nav.Back()
	assert.Equal(t, screen.Menu, f.nav.Current())
	assert.Empty(t, f.nav.History())

	f.nav.Back()
	assert.Equal(t, screen.Menu, f.nav.Current())
	assert.Empty(t, f.nav.History())
}

func TestScreenEffects(t *testing.T) {
	f := newFixture(t)
	f.nav.Start()
	assert.True(t, f.views.Menu.IsShown())

	f.nav.Navigate(screen.Settings)
	assert.True(t, f.views.Menu.IsShown(), "settings is shown over the menu")
	assert.True(t, f.views.Settings.IsShown())

	f.nav.Navigate(screen.Menu)
	assert.False(t, f.views.Settings.IsShown())

	f.nav.Navigate(screen.WeeklyBonus)
	assert.Equal(t, views.FaceWeek, f.views.Bonus.Face)
	f.nav.Navigate(screen.DailyBonus)
	assert.Equal(t, views.FaceDay, f.views.Bonus.Face)
	f.nav.Navigate(screen.Menu)
	assert.False(t, f.views.Bonus.IsShown())

	f.nav.Navigate(screen.Shop)
	assert.False(t, f.views.Menu.IsShown())
	assert.True(t, f.views.Shop.IsShown())
}

func TestViewShownPublished(t *testing.T) {
	f := newFixture(t)
	var shown, hidden []screen.Screen
	events.Subscribe(f.broker, func(e events.GameEvent) {
		switch e.Kind {
		case events.GameViewShown:
			shown = append(shown, e.Screen)
		case events.GameViewHidden:
			hidden = append(hidden, e.Screen)
		}
	})

	f.nav.Start()
	f.nav.Navigate(screen.Levels)
	f.nav.Navigate(screen.Shop)
	f.nav.Back()

	assert.Equal(t, []screen.Screen{screen.Menu, screen.Levels, screen.Menu}, shown)
	assert.Equal(t, []screen.Screen{screen.Menu, screen.Levels}, hidden)
}

func TestBonusFaceSwitchHidesPreviousFace(t *testing.T) {
	f := newFixture(t)
	var seen []string
	events.Subscribe(f.broker, func(e events.GameEvent) {
		switch e.Kind {
		case events.GameViewShown:
			seen = append(seen, "shown:"+e.Screen.String())
		case events.GameViewHidden:
			seen = append(seen, "hidden:"+e.Screen.String())
		}
	})

	f.nav.Start()
	f.nav.Navigate(screen.WeeklyBonus)
	f.nav.Navigate(screen.DailyBonus)
	f.nav.Navigate(screen.WeeklyBonus)

	assert.Equal(t, []string{
		"shown:menu",
		"shown:weekly_bonus",
		"hidden:weekly_bonus", "shown:daily_bonus",
		"hidden:daily_bonus", "shown:weekly_bonus",
	}, seen)
	assert.True(t, f.views.Bonus.IsShown())
	assert.Equal(t, views.FaceWeek, f.views.Bonus.Face)
}

func TestTransitionRequestedDuringTransitionIsDeferred(t *testing.T) {
	f := newFixture(t)
	var order []string
	events.Subscribe(f.broker, func(e events.GameEvent) {
		if e.Kind != events.GameViewShown {
			return
		}
		order = append(order, "shown:"+e.Screen.String())
		if e.Screen == screen.WeeklyBonus {
			f.broker.Publish(events.NavigationRequest{Target: screen.DailyBonus})
			order = append(order, "requested")
		}
	})

	f.nav.Start()
	f.nav.Navigate(screen.WeeklyBonus)

	assert.Equal(t, []string{"shown:menu", "shown:weekly_bonus", "requested", "shown:daily_bonus"}, order)
	assert.Equal(t, screen.DailyBonus, f.nav.Current())
	assert.Equal(t, []screen.Screen{screen.None, screen.Menu, screen.WeeklyBonus}, f.nav.History())
}

func TestNavigationRequestEvent(t *testing.T) {
	f := newFixture(t)
	f.nav.Start()

	f.broker.Publish(events.NavigationRequest{Target: screen.Shop})
	assert.Equal(t, screen.Shop, f.nav.Current())

	f.broker.Publish(events.NavigationRequest{Target: screen.Settings})
	assert.Equal(t, screen.Shop, f.nav.Current())
}

func TestInputDroppedWhileOverlayShown(t *testing.T) {
	f := newFixture(t)
	f.nav.Start()
	f.nav.Navigate(screen.Shop)

	var requested int
	events.Subscribe(f.broker, func(e events.ShopEvent) {
		if e.Kind == events.ShopPurchaseRequested {
			requested++
		}
	})
	f.views.Focus.SelectItem(catalog.Item{ID: "coins"})

	f.broker.Publish(events.UIEvent{Kind: events.UIShowOverlay})
	require.True(t, f.nav.Locked())
	f.broker.Publish(events.InputEvent{Kind: events.InputCancel})
	f.broker.Publish(events.InputEvent{Kind: events.InputConfirm})

	assert.Equal(t, screen.Shop, f.nav.Current())
	assert.Zero(t, requested)

	f.broker.Publish(events.UIEvent{Kind: events.UIHideOverlay})
	f.broker.Publish(events.InputEvent{Kind: events.InputConfirm})
	assert.Equal(t, 1, requested)

	f.broker.Publish(events.InputEvent{Kind: events.InputCancel})
	assert.Equal(t, screen.Menu, f.nav.Current())
}

func TestConfirmWithoutFocusIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.nav.Start()

	require.NotPanics(t, func() {
		f.broker.Publish(events.InputEvent{Kind: events.InputConfirm})
	})
	assert.Equal(t, screen.Menu, f.nav.Current())
}

func TestUIRouting(t *testing.T) {
	f := newFixture(t)
	f.nav.Start()

	p := progress.Default()
	p.Level = 3
	p.Music = false
	p.DailyBonus[2] = true

	f.broker.Publish(events.UIEvent{Kind: events.UIUpdateTickets, Tickets: 42})
	f.broker.Publish(events.UIEvent{Kind: events.UIUpdateLevels, Progress: *p})
	f.broker.Publish(events.UIEvent{Kind: events.UIUpdateSettings, Progress: *p})
	f.broker.Publish(events.UIEvent{Kind: events.UIUpdateWeeklyBonus, Progress: *p})
	f.broker.Publish(events.UIEvent{Kind: events.UIUpdateDailyBonus, Bonus: progress.DailyBonus{Day: 2, Amount: 20}})

	offers := []catalog.Offer{
		{Item: catalog.Item{ID: "a", Category: "Boosters"}},
		{Item: catalog.Item{ID: "b", Category: "Tickets"}},
	}
	f.broker.Publish(events.UIEvent{Kind: events.UIUpdateShop, Offers: offers})
	f.broker.Publish(events.UIEvent{Kind: events.UIUpdateShopItem, Offer: catalog.Offer{Item: offers[0].Item, Purchased: true}})

	assert.Equal(t, 42, f.views.Menu.Tickets)
	assert.Equal(t, 3, f.views.Levels.Level)
	assert.Equal(t, views.LevelCompleted, f.views.Levels.State(2))
	assert.Equal(t, views.LevelPlayable, f.views.Levels.State(3))
	assert.Equal(t, views.LevelLocked, f.views.Levels.State(4))
	assert.False(t, f.views.Settings.Music)
	assert.True(t, f.views.Settings.Sound)
	assert.False(t, f.views.Bonus.Claimable(2))
	assert.True(t, f.views.Bonus.Claimable(3))
	assert.Equal(t, progress.DailyBonus{Day: 2, Amount: 20}, f.views.Bonus.Day)
	assert.Equal(t, []string{"Boosters", "Tickets"}, f.views.Shop.Categories)

	got, ok := f.views.Shop.Offer("a")
	require.True(t, ok)
	assert.True(t, got.Purchased)

	f.broker.Publish(events.UIEvent{Kind: events.UIShowDailyBonus})
	assert.Equal(t, screen.DailyBonus, f.nav.Current())
}
