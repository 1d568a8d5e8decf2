package views

import (
	"log/slog"

	"github.com/playperu/ticketarcade/internal/catalog"
	"github.com/playperu/ticketarcade/internal/events"
)

// Focus holds the control that a confirm press activates.
type Focus struct {
	pub    events.Publisher
	logger *slog.Logger
	label  string
	submit events.Event
}

// SelectButton focuses a button.
func (f *Focus) SelectButton(e events.ButtonEvent) {
	f.label = e.Kind.String()
	f.submit = e
}

// SelectItem focuses the purchase button of a shop item.
func (f *Focus) SelectItem(it catalog.Item) {
	f.label = "purchase:" + it.ID
	f.submit = events.ShopEvent{Kind: events.ShopPurchaseRequested, Item: it}
}

func (f *Focus) Selected() string { return f.label }

// SubmitSelected publishes the focused control's event. Nothing happens
// when no control has focus.
func (f *Focus) SubmitSelected() {
	if f.submit == nil {
		f.logger.Debug("submit without focus")
		return
	}
	f.logger.Debug("submitting focused control", "control", f.label)
	f.pub.Publish(f.submit)
}

// Audio stands in for the audio player. It follows the audio settings and
// counts the click sounds it would have played.
type Audio struct {
	Music  bool
	Sound  bool
	Clicks int

	logger *slog.Logger
	subs   []events.Subscription
}

func (a *Audio) Attach(b *events.Broker) {
	a.subs = append(a.subs, events.Subscribe(b, a.handle))
}

func (a *Audio) Detach(b *events.Broker) {
	b.UnsubscribeAll(a.subs)
	a.subs = nil
}

func (a *Audio) Playing() bool { return a.Music }

func (a *Audio) handle(e events.AudioEvent) {
	switch e.Kind {
	case events.AudioSettingsChanged:
		a.Music = e.Music
		a.Sound = e.Sound
		a.logger.Debug("audio settings applied", "music", a.Music, "sound", a.Sound)
	case events.AudioPlayClick:
		if a.Sound {
			a.Clicks++
		}
	}
}
