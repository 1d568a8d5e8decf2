package progress

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger(t *testing.T, p *Progress) *Ledger {
	t.Helper()
	l, err := NewLedger(p, slog.Default())
	require.NoError(t, err)
	return l
}

func TestNewLedgerRejectsNil(t *testing.T) {
	_, err := NewLedger(nil, slog.Default())
	require.ErrorIs(t, err, ErrNilProgress)
}

func TestRecordRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		p    *Progress
	}{
		{name: "defaults", p: Default()},
		{
			name: "populated",
			p: &Progress{
				Tickets:    42,
				Level:      7,
				Music:      false,
				Sound:      true,
				DailyBonus: map[int]bool{1: true, 3: true},
				Purchased:  map[string]struct{}{"no_ads": {}, "skin_gold": {}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromRecord(tt.p.ToRecord())
			assert.Equal(t, tt.p.Clone(), got.Clone())
			assert.NotNil(t, got.DailyBonus)
			assert.NotNil(t, got.Purchased)
		})
	}
}

func TestSaveLoadThroughSlot(t *testing.T) {
	ctx := context.Background()
	slots := MemorySlots{}

	p := Default()
	p.Tickets = 15
	p.Level = 3
	p.DailyBonus[2] = true
	p.Purchased["no_ads"] = struct{}{}

	require.NoError(t, Save(ctx, slots, DefaultSlot, p))

	got, err := Load(ctx, slots, DefaultSlot)
	require.NoError(t, err)
	assert.Equal(t, p.Clone(), got.Clone())
}

func TestLoadAbsentSlotGivesDefaults(t *testing.T) {
	for _, data := range [][]byte{nil, []byte(""), []byte("   \n")} {
		slots := MemorySlots{DefaultSlot: data}
		got, err := Load(context.Background(), slots, DefaultSlot)
		require.NoError(t, err)
		assert.Equal(t, Default().Clone(), got.Clone())
	}
}

func TestLoadGarbageIsCorrupt(t *testing.T) {
	slots := MemorySlots{DefaultSlot: []byte("{not json")}
	_, err := Load(context.Background(), slots, DefaultSlot)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptSlot))
}

func TestLedgerSpendRefusesOverdraft(t *testing.T) {
	l := newLedger(t, &Progress{Tickets: 5, Level: 1})

	assert.False(t, l.SpendTickets(10))
	assert.Equal(t, 5, l.Tickets())

	assert.True(t, l.SpendTickets(5))
	assert.Equal(t, 0, l.Tickets())
}

func TestLedgerLevelIsMonotonic(t *testing.T) {
	l := newLedger(t, Default())
	l.SetLevel(4)
	l.SetLevel(2)
	assert.Equal(t, 4, l.Level())
}

func TestLedgerAddPurchaseIdempotent(t *testing.T) {
	l := newLedger(t, Default())
	assert.True(t, l.AddPurchase("no_ads"))
	assert.False(t, l.AddPurchase("no_ads"))
	assert.Equal(t, []string{"no_ads"}, l.Progress().PurchasedIDs())
}

func TestLedgerClaimDailyBonusOnce(t *testing.T) {
	l := newLedger(t, Default())

	_, ok := l.LastBonus()
	assert.False(t, ok)

	assert.True(t, l.ClaimDailyBonus(DailyBonus{Day: 2, Amount: 10}))
	assert.False(t, l.ClaimDailyBonus(DailyBonus{Day: 2, Amount: 10}))
	assert.Equal(t, 10, l.Tickets())

	last, ok := l.LastBonus()
	require.True(t, ok)
	assert.Equal(t, DailyBonus{Day: 2, Amount: 10}, last)
	assert.Equal(t, 1, l.Progress().ClaimedDays())
}

func TestLedgerToggles(t *testing.T) {
	l := newLedger(t, Default())
	assert.False(t, l.ToggleMusic())
	assert.True(t, l.ToggleMusic())
	assert.False(t, l.ToggleSound())
}

func TestSnapshotIsDetached(t *testing.T) {
	l := newLedger(t, Default())
	snap := l.Snapshot()
	snap.Purchased["x"] = struct{}{}
	assert.False(t, l.IsPurchased("x"))
}
