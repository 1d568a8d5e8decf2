package progress

import (
	"maps"
	"slices"
)

// Record is the transport form of Progress written to the save slot.
type Record struct {
	Tickets        int          `json:"tickets"`
	DailyBonusData map[int]bool `json:"dailyBonusData"`
	DoPlayMusic    bool         `json:"doPlayMusic"`
	DoPlaySound    bool         `json:"doPlaySound"`
	Level          int          `json:"level"`
	PurchasedItems []string     `json:"purchasedItems"`
}

// ToRecord converts p to its transport form. Purchased ids are sorted so
// that equal progress always encodes to equal bytes.
func (p *Progress) ToRecord() Record {
	r := Record{
		Tickets:        p.Tickets,
		DailyBonusData: make(map[int]bool, len(p.DailyBonus)),
		DoPlayMusic:    p.Music,
		DoPlaySound:    p.Sound,
		Level:          p.Level,
		PurchasedItems: slices.Sorted(maps.Keys(p.Purchased)),
	}
	maps.Copy(r.DailyBonusData, p.DailyBonus)
	if r.PurchasedItems == nil {
		r.PurchasedItems = []string{}
	}
	return r
}

// FromRecord rebuilds Progress from a transport record. Missing
// collections become empty ones and duplicate purchase ids collapse.
func FromRecord(r Record) *Progress {
	p := &Progress{
		Tickets:    r.Tickets,
		Level:      r.Level,
		Music:      r.DoPlayMusic,
		Sound:      r.DoPlaySound,
		DailyBonus: make(map[int]bool, len(r.DailyBonusData)),
		Purchased:  make(map[string]struct{}, len(r.PurchasedItems)),
	}
	maps.Copy(p.DailyBonus, r.DailyBonusData)
	for _, id := range r.PurchasedItems {
		p.Purchased[id] = struct{}{}
	}
	return p
}
