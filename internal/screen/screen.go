// Package screen enumerates the navigable screens of the client.
package screen

type Screen uint8

const (
	None Screen = iota
	Menu
	Settings
	WeeklyBonus
	DailyBonus
	Levels
	Shop
)

// All lists every screen, None included.
var All = []Screen{None, Menu, Settings, WeeklyBonus, DailyBonus, Levels, Shop}

var names = [...]string{
	None:        "none",
	Menu:        "menu",
	Settings:    "settings",
	WeeklyBonus: "weekly_bonus",
	DailyBonus:  "daily_bonus",
	Levels:      "levels",
	Shop:        "shop",
}

func (s Screen) String() string {
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

func (s Screen) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Parse maps a screen name back to its value.
func Parse(name string) (Screen, bool) {
	for i, n := range names {
		if n == name {
			return Screen(i), true
		}
	}
	return None, false
}

// IsBonus reports whether s is one of the two faces of the bonus screen.
func (s Screen) IsBonus() bool {
	return s == WeeklyBonus || s == DailyBonus
}
