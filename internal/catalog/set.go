package catalog

// Set holds items keyed by ID. Adding an item whose ID is already present
// is a no-op. Iteration follows insertion order.
type Set struct {
	items []Item
	index map[string]int
}

func NewSet(items ...Item) *Set {
	s := &Set{index: make(map[string]int, len(items))}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts it unless an item with the same ID exists. It reports
// whether the set changed.
func (s *Set) Add(it Item) bool {
	if _, ok := s.index[it.ID]; ok {
		return false
	}
	s.index[it.ID] = len(s.items)
	s.items = append(s.items, it)
	return true
}

func (s *Set) Get(id string) (Item, bool) {
	i, ok := s.index[id]
	if !ok {
		return Item{}, false
	}
	return s.items[i], true
}

func (s *Set) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Set) Len() int { return len(s.items) }

// Items returns the items in insertion order.
func (s *Set) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Categories groups items by category in first-seen order. Items without
// a category are left out, as the shop cannot place them.
func (s *Set) Categories() []Category {
	var cats []Category
	pos := make(map[string]int)
	for _, it := range s.items {
		if it.Category == "" {
			continue
		}
		i, ok := pos[it.Category]
		if !ok {
			i = len(cats)
			pos[it.Category] = i
			cats = append(cats, Category{Name: it.Category})
		}
		cats[i].Items = append(cats[i].Items, it)
	}
	return cats
}

// Category is a named group of shop items.
type Category struct {
	Name  string
	Items []Item
}
