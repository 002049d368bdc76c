package reconcile

// List holds what a front-end currently shows for one ordered collection: the
// rows and the selected key. Every refresh goes through Reconcile.
type List[K comparable, E any] struct {
	keyOf    func(E) K
	render   func(E) string
	entries  []Entry[K]
	selected K
}

func NewList[K comparable, E any](keyOf func(E) K, render func(E) string) *List[K, E] {
	return &List[K, E]{keyOf: keyOf, render: render}
}

// Sync reconciles the list against entities, applies the resulting plan and
// returns it so the caller can mirror it onto its widgets.
func (l *List[K, E]) Sync(entities []E) (Result[K], error) {
	res, err := Reconcile(l.entries, entities, l.keyOf, l.render, l.selected)
	if err != nil {
		return Result[K]{}, err
	}
	l.entries = Apply(l.entries, res.Plan)
	l.selected = res.Selected
	return res, nil
}

// Select moves the selection to key if it is displayed.
func (l *List[K, E]) Select(key K) bool {
	for _, e := range l.entries {
		if e.Key == key {
			l.selected = key
			return true
		}
	}
	return false
}

// SelectIndex moves the selection to the row at i if it exists.
func (l *List[K, E]) SelectIndex(i int) bool {
	if i < 0 || i >= len(l.entries) {
		return false
	}
	l.selected = l.entries[i].Key
	return true
}

func (l *List[K, E]) Selected() K {
	return l.selected
}

// SelectedIndex is the row index of the selection, or -1.
func (l *List[K, E]) SelectedIndex() int {
	var zero K
	if l.selected == zero {
		return -1
	}
	for i, e := range l.entries {
		if e.Key == l.selected {
			return i
		}
	}
	return -1
}

// Entries returns a copy of the displayed rows.
func (l *List[K, E]) Entries() []Entry[K] {
	return append([]Entry[K](nil), l.entries...)
}

func (l *List[K, E]) Len() int {
	return len(l.entries)
}
