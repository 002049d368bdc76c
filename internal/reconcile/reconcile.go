// Package reconcile keeps a displayed ordered list in step with an
// authoritative ordered collection.
//
// A structural change (insert, remove, reorder) rebuilds the list; a text-only
// change relabels rows in place. The selected key survives both whenever the
// entity it names still exists.
package reconcile

import (
	"errors"
	"fmt"
)

var ErrDuplicateKey = errors.New("reconcile: duplicate key")

type PlanKind int

const (
	RelabelInPlace PlanKind = iota
	Rebuild
)

func (k PlanKind) String() string {
	switch k {
	case Rebuild:
		return "rebuild"
	case RelabelInPlace:
		return "relabel"
	default:
		return fmt.Sprintf("PlanKind(%d)", int(k))
	}
}

// Entry is one displayed row.
type Entry[K comparable] struct {
	Key  K
	Text string
}

// Relabel replaces the text of the row at Index.
type Relabel[K comparable] struct {
	Index int
	Key   K
	Text  string
}

type Plan[K comparable] struct {
	Kind PlanKind
	// Items is the full list to display, set only for Rebuild.
	Items []Entry[K]
	// Relabels is set only for RelabelInPlace.
	Relabels []Relabel[K]
}

// IsNoop reports whether executing the plan would change nothing.
func (p Plan[K]) IsNoop() bool {
	return p.Kind == RelabelInPlace && len(p.Relabels) == 0
}

type Result[K comparable] struct {
	Plan Plan[K]
	// Selected is the key to select after the plan runs. The zero value of K
	// means nothing is selected.
	Selected K
	// Keys is the desired key order.
	Keys []K
}

// SelectedIndex is the row index of Selected, or -1.
func (r Result[K]) SelectedIndex() int {
	var zero K
	if r.Selected == zero {
		return -1
	}
	for i, k := range r.Keys {
		if k == r.Selected {
			return i
		}
	}
	return -1
}

// Reconcile computes how to turn displayed into the rendering of entities and
// which key to select afterwards. It has no side effects.
func Reconcile[K comparable, E any](displayed []Entry[K], entities []E, keyOf func(E) K, render func(E) string, selected K) (Result[K], error) {
	keys := make([]K, 0, len(entities))
	seen := make(map[K]struct{}, len(entities))
	for _, e := range entities {
		k := keyOf(e)
		if _, dup := seen[k]; dup {
			return Result[K]{}, fmt.Errorf("%w: %v", ErrDuplicateKey, k)
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	res := Result[K]{Keys: keys, Selected: restoreSelection(keys, seen, selected)}

	if !sameKeys(displayed, keys) {
		items := make([]Entry[K], 0, len(entities))
		for i, e := range entities {
			items = append(items, Entry[K]{Key: keys[i], Text: render(e)})
		}
		res.Plan = Plan[K]{Kind: Rebuild, Items: items}
		return res, nil
	}

	var relabels []Relabel[K]
	for i, e := range entities {
		text := render(e)
		if displayed[i].Text != text {
			relabels = append(relabels, Relabel[K]{Index: i, Key: keys[i], Text: text})
		}
	}
	res.Plan = Plan[K]{Kind: RelabelInPlace, Relabels: relabels}
	return res, nil
}

// Apply returns the displayed list after executing plan. displayed is not
// modified.
func Apply[K comparable](displayed []Entry[K], plan Plan[K]) []Entry[K] {
	if plan.Kind == Rebuild {
		return append([]Entry[K](nil), plan.Items...)
	}
	out := append([]Entry[K](nil), displayed...)
	for _, r := range plan.Relabels {
		if r.Index >= 0 && r.Index < len(out) {
			out[r.Index].Text = r.Text
		}
	}
	return out
}

func sameKeys[K comparable](displayed []Entry[K], keys []K) bool {
	if len(displayed) != len(keys) {
		return false
	}
	for i := range keys {
		if displayed[i].Key != keys[i] {
			return false
		}
	}
	return true
}

func restoreSelection[K comparable](keys []K, present map[K]struct{}, selected K) K {
	var zero K
	if selected != zero {
		if _, ok := present[selected]; ok {
			return selected
		}
	}
	if len(keys) > 0 {
		return keys[0]
	}
	return zero
}
