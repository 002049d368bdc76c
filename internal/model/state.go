package model

import "fmt"

var (
	nextState = map[State]State{
		StateNew:        StateStarted,
		StateStarted:    StateFinalising,
		StateFinalising: StateCompleted,
		StateCompleted:  StateCompleted,
	}
	prevState = map[State]State{
		StateNew:        StateNew,
		StateStarted:    StateNew,
		StateFinalising: StateStarted,
		StateCompleted:  StateFinalising,
	}
	nextImportance = map[Importance]Importance{
		ImportanceCritical:   ImportanceHigh,
		ImportanceHigh:       ImportanceMedium,
		ImportanceMedium:     ImportanceLow,
		ImportanceLow:        ImportanceNegligible,
		ImportanceNegligible: ImportanceNegligible,
	}
	prevImportance = map[Importance]Importance{
		ImportanceCritical:   ImportanceCritical,
		ImportanceHigh:       ImportanceCritical,
		ImportanceMedium:     ImportanceHigh,
		ImportanceLow:        ImportanceMedium,
		ImportanceNegligible: ImportanceLow,
	}
)

// Next returns the successor of s, saturating at StateCompleted.
// Values outside the enumeration are returned unchanged.
func (s State) Next() State {
	if n, ok := nextState[s]; ok {
		return n
	}
	return s
}

// Prev returns the predecessor of s, saturating at StateNew.
func (s State) Prev() State {
	if p, ok := prevState[s]; ok {
		return p
	}
	return s
}

// Next moves one step toward ImportanceNegligible.
func (i Importance) Next() Importance {
	if n, ok := nextImportance[i]; ok {
		return n
	}
	return i
}

// Prev moves one step toward ImportanceCritical.
func (i Importance) Prev() Importance {
	if p, ok := prevImportance[i]; ok {
		return p
	}
	return i
}

// Complete marks t completed regardless of its current state.
func Complete(t *Task) {
	t.State = StateCompleted
}

// Renew puts t back to new regardless of its current state.
func Renew(t *Task) {
	t.State = StateNew
}

type Transition string

const (
	TransitionNext     Transition = "next"
	TransitionPrev     Transition = "prev"
	TransitionComplete Transition = "complete"
	TransitionRenew    Transition = "renew"
)

func (tr Transition) IsValid() bool {
	switch tr {
	case TransitionNext, TransitionPrev, TransitionComplete, TransitionRenew:
		return true
	default:
		return false
	}
}

// Apply returns the state reached from s by tr.
func (tr Transition) Apply(s State) (State, error) {
	switch tr {
	case TransitionNext:
		return s.Next(), nil
	case TransitionPrev:
		return s.Prev(), nil
	case TransitionComplete:
		return StateCompleted, nil
	case TransitionRenew:
		return StateNew, nil
	default:
		return s, fmt.Errorf("%w: unknown transition %q", ErrInvalidArgument, tr)
	}
}

// ApplyTo mutates t in place. Callers re-sort the owning collection afterwards
// because placement depends on IsCompleted.
func (tr Transition) ApplyTo(t *Task) error {
	next, err := tr.Apply(t.State)
	if err != nil {
		return err
	}
	t.State = next
	return nil
}
