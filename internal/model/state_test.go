package model

import (
	"errors"
	"testing"
)

func TestStateNextPrevSaturate(t *testing.T) {
	cases := []struct {
		in   State
		next State
		prev State
	}{
		{StateNew, StateStarted, StateNew},
		{StateStarted, StateFinalising, StateNew},
		{StateFinalising, StateCompleted, StateStarted},
		{StateCompleted, StateCompleted, StateFinalising},
	}
	for _, tc := range cases {
		if got := tc.in.Next(); got != tc.next {
			t.Fatalf("%q.Next() = %q, want %q", tc.in, got, tc.next)
		}
		if got := tc.in.Prev(); got != tc.prev {
			t.Fatalf("%q.Prev() = %q, want %q", tc.in, got, tc.prev)
		}
	}
	if got := State("bogus").Next(); got != "bogus" {
		t.Fatalf("unknown state should map to itself, got %q", got)
	}
}

func TestImportanceNextPrevSaturate(t *testing.T) {
	if ImportanceCritical.Prev() != ImportanceCritical {
		t.Fatal("critical.Prev should saturate")
	}
	if ImportanceNegligible.Next() != ImportanceNegligible {
		t.Fatal("negligible.Next should saturate")
	}
	if ImportanceMedium.Next() != ImportanceLow || ImportanceMedium.Prev() != ImportanceHigh {
		t.Fatal("medium should step to low/high")
	}
}

func TestCompleteAndRenewJumpDirectly(t *testing.T) {
	task := NewTask("", "jump")
	Complete(&task)
	if task.State != StateCompleted || !task.IsCompleted() {
		t.Fatalf("expected completed, got %q", task.State)
	}
	Renew(&task)
	if task.State != StateNew {
		t.Fatalf("expected new, got %q", task.State)
	}
}

func TestTransitionApplyTo(t *testing.T) {
	task := NewTask("", "walk")
	steps := []struct {
		tr   Transition
		want State
	}{
		{TransitionNext, StateStarted},
		{TransitionNext, StateFinalising},
		{TransitionPrev, StateStarted},
		{TransitionComplete, StateCompleted},
		{TransitionNext, StateCompleted},
		{TransitionRenew, StateNew},
		{TransitionPrev, StateNew},
	}
	for i, step := range steps {
		if err := step.tr.ApplyTo(&task); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if task.State != step.want {
			t.Fatalf("step %d (%s): state = %q, want %q", i, step.tr, task.State, step.want)
		}
	}

	if err := Transition("sideways").ApplyTo(&task); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestParseInputs(t *testing.T) {
	imp, err := ParseImportance(" C ")
	if err != nil || imp != ImportanceCritical {
		t.Fatalf("ParseImportance(C) = %q, %v", imp, err)
	}
	imp, err = ParseImportance("Negligible")
	if err != nil || imp != ImportanceNegligible {
		t.Fatalf("ParseImportance(Negligible) = %q, %v", imp, err)
	}
	if _, err := ParseImportance("urgent"); !errors.Is(err, ErrInvalidImportance) {
		t.Fatalf("expected ErrInvalidImportance, got %v", err)
	}
	if _, err := ParseImportance(""); !errors.Is(err, ErrInvalidImportance) {
		t.Fatalf("expected ErrInvalidImportance for blank, got %v", err)
	}

	st, err := ParseState("FINALISING")
	if err != nil || st != StateFinalising {
		t.Fatalf("ParseState = %q, %v", st, err)
	}
	if _, err := ParseState("done"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	tr, err := ParseTransition("+")
	if err != nil || tr != TransitionNext {
		t.Fatalf("ParseTransition(+) = %q, %v", tr, err)
	}
	tr, err = ParseTransition("done")
	if err != nil || tr != TransitionComplete {
		t.Fatalf("ParseTransition(done) = %q, %v", tr, err)
	}

	title, err := NormalizeTitle("  pay rent ")
	if err != nil || title != "pay rent" {
		t.Fatalf("NormalizeTitle = %q, %v", title, err)
	}
	if _, err := NormalizeTitle("\t "); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
