package model

import (
	"fmt"
	"strings"
)

// ParseImportance accepts a full importance name or its first letter,
// case-insensitively.
func ParseImportance(raw string) (Importance, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return "", fmt.Errorf("%w: importance is required", ErrInvalidImportance)
	}
	for _, imp := range Importances {
		if v == string(imp) || v == string(imp)[:1] {
			return imp, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidImportance, raw)
}

func ParseState(raw string) (State, error) {
	v := State(strings.ToLower(strings.TrimSpace(raw)))
	if !v.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidState, raw)
	}
	return v, nil
}

func ParseTransition(raw string) (Transition, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "+", "progress":
		return TransitionNext, nil
	case "-", "regress":
		return TransitionPrev, nil
	case "done", "c":
		return TransitionComplete, nil
	case "n":
		return TransitionRenew, nil
	}
	tr := Transition(v)
	if !tr.IsValid() {
		return "", fmt.Errorf("%w: unknown transition %q", ErrInvalidArgument, raw)
	}
	return tr, nil
}

// NormalizeTitle trims raw and rejects blank titles.
func NormalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	return title, nil
}
