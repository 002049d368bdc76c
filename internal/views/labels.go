package views

import (
	"fmt"

	"github.com/sandeepkv93/tbetodo/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

var stateMarkers = map[model.State]string{
	model.StateNew:        "[ ]",
	model.StateStarted:    "[-]",
	model.StateFinalising: "[+]",
	model.StateCompleted:  "[x]",
}

// StateMarker is the checkbox shown in front of a title.
func StateMarker(s model.State) string {
	if m, ok := stateMarkers[s]; ok {
		return m
	}
	return "[?]"
}

// StateName returns s for display, e.g. "Finalising".
func StateName(s model.State) string {
	return titleCaser.String(string(s))
}

func ImportanceName(i model.Importance) string {
	return titleCaser.String(string(i))
}

// ImportanceInitial is the single upper-case letter used in list labels.
func ImportanceInitial(i model.Importance) string {
	name := ImportanceName(i)
	if name == "" {
		return "?"
	}
	return name[:1]
}

// TaskLabel renders a main task row, e.g. "[-] Write report (H)".
func TaskLabel(t model.MainTask) string {
	return fmt.Sprintf("%s %s (%s)", StateMarker(t.State), t.Title, ImportanceInitial(t.Importance))
}

// SubtaskLabel renders a subtask row, e.g. "[x] Outline".
func SubtaskLabel(t model.Task) string {
	return StateMarker(t.State) + " " + t.Title
}

func TaskKey(t model.MainTask) string { return t.ID }
func SubtaskKey(t model.Task) string  { return t.ID }
