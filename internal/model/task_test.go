package model

import (
	"errors"
	"testing"
)

func TestMainTaskValidateSuccess(t *testing.T) {
	task := NewMainTask("Implement model validation", ImportanceHigh)
	task.Subtasks = append(task.Subtasks, NewTask(task.ID, "write tests"))
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
	if task.State != StateNew {
		t.Fatalf("expected new task state %q, got %q", StateNew, task.State)
	}
	if task.ID == "" || task.Subtasks[0].ID == task.ID {
		t.Fatalf("expected distinct generated ids, got %q and %q", task.ID, task.Subtasks[0].ID)
	}
}

func TestTaskValidateBlankTitle(t *testing.T) {
	task := NewTask("parent-1", "   ")
	err := task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got: %v", err)
	}
	if err.Error() != "model: invalid argument: title is required" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTaskValidateBlankID(t *testing.T) {
	task := Task{ID: " ", Title: "x", State: StateNew}
	if err := task.Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got: %v", err)
	}
}

func TestMainTaskValidateInvalidEnums(t *testing.T) {
	task := NewMainTask("Bad state", ImportanceLow)
	task.State = State("Invalid")
	err := task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got: %v", err)
	}

	task.State = StateStarted
	task.Importance = Importance("Bad")
	err = task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidImportance) {
		t.Fatalf("expected ErrInvalidImportance, got: %v", err)
	}
}

func TestMainTaskValidateForeignSubtask(t *testing.T) {
	task := NewMainTask("Owner", ImportanceMedium)
	task.Subtasks = []Task{NewTask("someone-else", "stray")}
	if err := task.Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for foreign subtask, got: %v", err)
	}
}

func TestMainTaskCloneDoesNotShareSubtasks(t *testing.T) {
	task := NewMainTask("Owner", ImportanceMedium)
	task.Subtasks = []Task{NewTask(task.ID, "a")}
	clone := task.Clone()
	clone.Subtasks[0].Title = "changed"
	if task.Subtasks[0].Title != "a" {
		t.Fatalf("clone mutated original subtask: %q", task.Subtasks[0].Title)
	}
	if task.SubtaskIndex(task.Subtasks[0].ID) != 0 || task.SubtaskIndex("missing") != -1 {
		t.Fatal("unexpected SubtaskIndex result")
	}
}

func TestImportanceRank(t *testing.T) {
	for want, imp := range Importances {
		if got := imp.Rank(); got != want {
			t.Fatalf("rank of %q = %d, want %d", imp, got, want)
		}
	}
	if Importance("urgent").Rank() != -1 {
		t.Fatal("expected -1 rank for unknown importance")
	}
}
