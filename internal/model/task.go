package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrInvalidArgument   = errors.New("model: invalid argument")
	ErrInvalidState      = errors.New("model: invalid task state")
	ErrInvalidImportance = errors.New("model: invalid task importance")
)

type State string

const (
	StateNew        State = "new"
	StateStarted    State = "started"
	StateFinalising State = "finalising"
	StateCompleted  State = "completed"
)

// States lists every state in lifecycle order.
var States = []State{StateNew, StateStarted, StateFinalising, StateCompleted}

func (s State) IsValid() bool {
	switch s {
	case StateNew, StateStarted, StateFinalising, StateCompleted:
		return true
	default:
		return false
	}
}

func (s State) IsCompleted() bool {
	return s == StateCompleted
}

type Importance string

const (
	ImportanceCritical   Importance = "critical"
	ImportanceHigh       Importance = "high"
	ImportanceMedium     Importance = "medium"
	ImportanceLow        Importance = "low"
	ImportanceNegligible Importance = "negligible"
)

// Importances lists every importance from most to least severe.
var Importances = []Importance{
	ImportanceCritical,
	ImportanceHigh,
	ImportanceMedium,
	ImportanceLow,
	ImportanceNegligible,
}

func (i Importance) IsValid() bool {
	switch i {
	case ImportanceCritical, ImportanceHigh, ImportanceMedium, ImportanceLow, ImportanceNegligible:
		return true
	default:
		return false
	}
}

// Rank is the position of i in Importances, or -1 when i is not a member.
func (i Importance) Rank() int {
	for idx, v := range Importances {
		if v == i {
			return idx
		}
	}
	return -1
}

// Task is a unit of work. A top-level task has an empty ParentID; a subtask
// carries the ID of the MainTask that owns it.
type Task struct {
	ID       string `validate:"required,notblank"`
	ParentID string
	Title    string `validate:"required,notblank"`
	State    State  `validate:"required"`
}

type MainTask struct {
	Task
	Importance Importance
	Subtasks   []Task
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// NewTask returns a subtask of parentID in the New state with a fresh ID.
func NewTask(parentID, title string) Task {
	return Task{
		ID:       uuid.NewString(),
		ParentID: parentID,
		Title:    title,
		State:    StateNew,
	}
}

func NewMainTask(title string, importance Importance) MainTask {
	return MainTask{
		Task:       NewTask("", title),
		Importance: importance,
	}
}

func (t Task) IsCompleted() bool {
	return t.State.IsCompleted()
}

func (t Task) IsSubtask() bool {
	return t.ParentID != ""
}

func (t Task) Validate() error {
	if err := validate.Struct(t); err != nil {
		return validationError(err)
	}
	if !t.State.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidState, t.State)
	}
	return nil
}

func (t MainTask) Validate() error {
	if err := t.Task.Validate(); err != nil {
		return err
	}
	if t.ParentID != "" {
		return fmt.Errorf("%w: main task %s has parent %s", ErrInvalidArgument, t.ID, t.ParentID)
	}
	if !t.Importance.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidImportance, t.Importance)
	}
	for _, sub := range t.Subtasks {
		if err := sub.Validate(); err != nil {
			return fmt.Errorf("subtask %s: %w", sub.ID, err)
		}
		if sub.ParentID != t.ID {
			return fmt.Errorf("%w: subtask %s belongs to %q, not %s", ErrInvalidArgument, sub.ID, sub.ParentID, t.ID)
		}
	}
	return nil
}

// Clone returns a copy of t that shares no subtask storage with it.
func (t MainTask) Clone() MainTask {
	out := t
	if t.Subtasks != nil {
		out.Subtasks = append([]Task(nil), t.Subtasks...)
	}
	return out
}

// SubtaskIndex returns the position of the subtask with the given id, or -1.
func (t MainTask) SubtaskIndex(id string) int {
	for i, sub := range t.Subtasks {
		if sub.ID == id {
			return i
		}
	}
	return -1
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field())+" is required")
	}
	return fmt.Errorf("%w: %s", ErrInvalidArgument, strings.Join(fields, ", "))
}
