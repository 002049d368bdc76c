package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeAdd        Type = "add"
	TypeSub        Type = "sub"
	TypeEdit       Type = "edit"
	TypeImportance Type = "imp"
	TypeNext       Type = "next"
	TypePrev       Type = "prev"
	TypeDone       Type = "done"
	TypeRenew      Type = "renew"
	TypeRemove     Type = "rm"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs holds a new task. Importance is the raw text after "!", empty when
// none was given.
type AddArgs struct {
	Title      string
	Importance string
}

type SubArgs struct {
	Title string
}

type EditArgs struct {
	Title string
}

// ImportanceArgs either names an importance or steps it: Step is +1 toward
// critical for "+", -1 toward negligible for "-", and 0 when Value is set.
type ImportanceArgs struct {
	Value string
	Step  int
}

// TransitionArgs carries the transition name: next, prev, complete or renew.
type TransitionArgs struct {
	Transition string
}

type Command struct {
	Type       Type
	Raw        string
	Add        *AddArgs
	Sub        *SubArgs
	Edit       *EditArgs
	Importance *ImportanceArgs
	Transition *TransitionArgs
}

var transitionNames = map[Type]string{
	TypeNext:  "next",
	TypePrev:  "prev",
	TypeDone:  "complete",
	TypeRenew: "renew",
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := Type(strings.ToLower(parts[0]))
	args := parts[1:]

	switch head {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeSub:
		title, err := requireTitle(head, args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeSub, Raw: input, Sub: &SubArgs{Title: title}}, nil
	case TypeEdit:
		title, err := requireTitle(head, args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeEdit, Raw: input, Edit: &EditArgs{Title: title}}, nil
	case TypeImportance:
		return parseImportance(input, args)
	case TypeNext, TypePrev, TypeDone, TypeRenew:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no arguments", head)}
		}
		return Command{Type: head, Raw: input, Transition: &TransitionArgs{Transition: transitionNames[head]}}, nil
	case TypeRemove:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "rm takes no arguments"}
		}
		return Command{Type: TypeRemove, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	importance := ""
	if n := len(args); n > 0 && strings.HasPrefix(args[n-1], "!") {
		importance = strings.TrimPrefix(args[n-1], "!")
		if importance == "" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "importance after ! is empty"}
		}
		args = args[:n-1]
	}
	title, err := requireTitle(TypeAdd, args)
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title, Importance: importance}}, nil
}

func parseImportance(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "imp requires one importance, + or -"}
	}
	switch args[0] {
	case "+":
		return Command{Type: TypeImportance, Raw: raw, Importance: &ImportanceArgs{Step: 1}}, nil
	case "-":
		return Command{Type: TypeImportance, Raw: raw, Importance: &ImportanceArgs{Step: -1}}, nil
	}
	return Command{Type: TypeImportance, Raw: raw, Importance: &ImportanceArgs{Value: strings.ToLower(args[0])}}, nil
}

func requireTitle(head Type, args []string) (string, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return "", &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a title", head)}
	}
	return title, nil
}
