package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add        func(AddArgs) (Result, error)
	Sub        func(SubArgs) (Result, error)
	Edit       func(EditArgs) (Result, error)
	Importance func(ImportanceArgs) (Result, error)
	Transition func(TransitionArgs) (Result, error)
	Remove     func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeSub:
		if handlers.Sub == nil {
			return Result{}, missing("sub")
		}
		return handlers.Sub(*cmd.Sub)
	case TypeEdit:
		if handlers.Edit == nil {
			return Result{}, missing("edit")
		}
		return handlers.Edit(*cmd.Edit)
	case TypeImportance:
		if handlers.Importance == nil {
			return Result{}, missing("imp")
		}
		return handlers.Importance(*cmd.Importance)
	case TypeNext, TypePrev, TypeDone, TypeRenew:
		if handlers.Transition == nil {
			return Result{}, missing("transition")
		}
		return handlers.Transition(*cmd.Transition)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, missing("rm")
		}
		return handlers.Remove()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}
