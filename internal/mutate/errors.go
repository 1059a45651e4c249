package mutate

import "fmt"

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ConstraintError reports a structural or schema violation the executor
// refused to apply (cycle, incompatible child type, bad index).
type ConstraintError struct {
	Msg string
}

func (e ConstraintError) Error() string { return e.Msg }

func constraintf(format string, args ...any) error {
	return ConstraintError{Msg: fmt.Sprintf(format, args...)}
}
