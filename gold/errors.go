package gold

import "errors"

var (
	ErrNoAnnotator      = errors.New("two annotators must be selected")
	ErrUnknownAnnotator = errors.New("annotator not found in document")
	ErrSameAnnotator    = errors.New("annotators A and B must be different")
	ErrInvalidOptions   = errors.New("invalid gold option")
)

// SelectionError reports which input of Generate violates a precondition.
type SelectionError struct {
	// Field is "a", "b", "a,b" or an option name
	Field string
	Err   error
}

func (e *SelectionError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}

// IsSelection reports whether err is a user input error of Generate.
func IsSelection(err error) bool {
	var se *SelectionError
	return errors.As(err, &se)
}
