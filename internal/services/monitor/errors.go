package monitorsvc

import "fmt"

// FilterError reports an expression that failed to compile. Transports map it
// to a client error.
type FilterError struct {
	Expr   string
	Reason string
	Err    error
}

func (e *FilterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid filter %q: %v", e.Expr, e.Err)
	}
	return fmt.Sprintf("invalid filter %q: %s", e.Expr, e.Reason)
}

func (e *FilterError) Unwrap() error { return e.Err }
