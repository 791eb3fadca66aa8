package statement

import "fmt"

// ContractError is the panic value raised when a caller violates a
// precondition of a statement operation. It is a programming error, not a
// recoverable condition: operations check every precondition before
// touching any state, so the statements involved are unchanged.
type ContractError struct {
	Op        string
	Violation string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("statement: %s: violation of: %s", e.Op, e.Violation)
}

func require(ok bool, op, violation string) {
	if !ok {
		panic(&ContractError{Op: op, Violation: violation})
	}
}
