// pkg/contract/contract.go
package contract

import (
	"github.com/pkg/errors"
)

// ErrViolation marks a broken precondition or postcondition. It is never
// recovered locally: whoever receives it aborts the whole operation.
var ErrViolation = errors.New("contract violation")

// Check returns nil when cond holds, otherwise an error wrapping ErrViolation
// with the formatted message.
func Check(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return Violation(format, args...)
}

// Violation builds an ErrViolation with a formatted message.
func Violation(format string, args ...any) error {
	return errors.Wrapf(ErrViolation, format, args...)
}
