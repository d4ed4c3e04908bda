package helper

import "fmt"

// NewError wraps err with the action that failed, e.g.
// NewError("parse inference response", err).
func NewError(action string, err error) error {
	return fmt.Errorf("error in %v: %w", action, err)
}
