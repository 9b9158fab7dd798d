package models

import "fmt"

// UnparsableNumberError reports edit text that is not a valid number.
// It never escapes TemperatureState.Apply, which records the edit instead.
type UnparsableNumberError struct {
	Unit Unit
	Text string
	Err  error
}

func (e *UnparsableNumberError) Error() string {
	return fmt.Sprintf("unparsable %s value %q", e.Unit, e.Text)
}

func (e *UnparsableNumberError) Unwrap() error {
	return e.Err
}

// IsTransient returns false as retrying the same text cannot succeed
func (e *UnparsableNumberError) IsTransient() bool {
	return false
}
