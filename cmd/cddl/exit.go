package main

import "errors"

// exitError pins a command's failure to one of spec §6's three exit codes
// (0 success is the zero value, never wrapped).
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// validationFailure marks a structural schema mismatch (exit code 1),
// distinct from a parse/usage error (exit code 2).
func validationFailure(err error) error {
	return &exitError{code: 1, err: err}
}

// exitCodeFor maps a command error to spec §6's CLI exit codes: 1 for a
// reported validation failure, 2 for anything else (parse/decode/usage
// errors, including cobra's own flag-parsing failures).
func exitCodeFor(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 2
}
