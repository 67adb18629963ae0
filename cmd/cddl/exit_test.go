package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeForValidationFailure(t *testing.T) {
	err := validationFailure(fmt.Errorf("2 validation error(s)"))
	assert.Equal(t, 1, exitCodeFor(err))
}

func TestExitCodeForWrappedValidationFailure(t *testing.T) {
	err := fmt.Errorf("running command: %w", validationFailure(errors.New("bad input")))
	assert.Equal(t, 1, exitCodeFor(err))
}

func TestExitCodeForOtherErrors(t *testing.T) {
	assert.Equal(t, 2, exitCodeFor(errors.New("reading CDDL schema: no such file")))
}

func TestExitErrorUnwrap(t *testing.T) {
	inner := errors.New("bad input")
	err := validationFailure(inner)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, inner.Error(), err.Error())
}
