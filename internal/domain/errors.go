package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across layers.
var (
	ErrNotFound         = errors.New("not found")
	ErrOpenFailed       = errors.New("failed to open recipe file")
	ErrEmptyFile        = errors.New("recipe file is empty")
	ErrMissingColumns   = errors.New("missing columns")
	ErrSessionNotActive = errors.New("session is not active")
	ErrNoMoreSteps      = errors.New("no more steps in recipe")
	ErrInvalidStep      = errors.New("step index out of range")
)

// MissingColumnsError reports which required header columns were absent.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing columns: %s", strings.Join(e.Columns, ", "))
}

// Is makes errors.Is(err, ErrMissingColumns) hold.
func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}
