// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound          = errors.New("not found")
	ErrDatabaseCorrupted = errors.New("database corrupted")

	// Dataset shape errors.
	ErrNilDataset       = errors.New("dataset cannot be nil")
	ErrRaggedDataset    = errors.New("columns have different lengths")
	ErrDuplicateColumn  = errors.New("duplicate column name")
	ErrEmptyColumnName  = errors.New("column name cannot be empty")
	ErrInvalidKind      = errors.New("invalid dataset kind")
	ErrNoDatasets       = errors.New("no datasets to assess")
	ErrMalformedCSVFile = errors.New("malformed csv file")

	// Configuration errors.
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrInvalidWeights = errors.New("invalid dimension weights")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsConfigError reports whether err stems from invalid engine configuration.
// Configuration defects are programming errors and should stop the process at startup.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrInvalidWeights)
}
