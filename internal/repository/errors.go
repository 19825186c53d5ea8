package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicateEntry means a write violated a unique constraint.
var ErrDuplicateEntry = errors.New("repository: duplicate entry")

// isDuplicateEntryError recognises unique violations from the translated gorm error or,
// when translation is off, from the driver message.
func isDuplicateEntryError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "duplicate key value violates unique constraint") // PostgreSQL
}

// duplicateField guesses which unique column was hit from the driver message.
func duplicateField(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "email"):
		return "email"
	case strings.Contains(msg, "username"):
		return "username"
	case strings.Contains(msg, "user_id"):
		return "user_id"
	}
	return ""
}

// DuplicateError carries the column of a unique violation when it is known.
type DuplicateError struct {
	Field string
	Err   error
}

func (e *DuplicateError) Error() string {
	if e.Field == "" {
		return ErrDuplicateEntry.Error()
	}
	return ErrDuplicateEntry.Error() + " (" + e.Field + ")"
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicateEntry }

func translateWriteError(err error) error {
	if isDuplicateEntryError(err) {
		return &DuplicateError{Field: duplicateField(err), Err: err}
	}
	return err
}
