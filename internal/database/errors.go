package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

const pqUniqueViolation = "23505"

// uniqueViolation maps a unique-constraint failure on users to ErrDuplicateUsername or
// ErrDuplicateEmail. Any other error is returned unchanged.
func uniqueViolation(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
		switch pqErr.Constraint {
		case "uq_users_username":
			return ErrDuplicateUsername
		case "uq_users_email":
			return ErrDuplicateEmail
		}
		return err
	}

	// modernc.org/sqlite: "constraint failed: UNIQUE constraint failed: users.username (2067)"
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		switch {
		case strings.Contains(msg, "users.username"):
			return ErrDuplicateUsername
		case strings.Contains(msg, "users.email"):
			return ErrDuplicateEmail
		}
	}
	return err
}
