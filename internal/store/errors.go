package store

import (
	"errors" // Sentinel errors

	"gorm.io/gorm" // Translated driver errors
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateIdentity is returned when a username or email is already registered.
	ErrDuplicateIdentity = errors.New("username or email already exists")
	// ErrInvalidReference is returned when a task names a user that does not exist.
	ErrInvalidReference = errors.New("referenced user does not exist")
)

// isDuplicateKey reports whether err is a unique index violation.
// Relies on the dialect's error translation, enabled in db.Open.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// isForeignKeyViolation reports whether err is a foreign key violation.
func isForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
