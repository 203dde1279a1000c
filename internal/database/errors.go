package database

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicateUsername is returned by CreateAccount when the username is
// already taken. The unique index on users.username decides the race between
// two concurrent registrations, so callers never need a prior existence check.
var ErrDuplicateUsername = errors.New("username already registered")

// ErrMissingReference is returned by CreateMessage when a referenced row no
// longer exists, e.g. the chatroom was deleted between the caller's existence
// check and the insert. The foreign key decides that race.
var ErrMissingReference = errors.New("referenced row does not exist")

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}
