package access

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("Not enough permissions")
	ErrInvalidState     = errors.New("invalid state")
	ErrConflict         = errors.New("already exists")
)

// Error carries a user facing message on top of one of the sentinel kinds.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.kind }

func NotFound(format string, args ...any) error {
	return &Error{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) error {
	return &Error{kind: ErrInvalidState, msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// Subject is the authenticated caller.
type Subject struct {
	UserID      uint
	Username    string
	IsSuperuser bool
}

// Authorize allows superusers and the owner.
func (s Subject) Authorize(ownerID uint) error {
	if s.IsSuperuser || s.UserID == ownerID {
		return nil
	}
	return ErrPermissionDenied
}

// CanSee reports whether a possibly public resource is visible to s.
func (s Subject) CanSee(ownerID uint, public bool) bool {
	return public || s.Authorize(ownerID) == nil
}
