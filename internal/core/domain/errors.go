package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrAuthorNotFound       = errors.New("author not found")
	ErrBookNotFound         = errors.New("book not found")
	ErrLibraryNotFound      = errors.New("library not found")
	ErrLibrarianNotFound    = errors.New("librarian not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrTagNotFound          = errors.New("tag not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidPage          = errors.New("invalid page")

	ErrUnauthorized       = errors.New("authentication credentials were not provided")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrForbidden          = errors.New("you do not have permission to perform this action")

	ErrUserExists       = errors.New("user already exists")
	ErrDuplicateBook    = errors.New("book with this title already exists for this author")
	ErrDuplicateLibrary = errors.New("library with this name already exists")
	ErrAlreadyLiked     = errors.New("you have already liked this post")
	ErrNotLiked         = errors.New("you have not liked this post")
	ErrSelfFollow       = errors.New("cannot follow yourself")
)

// ValidationError collects per-field messages, rendered as a 400 response.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// FieldError is a shortcut for a ValidationError with a single message.
func FieldError(field, msg string) *ValidationError {
	v := NewValidationError()
	v.Add(field, msg)
	return v
}

func (v *ValidationError) Add(field, msg string) {
	v.Fields[field] = append(v.Fields[field], msg)
}

func (v *ValidationError) HasErrors() bool {
	return len(v.Fields) > 0
}

// OrNil returns nil when no field failed, so callers can `return v.OrNil()`.
func (v *ValidationError) OrNil() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(v.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrUserNotFound, ErrAuthorNotFound, ErrBookNotFound,
		ErrLibraryNotFound, ErrLibrarianNotFound, ErrPostNotFound,
		ErrCommentNotFound, ErrTagNotFound, ErrNotificationNotFound, ErrInvalidPage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
