package services

import "errors"

// Error kinds. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid user credentials")
	ErrUnauthorized       = errors.New("unauthorized request")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal error")
)

// Error carries a client-facing message while unwrapping to one of the kinds above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds an Error of the given kind.
func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Validation returns a 400-class error with the given message.
func Validation(msg string) error {
	return NewError(ErrValidation, msg)
}

var (
	ErrUserNotFound     = NewError(ErrNotFound, "user does not exist")
	ErrUserExists       = NewError(ErrConflict, "user with email or username already exists")
	ErrWrongPassword    = NewError(ErrInvalidCredentials, "invalid user credentials")
	ErrTokenMissing     = NewError(ErrUnauthorized, "unauthorized request")
	ErrInvalidToken     = NewError(ErrUnauthorized, "invalid token")
	ErrTokenExpired     = NewError(ErrUnauthorized, "token has expired")
	ErrRefreshUnknownID = NewError(ErrUnauthorized, "invalid refresh token")
	ErrRefreshReused    = NewError(ErrUnauthorized, "refresh token is expired or used")
	ErrTokenIssuance    = NewError(ErrInternal, "something went wrong while generating access and refresh token")
)
