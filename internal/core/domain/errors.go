package domain

import (
	"errors"
	"strings"
)

var (
	ErrIdentityNotFound     = errors.New("identity not found")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrInvalidToken         = errors.New("invalid token")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrWrongCurrentPassword = errors.New("your current password is wrong")
	ErrForbidden            = errors.New("you do not have permission to perform this action")
	ErrRateLimited          = errors.New("too many requests from this IP, please try again later")
	ErrTourNotFound         = errors.New("tour not found")
)

// AuthFailure classifies why a request or login was not authenticated.
type AuthFailure uint8

const (
	FailureMissingToken AuthFailure = iota + 1
	FailureInvalidToken
	FailureIdentityGone
	FailurePasswordChanged
	FailureBadCredentials
)

// Client-facing messages. An invalid token and a token whose account is gone
// share one message, and login never says which half of the credentials was
// wrong, so responses cannot be used to probe for registered accounts.
const (
	MsgNotLoggedIn        = "You are not logged in! Please log in to get access."
	MsgInvalidSession     = "Invalid or expired token. Please log in again."
	MsgPasswordChanged    = "User recently changed password! Please log in again."
	MsgInvalidCredentials = "Invalid email or password!"
)

func (f AuthFailure) String() string {
	switch f {
	case FailureMissingToken:
		return "missing_token"
	case FailureInvalidToken:
		return "invalid_token"
	case FailureIdentityGone:
		return "identity_gone"
	case FailurePasswordChanged:
		return "password_changed"
	case FailureBadCredentials:
		return "bad_credentials"
	default:
		return "unknown"
	}
}

// Message is the text shown to the client for this failure.
func (f AuthFailure) Message() string {
	switch f {
	case FailureMissingToken:
		return MsgNotLoggedIn
	case FailurePasswordChanged:
		return MsgPasswordChanged
	case FailureBadCredentials:
		return MsgInvalidCredentials
	default:
		return MsgInvalidSession
	}
}

// UnauthenticatedError is returned by the Gate and by login. It matches
// ErrUnauthenticated under errors.Is.
type UnauthenticatedError struct {
	Failure AuthFailure
}

func NewUnauthenticated(f AuthFailure) *UnauthenticatedError {
	return &UnauthenticatedError{Failure: f}
}

func (e *UnauthenticatedError) Error() string { return e.Failure.Message() }

func (e *UnauthenticatedError) Is(target error) bool { return target == ErrUnauthenticated }

// ValidationError reports malformed or missing input. Nothing has been
// written when it is returned.
type ValidationError struct {
	Fields []FieldError
}

// FieldError is a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "Invalid input data. " + strings.Join(msgs, ". ")
}
