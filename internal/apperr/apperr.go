// Package apperr defines the typed failures every handler produces. All of
// them flow to one terminal renderer; nothing else writes an error response.
package apperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind classifies a failure so the terminal renderer can map it to exactly
// one response shape.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindDuplicate
	KindInvalidCredentials
	KindUnauthenticated
)

// DefaultMessage is the safe user-facing text used when an error carries none.
const DefaultMessage = "something went wrong"

// Error is a uniform typed failure carrying a status class and a message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Message == "" {
			return e.Err.Error()
		}
		return e.Message + ": " + e.Err.Error()
	}
	if e.Message == "" {
		return DefaultMessage
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the kind to its HTTP status. Unauthenticated is redirect-class,
// not a plain 401: the renderer sends the client to the login entry point.
func (e *Error) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindUnauthenticated:
		return http.StatusSeeOther
	default:
		return http.StatusInternalServerError
	}
}

// NotFound reports a missing record or an unmatched route.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Duplicate reports an identity collision on registration.
func Duplicate(msg string) *Error {
	return &Error{Kind: KindDuplicate, Message: msg}
}

// InvalidCredentials is deliberately generic: unknown username and wrong
// password must be indistinguishable to the client.
func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: "invalid username or password"}
}

// Unauthenticated signals the redirect-class guard outcome. The notice is
// shown once on the login page.
func Unauthenticated(notice string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: notice}
}

// Validation joins every violated constraint into one message list.
func Validation(messages ...string) *Error {
	return &Error{Kind: KindValidation, Message: strings.Join(messages, ", ")}
}

// From returns err as an *Error, wrapping anything unclassified as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindInternal, Err: err}
}

// FromBindError converts a gin binding failure into a Validation error
// listing every violated field, never just the first one.
func FromBindError(err error) *Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return &Error{Kind: KindValidation, Message: strings.Join(msgs, ", "), Err: err}
	}
	return &Error{Kind: KindValidation, Message: "malformed request body", Err: err}
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	case "gte":
		return field + " must be at least " + fe.Param()
	case "lte":
		return field + " must be at most " + fe.Param()
	default:
		return field + " is invalid"
	}
}
