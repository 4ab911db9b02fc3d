package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Kind is the closed set of failure categories handlers branch on.
// Every service error carries exactly one Kind; callers never match on
// message text.
type Kind int

const (
	Internal Kind = iota
	Validation
	Unauthorized
	Forbidden
	NotFound
	Conflict
	DeadlinePassed
	InvalidState
)

// Error is a kinded error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// E builds a kinded error.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the Kind from err; unrecognized errors are Internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// Code returns the stable machine-readable code for the error body.
func (k Kind) Code() string {
	switch k {
	case Validation:
		return "VALIDATION"
	case Unauthorized:
		return "UNAUTHORIZED"
	case Forbidden:
		return "FORBIDDEN"
	case NotFound:
		return "NOT_FOUND"
	case Conflict:
		return "CONFLICT"
	case DeadlinePassed:
		return "DEADLINE_PASSED"
	case InvalidState:
		return "INVALID_STATE"
	default:
		return "INTERNAL"
	}
}

// HTTPStatus maps the Kind to its HTTP status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case Validation:
		return fiber.StatusBadRequest
	case Unauthorized:
		return fiber.StatusUnauthorized
	case Forbidden:
		return fiber.StatusForbidden
	case NotFound:
		return fiber.StatusNotFound
	case Conflict:
		return fiber.StatusConflict
	case DeadlinePassed, InvalidState:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
