package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Conflict, KindOf(E(Conflict, "already there")))
	assert.Equal(t, Internal, KindOf(errors.New("plain")))
	assert.Equal(t, Internal, KindOf(nil))

	// Wrapped kinded errors still resolve.
	wrapped := fmt.Errorf("saving registration: %w", E(DeadlinePassed, "too late"))
	assert.Equal(t, DeadlinePassed, KindOf(wrapped))
}

func TestKindHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		Validation:     fiber.StatusBadRequest,
		Unauthorized:   fiber.StatusUnauthorized,
		Forbidden:      fiber.StatusForbidden,
		NotFound:       fiber.StatusNotFound,
		Conflict:       fiber.StatusConflict,
		DeadlinePassed: fiber.StatusUnprocessableEntity,
		InvalidState:   fiber.StatusUnprocessableEntity,
		Internal:       fiber.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.HTTPStatus(), kind.Code())
	}
}

func TestKindCode(t *testing.T) {
	assert.Equal(t, "VALIDATION", Validation.Code())
	assert.Equal(t, "DEADLINE_PASSED", DeadlinePassed.Code())
	assert.Equal(t, "INVALID_STATE", InvalidState.Code())
	assert.Equal(t, "INTERNAL", Internal.Code())
	assert.Equal(t, "INTERNAL", Kind(99).Code())
}

func TestErrorMessage(t *testing.T) {
	err := E(NotFound, "Event not found")
	assert.Equal(t, "Event not found", err.Error())
}
