package middleware

import (
	"clubdesk-backend/internal/pkg/apperr"
	"clubdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the global Fiber error handler. Kinded service errors
// keep their code/status; everything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if kind := apperr.KindOf(err); kind != apperr.Internal {
		return response.Error(c, err.Error(), kind, nil)
	}
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(response.ErrorBody{
			Status: "error",
			Error: response.ErrorDetail{
				Message:    e.Message,
				Code:       apperr.Internal.Code(),
				StatusCode: e.Code,
				Details:    map[string]interface{}{},
			},
		})
	}
	return response.Error(c, "Internal Server Error", apperr.Internal, nil)
}
