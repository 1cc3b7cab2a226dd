package errxfiber

import (
	"errors"

	"github.com/Abraxas-365/resumescan/pkg/errx"
	"github.com/Abraxas-365/resumescan/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler converts returned errors to JSON responses. It is installed as
// the fiber app ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Fiber errors, e.g. unknown route or body too large
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
			"code":  fe.Code,
		})
	}

	if e, ok := errx.As(err); ok {
		if e.HTTPStatus >= fiber.StatusInternalServerError {
			logx.Errorf("%s %s: %v", c.Method(), c.Path(), err)
		}
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    errx.TypeInternal,
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	})
}
