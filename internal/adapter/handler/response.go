package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
)

// fail maps ledger errors to HTTP status codes. Business failures are
// ordinary outcomes, so anything unrecognized is the only 500.
func fail(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientFunds), errors.Is(err, domain.ErrAccountExists):
		status = http.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
