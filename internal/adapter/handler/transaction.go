package handler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
	"github.com/ibrahimkeyboad/goledger/internal/core/ledger"
)

type TransactionHandler struct {
	Engine *ledger.Engine
}

// Request models
type DepositRequest struct {
	Timestamp int64  `json:"timestamp"`
	AccountID string `json:"account_id"`
	Amount    int64  `json:"amount"` // Cents!
}

type TransferRequest struct {
	Timestamp int64  `json:"timestamp"`
	FromID    string `json:"from_id"`
	ToID      string `json:"to_id"`
	Amount    int64  `json:"amount"`
}

// Deposit API
func (h *TransactionHandler) Deposit(c *fiber.Ctx) error {
	var req DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	balance, err := h.Engine.Deposit(req.Timestamp, req.AccountID, req.Amount)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"balance": balance,
		"display": domain.FormatMinor(balance),
	})
}

// Transfer API
func (h *TransactionHandler) Transfer(c *fiber.Ctx) error {
	var req TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	balance, err := h.Engine.Transfer(req.Timestamp, req.FromID, req.ToID, req.Amount)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"balance": balance,
		"display": domain.FormatMinor(balance),
	})
}
