package handler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
	"github.com/ibrahimkeyboad/goledger/internal/core/ledger"
)

type PaymentHandler struct {
	Engine *ledger.Engine
}

type ChargeRequest struct {
	Timestamp  int64  `json:"timestamp"`
	AccountID  string `json:"account_id"`
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"` // MM/YY
	CVC        string `json:"cvc"`
	Amount     int64  `json:"amount"` // Cents
}

// Pay charges a card payment against the account. The debit lands now;
// the 2% cashback settles one ledger day later.
func (h *PaymentHandler) Pay(c *fiber.Ctx) error {
	var req ChargeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	// 1. Validate card logic
	brand, ok := domain.ValidateCard(req.CardNumber)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid card. We only accept Visa and Mastercard.",
		})
	}

	// 2. Validate expiry/CVC (simplified for now)
	if len(req.CVC) < 3 || len(req.Expiry) != 5 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid CVC or expiry"})
	}

	// 3. Record the payment on the ledger
	paymentID, err := h.Engine.Pay(req.Timestamp, req.AccountID, req.Amount)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":     "success",
		"payment_id": paymentID,
		"brand":      brand,
		"amount":     req.Amount,
		"display":    domain.FormatMinor(req.Amount),
		"cashback":   domain.Cashback(req.Amount),
	})
}

// PaymentStatus reports IN_PROGRESS or CASHBACK_RECEIVED.
func (h *PaymentHandler) PaymentStatus(c *fiber.Ctx) error {
	paymentID := c.Params("paymentId")
	accountID := c.Query("account_id")
	ts := c.QueryInt("timestamp")

	status, err := h.Engine.GetPaymentStatus(int64(ts), accountID, paymentID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"payment_id": paymentID,
		"status":     status,
	})
}
