package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
	"github.com/ibrahimkeyboad/goledger/internal/core/ledger"
)

type QueryHandler struct {
	Engine *ledger.Engine
}

// Balance answers a point-in-time query: the balance the account had at
// as_of, reconstructed by replaying its log. timestamp is "now" and drives
// cashback settlement before the replay.
func (h *QueryHandler) Balance(c *fiber.Ctx) error {
	accountID := c.Params("id")
	ts := int64(c.QueryInt("timestamp"))
	asOf := int64(c.QueryInt("as_of", int(ts)))

	balance, err := h.Engine.GetBalance(ts, accountID, asOf)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"account_id": accountID,
		"as_of":      asOf,
		"balance":    balance,
		"display":    domain.FormatMinor(balance),
	})
}

// TopSpenders ranks active accounts by total outgoing money.
func (h *QueryHandler) TopSpenders(c *fiber.Ctx) error {
	ts := int64(c.QueryInt("timestamp"))
	n := c.QueryInt("n", 10)

	return c.JSON(fiber.Map{
		"top_spenders": h.Engine.TopSpenders(ts, n),
	})
}
