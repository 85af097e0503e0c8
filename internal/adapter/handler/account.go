package handler

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrahimkeyboad/goledger/internal/adapter/storage"
	"github.com/ibrahimkeyboad/goledger/internal/core/ledger"
	"github.com/ibrahimkeyboad/goledger/internal/core/security"
)

type AccountHandler struct {
	Engine *ledger.Engine
	Keys   *storage.KeyStore
}

// CreateAccountRequest defines what the caller sends us. Timestamps are
// ledger time in milliseconds, supplied by the caller and non-decreasing
// across the whole call sequence.
type CreateAccountRequest struct {
	Timestamp int64  `json:"timestamp"`
	AccountID string `json:"account_id"`
}

type MergeRequest struct {
	Timestamp int64  `json:"timestamp"`
	AccountID string `json:"account_id"` // absorbs the other one
	SourceID  string `json:"source_id"`  // merged away
}

func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	var req CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("Invalid account body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.AccountID == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "account_id is required"})
	}

	if err := h.Engine.CreateAccount(req.Timestamp, req.AccountID); err != nil {
		return fail(c, err)
	}

	slog.Info("✅ Account created", "id", req.AccountID, "ts", req.Timestamp)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"account_id": req.AccountID})
}

func (h *AccountHandler) Merge(c *fiber.Ctx) error {
	var req MergeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.Engine.MergeAccounts(req.Timestamp, req.AccountID, req.SourceID); err != nil {
		return fail(c, err)
	}

	slog.Info("✅ Accounts merged", "into", req.AccountID, "from", req.SourceID, "ts", req.Timestamp)
	return c.JSON(fiber.Map{"status": "success", "account_id": req.AccountID})
}

func (h *AccountHandler) GenerateKey(c *fiber.Ctx) error {
	accountID := c.Params("id")

	realKey, keyHash, err := security.GenerateAPIKey()
	if err != nil {
		slog.Error("Crypto error generating key", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Crypto error"})
	}

	h.Keys.Save(accountID, keyHash)
	slog.Info("🔑 API key generated", "account_id", accountID)

	// Show the key to the caller once only; we keep just the hash.
	return c.JSON(fiber.Map{
		"api_key": realKey,
		"warning": "Save this now! We won't show it again.",
	})
}
