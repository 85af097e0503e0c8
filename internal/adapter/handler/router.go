package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ibrahimkeyboad/goledger/internal/adapter/middleware"
	"github.com/ibrahimkeyboad/goledger/internal/adapter/storage"
	"github.com/ibrahimkeyboad/goledger/internal/core/ledger"
)

// Register wires every route onto the app. Split out of main so tests can
// stand up the exact same app around a fresh engine.
func Register(app *fiber.App, e *ledger.Engine, keys *storage.KeyStore, cache *middleware.IdempotencyCache) {
	accountHandler := &AccountHandler{Engine: e, Keys: keys}
	transactionHandler := &TransactionHandler{Engine: e}
	paymentHandler := &PaymentHandler{Engine: e}
	queryHandler := &QueryHandler{Engine: e}

	api := app.Group("/v1")

	// Public
	api.Post("/accounts", accountHandler.CreateAccount)
	api.Post("/accounts/:id/keys", accountHandler.GenerateKey)

	// Protected
	private := api.Use(middleware.Protected(keys))
	private.Post("/deposit", transactionHandler.Deposit)
	private.Post("/transfer", middleware.Idempotency(cache), transactionHandler.Transfer)
	private.Post("/pay", paymentHandler.Pay)
	private.Post("/merge", accountHandler.Merge)
	private.Get("/payments/:paymentId/status", paymentHandler.PaymentStatus)
	private.Get("/accounts/:id/balance", queryHandler.Balance)
	private.Get("/top-spenders", queryHandler.TopSpenders)
}
