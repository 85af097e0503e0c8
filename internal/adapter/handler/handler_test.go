package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrahimkeyboad/goledger/internal/adapter/middleware"
	"github.com/ibrahimkeyboad/goledger/internal/adapter/storage"
	"github.com/ibrahimkeyboad/goledger/internal/core/ledger"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	Register(app, ledger.NewEngine(), storage.NewKeyStore(), middleware.NewIdempotencyCache())
	return app
}

// request runs one JSON request through the app and decodes the response.
func request(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("%s %s: decode response: %v", method, path, err)
	}
	return resp, decoded
}

func TestLedgerAPIEndToEnd(t *testing.T) {
	app := newTestApp()

	// Create two accounts; a duplicate id conflicts.
	resp, _ := request(t, app, "POST", "/v1/accounts", fiber.Map{"timestamp": 1, "account_id": "A"}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create A: status=%d", resp.StatusCode)
	}
	request(t, app, "POST", "/v1/accounts", fiber.Map{"timestamp": 2, "account_id": "B"}, nil)
	resp, _ = request(t, app, "POST", "/v1/accounts", fiber.Map{"timestamp": 3, "account_id": "A"}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate create: status=%d want=409", resp.StatusCode)
	}

	// Protected routes demand a key.
	resp, _ = request(t, app, "POST", "/v1/deposit", fiber.Map{"timestamp": 4, "account_id": "A", "amount": 100}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no key: status=%d want=401", resp.StatusCode)
	}

	_, keyBody := request(t, app, "POST", "/v1/accounts/A/keys", nil, nil)
	apiKey, _ := keyBody["api_key"].(string)
	if apiKey == "" {
		t.Fatalf("no api_key in %v", keyBody)
	}
	auth := map[string]string{"Authorization": "Bearer " + apiKey}

	// Deposit and transfer.
	resp, body := request(t, app, "POST", "/v1/deposit", fiber.Map{"timestamp": 5, "account_id": "A", "amount": 10000}, auth)
	if resp.StatusCode != http.StatusOK || body["balance"].(float64) != 10000 {
		t.Fatalf("deposit: status=%d body=%v", resp.StatusCode, body)
	}
	if body["display"] != "100.00" {
		t.Fatalf("display=%v want=100.00", body["display"])
	}

	transfer := fiber.Map{"timestamp": 6, "from_id": "A", "to_id": "B", "amount": 4000}
	idem := map[string]string{"Authorization": "Bearer " + apiKey, "Idempotency-Key": "tr-1"}
	resp, body = request(t, app, "POST", "/v1/transfer", transfer, idem)
	if resp.StatusCode != http.StatusOK || body["balance"].(float64) != 6000 {
		t.Fatalf("transfer: status=%d body=%v", resp.StatusCode, body)
	}

	// Same Idempotency-Key: cached response, no second debit.
	resp, body = request(t, app, "POST", "/v1/transfer", transfer, idem)
	if resp.Header.Get("X-Idempotency-Hit") != "true" {
		t.Fatal("second transfer was not served from the idempotency cache")
	}
	if body["balance"].(float64) != 6000 {
		t.Fatalf("cached transfer body=%v", body)
	}

	// Card payment: bad card rejected, good card charged.
	charge := fiber.Map{
		"timestamp": 7, "account_id": "A", "amount": 5000,
		"card_number": "1234567890123456", "expiry": "12/30", "cvc": "123",
	}
	resp, _ = request(t, app, "POST", "/v1/pay", charge, auth)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad card: status=%d want=400", resp.StatusCode)
	}

	charge["card_number"] = "4111 1111 1111 1111"
	resp, body = request(t, app, "POST", "/v1/pay", charge, auth)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pay: status=%d body=%v", resp.StatusCode, body)
	}
	if body["payment_id"] != "payment1" || body["brand"] != "VISA" || body["cashback"].(float64) != 100 {
		t.Fatalf("pay body=%v", body)
	}

	// Status flips once the cashback settles.
	resp, body = request(t, app, "GET", "/v1/payments/payment1/status?account_id=A&timestamp=8", nil, auth)
	if resp.StatusCode != http.StatusOK || body["status"] != "IN_PROGRESS" {
		t.Fatalf("status: %d %v", resp.StatusCode, body)
	}
	later := 7 + 86_400_000
	path := fmt.Sprintf("/v1/payments/payment1/status?account_id=A&timestamp=%d", later)
	_, body = request(t, app, "GET", path, nil, auth)
	if body["status"] != "CASHBACK_RECEIVED" {
		t.Fatalf("status after one day: %v", body)
	}

	// Historical balance: before the payment it was 6000.
	_, body = request(t, app, "GET", fmt.Sprintf("/v1/accounts/A/balance?timestamp=%d&as_of=6", later), nil, auth)
	if body["balance"].(float64) != 6000 {
		t.Fatalf("balance as_of=6: %v", body)
	}
	resp, _ = request(t, app, "GET", fmt.Sprintf("/v1/accounts/ghost/balance?timestamp=%d", later), nil, auth)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown account balance: status=%d want=404", resp.StatusCode)
	}

	// Ranking counts the transfer and the card payment.
	_, body = request(t, app, "GET", fmt.Sprintf("/v1/top-spenders?timestamp=%d&n=2", later), nil, auth)
	spenders, _ := body["top_spenders"].([]interface{})
	if len(spenders) != 2 || spenders[0] != "A(9000)" || spenders[1] != "B(0)" {
		t.Fatalf("top_spenders=%v", spenders)
	}

	// Merge B away, then its id is free for reuse.
	resp, _ = request(t, app, "POST", "/v1/merge", fiber.Map{"timestamp": later + 1, "account_id": "A", "source_id": "B"}, auth)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("merge: status=%d", resp.StatusCode)
	}
	resp, _ = request(t, app, "POST", "/v1/accounts", fiber.Map{"timestamp": later + 2, "account_id": "B"}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("recreate merged id: status=%d want=201", resp.StatusCode)
	}
}

func TestInsufficientFundsMapsToConflict(t *testing.T) {
	app := newTestApp()
	request(t, app, "POST", "/v1/accounts", fiber.Map{"timestamp": 1, "account_id": "A"}, nil)
	request(t, app, "POST", "/v1/accounts", fiber.Map{"timestamp": 1, "account_id": "B"}, nil)
	_, keyBody := request(t, app, "POST", "/v1/accounts/A/keys", nil, nil)
	auth := map[string]string{"Authorization": "Bearer " + keyBody["api_key"].(string)}

	resp, _ := request(t, app, "POST", "/v1/transfer", fiber.Map{"timestamp": 2, "from_id": "A", "to_id": "B", "amount": 1}, auth)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status=%d want=409", resp.StatusCode)
	}
}
