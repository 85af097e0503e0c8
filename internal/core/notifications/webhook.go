package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// One shared client with a hard timeout: a slow subscriber must never
// block the worker for more than a few seconds.
var client = &http.Client{Timeout: 5 * time.Second}

// SendWebhook posts the JSON payload to the subscriber's URL. Any non-2xx
// response counts as a delivery failure so the worker can retry it.
func SendWebhook(url string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "GoLedger-Webhook/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("subscriber returned status %d", resp.StatusCode)
}
