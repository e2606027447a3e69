package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

var webhookClient = &http.Client{Timeout: 5 * time.Second}

// SendAlertWebhook posts a budget alert message to the configured webhook
// endpoint. Delivery is best-effort; callers log failures and move on.
func SendAlertWebhook(webhookURL, message string) error {
	if webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(map[string]string{"content": message})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	resp, err := webhookClient.Post(webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
