package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/matching"

	"golang.org/x/time/rate"
)

// ItemHook receives item lifecycle events ("create", "update").
type ItemHook interface {
	DispatchItem(ctx context.Context, action string, category matching.Category, item any) error
}

// WebhookDispatcher posts item lifecycle events to per-category endpoints.
type WebhookDispatcher struct {
	lostURL  string
	foundURL string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewWebhookDispatcher creates a dispatcher sending at most perSecond
// requests per second.
func NewWebhookDispatcher(lostURL, foundURL string, perSecond float64, timeout time.Duration) *WebhookDispatcher {
	return &WebhookDispatcher{
		lostURL:  lostURL,
		foundURL: foundURL,
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// URLFor picks the endpoint for a category: Found reports go to the found
// URL, everything else to the lost URL.
func (d *WebhookDispatcher) URLFor(category matching.Category) string {
	if strings.EqualFold(string(category), string(matching.CategoryFound)) {
		return d.foundURL
	}
	return d.lostURL
}

// DispatchItem posts the item's JSON with an added "action" field. An
// unconfigured endpoint is skipped.
func (d *WebhookDispatcher) DispatchItem(ctx context.Context, action string, category matching.Category, item any) error {
	url := d.URLFor(category)
	if url == "" {
		return nil
	}

	body, err := webhookBody(action, item)
	if err != nil {
		return err
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("webhook: rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook: %s returned status %d: %s", action, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// webhookBody flattens item into a JSON object and sets "action" on it.
func webhookBody(action string, item any) ([]byte, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("webhook: marshal item: %w", err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("webhook: item must encode as a JSON object: %w", err)
	}
	fields["action"] = action
	return json.Marshal(fields)
}
