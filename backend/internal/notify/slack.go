package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// SlackNotifier posts match events to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	username   string
}

func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{webhookURL: webhookURL, username: "Foundira"}
}

func (s *SlackNotifier) NotifyMatch(ctx context.Context, event MatchEvent) error {
	msg := &slack.WebhookMessage{
		Username:  s.username,
		IconEmoji: ":mag:",
		Text:      fmt.Sprintf("*High confidence match*\n%s", event.Summary()),
	}
	if err := slack.PostWebhookContext(ctx, s.webhookURL, msg); err != nil {
		return fmt.Errorf("slack webhook: %w", err)
	}
	return nil
}
