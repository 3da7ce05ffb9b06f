package discord

import (
	"context"
	"fmt"

	"evento-notification/pkg/log"
)

// IDiscord posts operational alerts to a Discord webhook.
type IDiscord interface {
	SendEmbed(ctx context.Context, options MessageOptions) error
	SendError(ctx context.Context, title, description string, err error) error
	SendWarning(ctx context.Context, title, description string) error
	ReportBug(ctx context.Context, message string) error
	Close() error
}

// New builds a webhook client from its id and token.
func New(l log.Logger, id, token string) (IDiscord, error) {
	if id == "" || token == "" {
		return nil, errWebhookRequired
	}
	return newImpl(l, fmt.Sprintf(webhookURLTemplate, id, token)), nil
}
