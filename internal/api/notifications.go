package api

import (
	"context"

	"github.com/crewhub-app/sync-agent/internal/model"
)

// CreateNotification creates a server-side notification record. Callers go
// through the outbox rather than calling this directly, so a failure here
// never blocks a primary action.
func (c *Client) CreateNotification(ctx context.Context, n model.Notification) error {
	return c.do(ctx, "notifications.create", "POST", "/notifications", n, nil)
}
