// Package notification is the boundary to the message delivery
// collaborator. Delivery is best-effort: callers log failures and move on.
package notification

import (
	"context"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// Notifier delivers one templated message to a subscriber.
type Notifier interface {
	Notify(ctx context.Context, subscriberRef string, template types.NotificationTemplate, data map[string]any) error
}
