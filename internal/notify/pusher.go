package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notification is the message handed to the push provider.
type Notification struct {
	Title string
	Body  string
	Link  string
}

// Pusher delivers a notification to a set of device tokens. The concrete
// provider lives behind this boundary; delivery is best-effort.
type Pusher interface {
	Push(ctx context.Context, deviceTokens []string, n Notification) error
}

// LogPusher logs instead of delivering. Used in development and as the
// fallback when no provider is configured.
type LogPusher struct {
	Logger *zap.Logger
}

// Push implements Pusher.
func (p *LogPusher) Push(_ context.Context, deviceTokens []string, n Notification) error {
	p.Logger.Info("push (log only)",
		zap.Int("devices", len(deviceTokens)),
		zap.String("title", n.Title),
		zap.String("link", n.Link),
	)
	return nil
}
