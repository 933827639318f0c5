// Package notify dispatches best-effort push notifications. Handlers
// enqueue and return immediately; delivery failures are logged by the
// worker and never affect the triggering request.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bayside-club/backend/internal/models"
	"github.com/bayside-club/backend/internal/users"
	"github.com/bayside-club/backend/pkg/queue"
)

const enqueueTimeout = 5 * time.Second

// Notifier fans club activity out to member devices via the job queue.
type Notifier struct {
	queue   *queue.Queue
	users   *users.Repository
	enabled bool
	logger  *zap.Logger
}

// New creates a notifier. When disabled every call is a no-op.
func New(q *queue.Queue, usersRepo *users.Repository, enabled bool, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{queue: q, users: usersRepo, enabled: enabled, logger: logger}
}

// EventCreated notifies members who can see the new event.
func (n *Notifier) EventCreated(e *models.Event) {
	if n == nil || !n.enabled {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
		defer cancel()
		tokens, err := n.users.DeviceTokensForGroups(ctx, "notify_events", e.VisibleToGroups)
		if err != nil {
			n.logger.Warn("event notification recipients", zap.Error(err))
			return
		}
		err = n.queue.EnqueuePush(ctx, queue.PushPayload{
			Title:        "New event: " + e.Title,
			Body:         e.StartsAt.Format("Mon Jan 2 15:04"),
			Link:         "/events/" + e.ID.String(),
			DeviceTokens: tokens,
		})
		if err != nil {
			n.logger.Warn("enqueue event notification", zap.Error(err))
		}
	}()
}

// ArticlePublished notifies members who can see the new article.
func (n *Notifier) ArticlePublished(a *models.Article) {
	if n == nil || !n.enabled {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
		defer cancel()
		tokens, err := n.users.DeviceTokensForGroups(ctx, "notify_news", a.VisibleToGroups)
		if err != nil {
			n.logger.Warn("article notification recipients", zap.Error(err))
			return
		}
		err = n.queue.EnqueuePush(ctx, queue.PushPayload{
			Title:        a.Title,
			Link:         "/news/" + a.ID.String(),
			DeviceTokens: tokens,
		})
		if err != nil {
			n.logger.Warn("enqueue article notification", zap.Error(err))
		}
	}()
}

// ChatMessage notifies opted-in members of the chat's groups.
func (n *Notifier) ChatMessage(chat *models.Chat, m *models.ChatMessage) {
	if n == nil || !n.enabled {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
		defer cancel()
		tokens, err := n.users.DeviceTokensForGroups(ctx, "notify_chat", chat.GroupScope())
		if err != nil {
			n.logger.Warn("chat notification recipients", zap.Error(err))
			return
		}
		err = n.queue.EnqueuePush(ctx, queue.PushPayload{
			Title:        chat.Name,
			Body:         m.UserName + ": " + m.Body,
			Link:         "/chats/" + chat.ID.Hex(),
			DeviceTokens: tokens,
		})
		if err != nil {
			n.logger.Warn("enqueue chat notification", zap.Error(err))
		}
	}()
}
