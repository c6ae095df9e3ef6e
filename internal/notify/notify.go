package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nikolayk812/rocketcart/internal/domain"
	"github.com/nikolayk812/rocketcart/internal/port"
)

type logNotifier struct {
	logger *slog.Logger
}

// NewLog writes notifications to the structured log.
func NewLog(logger *slog.Logger) port.Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(ctx context.Context, notification domain.Notification) {
	n.logger.LogAttrs(ctx, slog.LevelError, notification.Message,
		slog.String("notification_id", notification.ID.String()),
		slog.String("severity", string(notification.Severity)),
	)
}

type multi []port.Notifier

func Multi(notifiers ...port.Notifier) port.Notifier {
	return multi(notifiers)
}

func (m multi) Notify(ctx context.Context, notification domain.Notification) {
	for _, n := range m {
		n.Notify(ctx, notification)
	}
}

type inboxKey struct{}

// Inbox collects the notifications raised while serving one request.
type Inbox struct {
	mu    sync.Mutex
	items []domain.Notification
}

func WithInbox(ctx context.Context) (context.Context, *Inbox) {
	inbox := &Inbox{}
	return context.WithValue(ctx, inboxKey{}, inbox), inbox
}

func InboxFrom(ctx context.Context) (*Inbox, bool) {
	inbox, ok := ctx.Value(inboxKey{}).(*Inbox)
	return inbox, ok
}

func (i *Inbox) Items() []domain.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	return append([]domain.Notification(nil), i.items...)
}

type inboxNotifier struct{}

// NewInbox delivers notifications to the Inbox carried by the context, if any.
func NewInbox() port.Notifier {
	return inboxNotifier{}
}

func (inboxNotifier) Notify(ctx context.Context, notification domain.Notification) {
	inbox, ok := InboxFrom(ctx)
	if !ok {
		return
	}

	inbox.mu.Lock()
	inbox.items = append(inbox.items, notification)
	inbox.mu.Unlock()
}
