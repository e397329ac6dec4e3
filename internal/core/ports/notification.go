package ports

import (
	"context"
	"time"

	"github.com/bookhive/api/internal/core/domain"
)

type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	FindByID(ctx context.Context, id string) (*domain.Notification, error)
	// ListForRecipient returns unread first, then newest first.
	ListForRecipient(ctx context.Context, recipientID uint, page domain.PageRequest) ([]*domain.Notification, int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, recipientID uint) (int64, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
}

// NotificationDedup suppresses repeats of the same notification.
type NotificationDedup interface {
	IsDuplicate(ctx context.Context, n NotificationInput) (bool, error)
	Mark(ctx context.Context, n NotificationInput) error
}

// NotificationInput is what producers hand to the notifier.
type NotificationInput struct {
	RecipientID    uint
	ActorID        uint
	Verb           domain.Verb
	TargetType     string
	TargetObjectID uint
	OccurredAt     time.Time
}

// Notifier accepts notifications for asynchronous delivery.
type Notifier interface {
	Notify(n NotificationInput)
}

// NotificationView is a notification with its actor resolved.
type NotificationView struct {
	domain.Notification
	Actor domain.UserSummary
}

type NotificationService interface {
	Process(ctx context.Context, in NotificationInput) error
	List(ctx context.Context, recipientID uint, page domain.PageRequest) (*domain.Page[NotificationView], error)
	MarkAsRead(ctx context.Context, recipientID uint, id string) error
	MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error)
	UnreadCount(ctx context.Context, recipientID uint) (int64, error)
}
