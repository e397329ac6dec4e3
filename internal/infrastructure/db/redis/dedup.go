package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookhive/api/internal/core/ports"
)

// DefaultDedupTTL is how long an identical notification is suppressed.
const DefaultDedupTTL = time.Hour

// NotificationDedup suppresses repeated notifications backed by Redis.
// Key format: notif:dedup:<recipient>:<actor>:<verb>:<target_type>:<target_id>
type NotificationDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewNotificationDedup wraps client; ttl <= 0 uses DefaultDedupTTL.
func NewNotificationDedup(client *redis.Client, ttl time.Duration) *NotificationDedup {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	return &NotificationDedup{client: client, ttl: ttl}
}

var _ ports.NotificationDedup = (*NotificationDedup)(nil)

// IsDuplicate reports whether the same notification was stored within the TTL.
func (d *NotificationDedup) IsDuplicate(ctx context.Context, n ports.NotificationInput) (bool, error) {
	c, err := d.client.Exists(ctx, dedupKey(n)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return c > 0, nil
}

// Mark records the notification as stored (expires after the TTL).
func (d *NotificationDedup) Mark(ctx context.Context, n ports.NotificationInput) error {
	return d.client.Set(ctx, dedupKey(n), "1", d.ttl).Err()
}

func dedupKey(n ports.NotificationInput) string {
	return fmt.Sprintf("notif:dedup:%d:%d:%s:%s:%d", n.RecipientID, n.ActorID, n.Verb, n.TargetType, n.TargetObjectID)
}
