package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bookhive/api/internal/core/domain"
)

func TestNotificationDoc_ToDomain(t *testing.T) {
	oid := primitive.NewObjectID()
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := notificationDoc{
		ID:             oid,
		RecipientID:    1,
		ActorID:        2,
		Verb:           "like",
		TargetType:     domain.TargetPost,
		TargetObjectID: 9,
		Timestamp:      ts,
	}

	n := doc.toDomain()
	if n.ID != oid.Hex() {
		t.Fatalf("expected hex id %s, got %s", oid.Hex(), n.ID)
	}
	if n.Verb != domain.VerbLike || n.Verb.Display() != "liked your post" {
		t.Fatalf("unexpected verb: %s", n.Verb)
	}
	if !n.Timestamp.Equal(ts) || n.Read {
		t.Fatalf("unexpected notification: %+v", n)
	}
}

func TestNotificationRepository_MalformedID(t *testing.T) {
	repo := &NotificationRepository{}

	if _, err := repo.FindByID(context.Background(), "not-hex"); !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if err := repo.MarkRead(context.Background(), "xyz"); !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
}
