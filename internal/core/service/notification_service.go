package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookhive/api/internal/api/metrics"
	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

type notificationService struct {
	repo  ports.NotificationRepository
	users ports.UserRepository
	dedup ports.NotificationDedup
	log   zerolog.Logger
}

// NewNotificationService returns a NotificationService implementation.
func NewNotificationService(
	repo ports.NotificationRepository,
	users ports.UserRepository,
	dedup ports.NotificationDedup,
	log zerolog.Logger,
) ports.NotificationService {
	return &notificationService{
		repo:  repo,
		users: users,
		dedup: dedup,
		log:   log,
	}
}

// Process stores a single notification unless it targets the actor or
// repeats one stored within the dedup window.
func (s *notificationService) Process(ctx context.Context, in ports.NotificationInput) error {
	if in.RecipientID == 0 || in.RecipientID == in.ActorID {
		return nil
	}

	isDup, err := s.dedup.IsDuplicate(ctx, in)
	if err != nil {
		s.log.Warn().Err(err).Uint("recipient", in.RecipientID).Msg("dedup check failed, storing anyway")
	} else if isDup {
		metrics.NotificationsDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Uint("recipient", in.RecipientID).Str("verb", string(in.Verb)).Msg("duplicate notification skipped")
		return nil
	}
	metrics.NotificationsDedupTotal.WithLabelValues("miss").Inc()

	n := &domain.Notification{
		RecipientID:    in.RecipientID,
		ActorID:        in.ActorID,
		Verb:           in.Verb,
		TargetType:     in.TargetType,
		TargetObjectID: in.TargetObjectID,
		Timestamp:      in.OccurredAt,
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		return fmt.Errorf("process notification: %w", err)
	}

	if err := s.dedup.Mark(ctx, in); err != nil {
		s.log.Warn().Err(err).Uint("recipient", in.RecipientID).Msg("failed to set dedup key")
	}

	metrics.NotificationsCreatedTotal.WithLabelValues(string(in.Verb)).Inc()
	s.log.Info().
		Uint("recipient", in.RecipientID).
		Uint("actor", in.ActorID).
		Str("verb", string(in.Verb)).
		Msg("notification stored")
	return nil
}

func (s *notificationService) List(ctx context.Context, recipientID uint, page domain.PageRequest) (*domain.Page[ports.NotificationView], error) {
	items, total, err := s.repo.ListForRecipient(ctx, recipientID, page)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(items))
	for _, n := range items {
		ids = append(ids, n.ActorID)
	}
	actors, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]ports.NotificationView, 0, len(items))
	for _, n := range items {
		v := ports.NotificationView{Notification: *n}
		if a, ok := actors[n.ActorID]; ok {
			v.Actor = a.Summary()
		} else {
			v.Actor = domain.UserSummary{ID: n.ActorID}
		}
		views = append(views, v)
	}
	return domain.NewPage(views, total, page)
}

func (s *notificationService) MarkAsRead(ctx context.Context, recipientID uint, id string) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n.RecipientID != recipientID {
		return domain.ErrForbidden
	}
	if n.Read {
		return nil
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error) {
	return s.repo.MarkAllRead(ctx, recipientID)
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.repo.CountUnread(ctx, recipientID)
}
