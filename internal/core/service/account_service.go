package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/bookhive/api/internal/api/metrics"
	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

type accountService struct {
	users    ports.UserRepository
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewAccountService returns an AccountService implementation.
func NewAccountService(users ports.UserRepository, notifier ports.Notifier, log zerolog.Logger) ports.AccountService {
	return &accountService{users: users, notifier: notifier, log: log}
}

func (s *accountService) Profile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *accountService) UpdateProfile(ctx context.Context, userID uint, in ports.ProfileUpdate) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, domain.FieldError("username", "This field may not be blank.")
		}
		user.Username = username
	}
	if in.Bio != nil {
		if utf8.RuneCountInString(*in.Bio) > 500 {
			return nil, domain.FieldError("bio", "Ensure this field has no more than 500 characters.")
		}
		user.Bio = *in.Bio
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.ProfilePicture != nil {
		user.ProfilePicture = *in.ProfilePicture
	}
	if in.DateOfBirth != nil {
		user.DateOfBirth = in.DateOfBirth
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.FieldError("username", "A user with that username already exists.")
		}
		return nil, err
	}
	return updated, nil
}

func (s *accountService) Follow(ctx context.Context, actor domain.Principal, targetID uint) (*domain.User, error) {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.ID == actor.UserID {
		return nil, domain.ErrSelfFollow
	}

	created, err := s.users.Follow(ctx, actor.UserID, target.ID)
	if err != nil {
		return nil, err
	}
	if created {
		metrics.FollowsTotal.WithLabelValues("follow").Inc()
		s.notifier.Notify(ports.NotificationInput{
			RecipientID:    target.ID,
			ActorID:        actor.UserID,
			Verb:           domain.VerbFollow,
			TargetType:     domain.TargetUser,
			TargetObjectID: target.ID,
			OccurredAt:     time.Now().UTC(),
		})
		s.log.Info().Uint("follower", actor.UserID).Uint("following", target.ID).Msg("user followed")
	}
	return target, nil
}

func (s *accountService) Unfollow(ctx context.Context, actor domain.Principal, targetID uint) (*domain.User, error) {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.users.Unfollow(ctx, actor.UserID, target.ID); err != nil {
		return nil, err
	}
	metrics.FollowsTotal.WithLabelValues("unfollow").Inc()
	return target, nil
}

func (s *accountService) Followers(ctx context.Context, userID uint, page domain.PageRequest) (*domain.Page[*domain.User], error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	users, total, err := s.users.Followers(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(users, total, page)
}

func (s *accountService) Following(ctx context.Context, userID uint, page domain.PageRequest) (*domain.Page[*domain.User], error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	users, total, err := s.users.Following(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(users, total, page)
}

func (s *accountService) SetRole(ctx context.Context, userID uint, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.FieldError("role", `"`+role+`" is not a valid choice.`)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

func (s *accountService) SetPermissions(ctx context.Context, userID uint, codenames []string) (*domain.User, error) {
	v := domain.NewValidationError()
	for _, c := range codenames {
		if !domain.ValidPermission(c) {
			v.Add("permissions", `Unknown permission "`+c+`".`)
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.users.SetPermissions(ctx, userID, dedupeStrings(codenames)); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
