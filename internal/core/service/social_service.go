package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhive/api/internal/api/metrics"
	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

// SocialService implements the feed and likes.
type SocialService struct {
	users    ports.UserRepository
	posts    ports.PostRepository
	likes    ports.LikeRepository
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewSocialService(users ports.UserRepository, posts ports.PostRepository, likes ports.LikeRepository, notifier ports.Notifier, log zerolog.Logger) *SocialService {
	return &SocialService{users: users, posts: posts, likes: likes, notifier: notifier, log: log}
}

// Feed returns posts by the users the actor follows, newest first.
func (s *SocialService) Feed(ctx context.Context, actor domain.Principal, page domain.PageRequest) (*domain.Page[*domain.Post], error) {
	ids, err := s.users.FollowingIDs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return domain.NewPage[*domain.Post](nil, 0, page)
	}

	posts, total, err := s.posts.List(ctx, domain.PostFilter{
		AuthorIDs: ids,
		FeedOnly:  true,
		Ordering:  []domain.OrderField{{Field: "created_at", Desc: true}},
		Page:      page,
	})
	if err != nil {
		return nil, err
	}
	return domain.NewPage(posts, total, page)
}

func (s *SocialService) Like(ctx context.Context, actor domain.Principal, postID uint) (*ports.LikeResult, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	like := &domain.Like{PostID: post.ID, UserID: actor.UserID, CreatedAt: time.Now().UTC()}
	if err := s.likes.Create(ctx, like); err != nil {
		return nil, err
	}
	metrics.LikesTotal.WithLabelValues("like").Inc()

	count, err := s.likes.Count(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ports.NotificationInput{
		RecipientID:    post.AuthorID,
		ActorID:        actor.UserID,
		Verb:           domain.VerbLike,
		TargetType:     domain.TargetPost,
		TargetObjectID: post.ID,
		OccurredAt:     like.CreatedAt,
	})
	return &ports.LikeResult{LikeID: like.ID, LikesCount: count}, nil
}

func (s *SocialService) Unlike(ctx context.Context, actor domain.Principal, postID uint) (*ports.LikeResult, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	n, err := s.likes.Delete(ctx, post.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrNotLiked
	}
	metrics.LikesTotal.WithLabelValues("unlike").Inc()

	count, err := s.likes.Count(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return &ports.LikeResult{LikesCount: count}, nil
}
