package ports

import (
	"context"

	"github.com/bookhive/api/internal/core/domain"
)

type PostRepository interface {
	// Create stores the post and attaches tags by slug, creating missing ones.
	Create(ctx context.Context, p *domain.Post) error
	FindByID(ctx context.Context, id uint) (*domain.Post, error)
	// Update saves title/content and, when tags is non-nil, replaces the tag set.
	Update(ctx context.Context, p *domain.Post, tags []domain.Tag) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, f domain.PostFilter) ([]*domain.Post, int64, error)
	Tags(ctx context.Context) ([]domain.Tag, error)
	FindTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	FindByID(ctx context.Context, id uint) (*domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id uint) error
	// List returns comments oldest first; postID 0 lists all posts' comments.
	List(ctx context.Context, postID uint, page domain.PageRequest) ([]*domain.Comment, int64, error)
}

type LikeRepository interface {
	// Create fails with domain.ErrAlreadyLiked on the unique (post, user) index.
	Create(ctx context.Context, like *domain.Like) error
	// Delete returns the number of rows removed.
	Delete(ctx context.Context, postID, userID uint) (int64, error)
	Count(ctx context.Context, postID uint) (int64, error)
}

// PostInput is the create/update body. Nil pointers are absent fields.
type PostInput struct {
	Title   *string
	Content *string
	Tags    []string
	SetTags bool
}

type BlogService interface {
	ListPosts(ctx context.Context, f domain.PostFilter) (*domain.Page[*domain.Post], error)
	GetPost(ctx context.Context, id uint) (*domain.Post, error)
	CreatePost(ctx context.Context, actor domain.Principal, in PostInput) (*domain.Post, error)
	UpdatePost(ctx context.Context, actor domain.Principal, id uint, in PostInput, partial bool) (*domain.Post, error)
	DeletePost(ctx context.Context, actor domain.Principal, id uint) error

	ListComments(ctx context.Context, postID uint, page domain.PageRequest) (*domain.Page[*domain.Comment], error)
	GetComment(ctx context.Context, id uint) (*domain.Comment, error)
	AddComment(ctx context.Context, actor domain.Principal, postID uint, content string) (*domain.Comment, error)
	UpdateComment(ctx context.Context, actor domain.Principal, id uint, content string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, actor domain.Principal, id uint) error

	Tags(ctx context.Context) ([]domain.Tag, error)
	PostsByTag(ctx context.Context, slug string, page domain.PageRequest) (*domain.Page[*domain.Post], error)
	Search(ctx context.Context, q string, page domain.PageRequest) (*domain.Page[*domain.Post], error)
}

// LikeResult is returned by like/unlike.
type LikeResult struct {
	LikeID     uint
	LikesCount int64
}

type SocialService interface {
	Feed(ctx context.Context, actor domain.Principal, page domain.PageRequest) (*domain.Page[*domain.Post], error)
	Like(ctx context.Context, actor domain.Principal, postID uint) (*LikeResult, error)
	Unlike(ctx context.Context, actor domain.Principal, postID uint) (*LikeResult, error)
}
