package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"

	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

// BlogService implements posts, comments and tags.
type BlogService struct {
	posts    ports.PostRepository
	comments ports.CommentRepository
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewBlogService(posts ports.PostRepository, comments ports.CommentRepository, notifier ports.Notifier, log zerolog.Logger) *BlogService {
	return &BlogService{posts: posts, comments: comments, notifier: notifier, log: log}
}

func (s *BlogService) ListPosts(ctx context.Context, f domain.PostFilter) (*domain.Page[*domain.Post], error) {
	posts, total, err := s.posts.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(posts, total, f.Page)
}

func (s *BlogService) GetPost(ctx context.Context, id uint) (*domain.Post, error) {
	return s.posts.FindByID(ctx, id)
}

func (s *BlogService) CreatePost(ctx context.Context, actor domain.Principal, in ports.PostInput) (*domain.Post, error) {
	p := &domain.Post{AuthorID: actor.UserID}
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	tags, tagErr := normalizeTags(in.Tags)
	p.Tags = tags
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if tagErr != nil {
		return nil, tagErr
	}

	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Uint("post_id", p.ID).Uint("author_id", p.AuthorID).Msg("post created")
	return s.posts.FindByID(ctx, p.ID)
}

func (s *BlogService) UpdatePost(ctx context.Context, actor domain.Principal, id uint, in ports.PostInput, partial bool) (*domain.Post, error) {
	p, err := s.ownedPost(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !partial {
		v := domain.NewValidationError()
		if in.Title == nil {
			v.Add("title", "This field is required.")
		}
		if in.Content == nil {
			v.Add("content", "This field is required.")
		}
		if err := v.OrNil(); err != nil {
			return nil, err
		}
	}
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var tags []domain.Tag
	if in.SetTags || !partial {
		if tags, err = normalizeTags(in.Tags); err != nil {
			return nil, err
		}
		if tags == nil {
			tags = []domain.Tag{}
		}
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.posts.Update(ctx, p, tags); err != nil {
		return nil, err
	}
	return s.posts.FindByID(ctx, id)
}

func (s *BlogService) DeletePost(ctx context.Context, actor domain.Principal, id uint) error {
	if _, err := s.ownedPost(ctx, actor, id); err != nil {
		return err
	}
	return s.posts.Delete(ctx, id)
}

func (s *BlogService) ListComments(ctx context.Context, postID uint, page domain.PageRequest) (*domain.Page[*domain.Comment], error) {
	if postID != 0 {
		if _, err := s.posts.FindByID(ctx, postID); err != nil {
			return nil, err
		}
	}
	comments, total, err := s.comments.List(ctx, postID, page)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(comments, total, page)
}

func (s *BlogService) GetComment(ctx context.Context, id uint) (*domain.Comment, error) {
	return s.comments.FindByID(ctx, id)
}

// AddComment stores the comment and notifies the post author.
func (s *BlogService) AddComment(ctx context.Context, actor domain.Principal, postID uint, content string) (*domain.Comment, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	c := &domain.Comment{PostID: post.ID, AuthorID: actor.UserID, Content: content}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}

	s.notifier.Notify(ports.NotificationInput{
		RecipientID:    post.AuthorID,
		ActorID:        actor.UserID,
		Verb:           domain.VerbComment,
		TargetType:     domain.TargetPost,
		TargetObjectID: post.ID,
		OccurredAt:     time.Now().UTC(),
	})
	return s.comments.FindByID(ctx, c.ID)
}

func (s *BlogService) UpdateComment(ctx context.Context, actor domain.Principal, id uint, content string) (*domain.Comment, error) {
	c, err := s.ownedComment(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	c.Content = content
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.comments.FindByID(ctx, id)
}

func (s *BlogService) DeleteComment(ctx context.Context, actor domain.Principal, id uint) error {
	if _, err := s.ownedComment(ctx, actor, id); err != nil {
		return err
	}
	return s.comments.Delete(ctx, id)
}

func (s *BlogService) Tags(ctx context.Context) ([]domain.Tag, error) {
	return s.posts.Tags(ctx)
}

func (s *BlogService) PostsByTag(ctx context.Context, tagSlug string, page domain.PageRequest) (*domain.Page[*domain.Post], error) {
	tag, err := s.posts.FindTagBySlug(ctx, tagSlug)
	if err != nil {
		return nil, err
	}
	return s.ListPosts(ctx, domain.PostFilter{
		TagSlug:  tag.Slug,
		Ordering: []domain.OrderField{{Field: "created_at", Desc: true}},
		Page:     page,
	})
}

// Search matches title, content and tag names. An empty query yields an
// empty page rather than every post.
func (s *BlogService) Search(ctx context.Context, q string, page domain.PageRequest) (*domain.Page[*domain.Post], error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return domain.NewPage[*domain.Post](nil, 0, page)
	}
	return s.ListPosts(ctx, domain.PostFilter{
		Search:   q,
		Ordering: []domain.OrderField{{Field: "created_at", Desc: true}},
		Page:     page,
	})
}

func (s *BlogService) ownedPost(ctx context.Context, actor domain.Principal, id uint) (*domain.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (s *BlogService) ownedComment(ctx context.Context, actor domain.Principal, id uint) (*domain.Comment, error) {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

// normalizeTags slugifies names and drops blanks and duplicates. Names and
// slugs must fit the tags table columns.
func normalizeTags(names []string) ([]domain.Tag, error) {
	var tags []domain.Tag
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if utf8.RuneCountInString(n) > domain.MaxTagNameLen {
			return nil, domain.FieldError("tags", fmt.Sprintf("Ensure this field has no more than %d characters.", domain.MaxTagNameLen))
		}
		s := slug.Make(n)
		if s == "" || seen[s] {
			continue
		}
		if utf8.RuneCountInString(s) > domain.MaxTagSlugLen {
			return nil, domain.FieldError("tags", fmt.Sprintf("Tag %q is too long once converted to a slug.", n))
		}
		seen[s] = true
		tags = append(tags, domain.Tag{Name: n, Slug: s})
	}
	return tags, nil
}
