package sqldb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

var postOrderColumns = map[string]string{
	"created_at": "posts.created_at",
	"updated_at": "posts.updated_at",
	"title":      "posts.title",
	"id":         "posts.id",
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a gorm-backed PostRepository.
func NewPostRepository(db *gorm.DB) ports.PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, p *domain.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := &PostModel{}
		model.FromDomain(p)
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		if err := replaceTags(tx, model.ID, p.Tags); err != nil {
			return err
		}
		p.ID, p.CreatedAt, p.UpdatedAt = model.ID, model.CreatedAt, model.UpdatedAt
		return nil
	})
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*domain.Post, error) {
	var model PostModel
	if err := r.db.WithContext(ctx).Preload("Author").Preload("Tags").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	posts, err := r.withCounts(ctx, []PostModel{model})
	if err != nil {
		return nil, err
	}
	return posts[0], nil
}

func (r *postRepository) Update(ctx context.Context, p *domain.Post, tags []domain.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&PostModel{ID: p.ID}).Updates(map[string]interface{}{
			"title":   p.Title,
			"content": p.Content,
		}).Error
		if err != nil {
			return fmt.Errorf("update post: %w", err)
		}
		if tags == nil {
			return nil
		}
		return replaceTags(tx, p.ID, tags)
	})
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dep := range []interface{}{&PostTagModel{}, &CommentModel{}, &LikeModel{}} {
			if err := tx.Where("post_id = ?", id).Delete(dep).Error; err != nil {
				return fmt.Errorf("delete post dependents: %w", err)
			}
		}
		if err := tx.Delete(&PostModel{}, id).Error; err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
}

func (r *postRepository) List(ctx context.Context, f domain.PostFilter) ([]*domain.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&PostModel{})

	if f.AuthorID != 0 {
		q = q.Where("posts.author_id = ?", f.AuthorID)
	}
	if f.FeedOnly {
		if len(f.AuthorIDs) == 0 {
			return []*domain.Post{}, 0, nil
		}
		q = q.Where("posts.author_id IN ?", f.AuthorIDs)
	}
	if f.TagSlug != "" {
		tagged := r.db.Model(&PostTagModel{}).Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", f.TagSlug)
		q = q.Where("posts.id IN (?)", tagged)
	}
	if f.Search != "" {
		p := containsPattern(f.Search)
		byTag := r.db.Model(&PostTagModel{}).Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where(ilike("tags.name"), p)
		q = q.Where("("+ilike("posts.title")+" OR "+ilike("posts.content")+" OR posts.id IN (?))", p, p, byTag)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	ordering := f.Ordering
	if len(ordering) == 0 {
		ordering = []domain.OrderField{{Field: "created_at", Desc: true}}
	}

	var models []PostModel
	err := paginate(applyOrdering(q.Preload("Author").Preload("Tags"), ordering, postOrderColumns, "posts.id"), f.Page).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	posts, err := r.withCounts(ctx, models)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

type postCount struct {
	PostID uint
	N      int64
}

// withCounts converts models and fills comment and like counts in two
// grouped queries.
func (r *postRepository) withCounts(ctx context.Context, models []PostModel) ([]*domain.Post, error) {
	posts := make([]*domain.Post, 0, len(models))
	if len(models) == 0 {
		return posts, nil
	}

	ids := make([]uint, 0, len(models))
	for i := range models {
		ids = append(ids, models[i].ID)
	}

	count := func(model interface{}) (map[uint]int64, error) {
		var rows []postCount
		err := r.db.WithContext(ctx).Model(model).
			Select("post_id, COUNT(*) AS n").
			Where("post_id IN ?", ids).
			Group("post_id").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		out := make(map[uint]int64, len(rows))
		for _, row := range rows {
			out[row.PostID] = row.N
		}
		return out, nil
	}

	comments, err := count(&CommentModel{})
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	likes, err := count(&LikeModel{})
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}

	for i := range models {
		p := models[i].ToDomain()
		p.CommentCount = comments[p.ID]
		p.LikeCount = likes[p.ID]
		posts = append(posts, p)
	}
	return posts, nil
}

func (r *postRepository) Tags(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	err := r.db.WithContext(ctx).Model(&TagModel{}).
		Select("tags.id, tags.name, tags.slug, COUNT(post_tags.post_id) AS post_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Group("tags.id, tags.name, tags.slug").
		Order("tags.name").
		Scan(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	return tags, nil
}

func (r *postRepository) FindTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	var model TagModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTagNotFound
		}
		return nil, fmt.Errorf("find tag: %w", err)
	}
	t := model.ToDomain()
	return &t, nil
}

// replaceTags resolves tags by slug, creating missing ones, and makes them
// the post's whole tag set.
func replaceTags(tx *gorm.DB, postID uint, tags []domain.Tag) error {
	if err := tx.Where("post_id = ?", postID).Delete(&PostTagModel{}).Error; err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}
	for _, t := range tags {
		model := TagModel{}
		if err := tx.Where(TagModel{Slug: t.Slug}).Attrs(TagModel{Name: t.Name}).FirstOrCreate(&model).Error; err != nil {
			return fmt.Errorf("resolve tag %q: %w", t.Slug, err)
		}
		link := &PostTagModel{PostID: postID, TagID: model.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(link).Error; err != nil {
			return fmt.Errorf("link tag %q: %w", t.Slug, err)
		}
	}
	return nil
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a gorm-backed CommentRepository.
func NewCommentRepository(db *gorm.DB) ports.CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	model := &CommentModel{PostID: c.PostID, AuthorID: c.AuthorID, Content: c.Content}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	c.ID, c.CreatedAt, c.UpdatedAt = model.ID, model.CreatedAt, model.UpdatedAt
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*domain.Comment, error) {
	var model CommentModel
	if err := r.db.WithContext(ctx).Preload("Author").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *commentRepository) Update(ctx context.Context, c *domain.Comment) error {
	if err := r.db.WithContext(ctx).Model(&CommentModel{ID: c.ID}).Update("content", c.Content).Error; err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&CommentModel{}, id).Error; err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (r *commentRepository) List(ctx context.Context, postID uint, page domain.PageRequest) ([]*domain.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&CommentModel{})
	if postID != 0 {
		q = q.Where("post_id = ?", postID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	var models []CommentModel
	if err := paginate(q.Preload("Author").Order("created_at").Order("id"), page).Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]*domain.Comment, 0, len(models))
	for i := range models {
		comments = append(comments, models[i].ToDomain())
	}
	return comments, total, nil
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a gorm-backed LikeRepository.
func NewLikeRepository(db *gorm.DB) ports.LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, l *domain.Like) error {
	model := &LikeModel{PostID: l.PostID, UserID: l.UserID, CreatedAt: l.CreatedAt}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyLiked
		}
		return fmt.Errorf("create like: %w", err)
	}
	l.ID = model.ID
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, postID, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&LikeModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete like: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *likeRepository) Count(ctx context.Context, postID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&LikeModel{}).Where("post_id = ?", postID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}
