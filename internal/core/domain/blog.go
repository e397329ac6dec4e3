package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxPostTitleLen = 200
	MaxTagNameLen   = 50
	MaxTagSlugLen   = 60
)

type Tag struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int64  `json:"post_count,omitempty"`
}

type Post struct {
	ID           uint        `json:"id"`
	Title        string      `json:"title"`
	Content      string      `json:"content"`
	AuthorID     uint        `json:"author_id"`
	Author       UserSummary `json:"author"`
	Tags         []Tag       `json:"tags"`
	CommentCount int64       `json:"comment_count"`
	LikeCount    int64       `json:"likes_count"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (p *Post) Validate() error {
	v := NewValidationError()
	title := strings.TrimSpace(p.Title)
	switch {
	case title == "":
		v.Add("title", "This field may not be blank.")
	case utf8.RuneCountInString(title) > MaxPostTitleLen:
		v.Add("title", fmt.Sprintf("Ensure this field has no more than %d characters.", MaxPostTitleLen))
	}
	if strings.TrimSpace(p.Content) == "" {
		v.Add("content", "This field may not be blank.")
	}
	return v.OrNil()
}

type Comment struct {
	ID        uint        `json:"id"`
	PostID    uint        `json:"post"`
	AuthorID  uint        `json:"author_id"`
	Author    UserSummary `json:"author"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (c *Comment) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return FieldError("content", "This field may not be blank.")
	}
	return nil
}

type Like struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"post"`
	UserID    uint      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// PostFilter holds the list query for posts.
type PostFilter struct {
	AuthorID  uint
	AuthorIDs []uint // feed: posts by any of these authors
	FeedOnly  bool   // AuthorIDs applies even when empty
	TagSlug   string
	Search    string
	Ordering  []OrderField
	Page      PageRequest
}
