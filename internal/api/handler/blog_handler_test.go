package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

func TestBlogHandler_ListPosts_Filters(t *testing.T) {
	stub := &stubBlogService{
		listPostsFn: func(ctx context.Context, f domain.PostFilter) (*domain.Page[*domain.Post], error) {
			if f.AuthorID != 3 || f.TagSlug != "go" || f.Search != "generics" {
				t.Fatalf("unexpected filter: %+v", f)
			}
			if len(f.Ordering) != 1 || f.Ordering[0] != (domain.OrderField{Field: "created_at", Desc: true}) {
				t.Fatalf("expected newest first, got %+v", f.Ordering)
			}
			return onePage(&domain.Post{
				ID:     1,
				Title:  "Generics in practice",
				Author: domain.UserSummary{ID: 3, Username: "carol"},
				Tags:   []domain.Tag{{ID: 1, Name: "Go", Slug: "go"}},
			}), nil
		},
	}
	h := NewBlogHandler(stub, testPaging)

	c, rec := newContext(http.MethodGet, "/api/posts?author=3&tag=go&search=generics", "")
	if err := h.ListPosts(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data, _ := decode(t, rec)["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("expected one post, got %v", data)
	}
	post := data[0].(map[string]any)
	tags, _ := post["tags"].([]any)
	if len(tags) != 1 {
		t.Fatalf("expected one tag, got %v", post["tags"])
	}
	if _, ok := tags[0].(map[string]any)["post_count"]; ok {
		t.Fatalf("post_count is only rendered on the tag list")
	}
}

func TestBlogHandler_CreatePost_RequiresClaims(t *testing.T) {
	h := NewBlogHandler(&stubBlogService{}, testPaging)

	c, _ := newContext(http.MethodPost, "/api/posts", `{"title":"t","content":"c"}`)
	if err := h.CreatePost(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestBlogHandler_UpdatePost_Tags(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setTags  bool
		wantTags int
	}{
		{name: "tags omitted", body: `{"title":"New title"}`, setTags: false},
		{name: "tags cleared", body: `{"title":"New title","tags":[]}`, setTags: true},
		{name: "tags replaced", body: `{"title":"New title","tags":["go","web"]}`, setTags: true, wantTags: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubBlogService{
				updatePostFn: func(ctx context.Context, actor domain.Principal, id uint, in ports.PostInput, partial bool) (*domain.Post, error) {
					if !partial {
						t.Fatalf("PATCH must be partial")
					}
					if in.SetTags != tt.setTags || len(in.Tags) != tt.wantTags {
						t.Fatalf("unexpected tags input: %+v", in)
					}
					if in.Content != nil {
						t.Fatalf("content was not sent")
					}
					return &domain.Post{ID: id, Title: *in.Title, AuthorID: actor.UserID}, nil
				},
			}
			h := NewBlogHandler(stub, testPaging)

			c, _ := newContext(http.MethodPatch, "/api/posts/5", tt.body)
			withPrincipal(c, alice)
			withParams(c, "id", "5")
			if err := h.UpdatePost(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
		})
	}
}

func TestBlogHandler_DeletePost_Forbidden(t *testing.T) {
	h := NewBlogHandler(&stubBlogService{}, testPaging)

	c, _ := newContext(http.MethodDelete, "/api/posts/5", "")
	withPrincipal(c, alice)
	withParams(c, "id", "5")
	if err := h.DeletePost(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestBlogHandler_AddComment(t *testing.T) {
	stub := &stubBlogService{
		addCommentFn: func(ctx context.Context, actor domain.Principal, postID uint, content string) (*domain.Comment, error) {
			if actor.UserID != alice.UserID || postID != 5 || content != "Nice post" {
				t.Fatalf("unexpected args: %d %d %q", actor.UserID, postID, content)
			}
			return &domain.Comment{ID: 8, PostID: postID, Content: content, Author: domain.UserSummary{ID: 1, Username: "alice"}}, nil
		},
	}
	h := NewBlogHandler(stub, testPaging)

	c, rec := newContext(http.MethodPost, "/api/posts/5/comments", `{"content":"Nice post"}`)
	withPrincipal(c, alice)
	withParams(c, "id", "5")
	if err := h.AddComment(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decode(t, rec)
	author, _ := resp["author"].(map[string]any)
	if resp["post"] != float64(5) || author["username"] != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestBlogHandler_AddComment_Blank(t *testing.T) {
	stub := &stubBlogService{
		addCommentFn: func(ctx context.Context, actor domain.Principal, postID uint, content string) (*domain.Comment, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewBlogHandler(stub, testPaging)

	c, _ := newContext(http.MethodPost, "/api/posts/5/comments", `{"content":""}`)
	withPrincipal(c, alice)
	withParams(c, "id", "5")
	if fields := fieldErrors(t, h.AddComment(c)); len(fields["content"]) != 1 {
		t.Fatalf("expected a content error, got %v", fields)
	}
}

func TestBlogHandler_Tags_IncludesPostCount(t *testing.T) {
	stub := &stubBlogService{
		tagsFn: func(ctx context.Context) ([]domain.Tag, error) {
			return []domain.Tag{{ID: 1, Name: "Go", Slug: "go", PostCount: 3}, {ID: 2, Name: "Empty", Slug: "empty"}}, nil
		},
	}
	h := NewBlogHandler(stub, testPaging)

	c, rec := newContext(http.MethodGet, "/api/tags", "")
	if err := h.Tags(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := rec.Body.String(); !containsAll(body, `"post_count":3`, `"post_count":0`) {
		t.Fatalf("expected post counts for every tag, got %s", body)
	}
}

func TestBlogHandler_PostsByTag_Unknown(t *testing.T) {
	h := NewBlogHandler(&stubBlogService{}, testPaging)

	c, _ := newContext(http.MethodGet, "/api/tags/nope/posts", "")
	withParams(c, "slug", "nope")
	if err := h.PostsByTag(c); !errors.Is(err, domain.ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound, got %v", err)
	}
}

func TestBlogHandler_Search_TrimsQuery(t *testing.T) {
	stub := &stubBlogService{
		searchFn: func(ctx context.Context, q string, page domain.PageRequest) (*domain.Page[*domain.Post], error) {
			if q != "django" {
				t.Fatalf("expected trimmed query, got %q", q)
			}
			return onePage[*domain.Post](), nil
		},
	}
	h := NewBlogHandler(stub, testPaging)

	c, rec := newContext(http.MethodGet, "/api/search?q=++django++", "")
	if err := h.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if data, _ := decode(t, rec)["data"].([]any); data == nil || len(data) != 0 {
		t.Fatalf("expected an empty data array, got %v", data)
	}
}
