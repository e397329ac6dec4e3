package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

var postOrderFields = map[string]bool{"created_at": true, "updated_at": true, "title": true}

// BlogHandler serves posts, comments, tags and search.
type BlogHandler struct {
	service ports.BlogService
	paging  Paging
}

func NewBlogHandler(service ports.BlogService, paging Paging) *BlogHandler {
	return &BlogHandler{service: service, paging: paging}
}

// ListPosts handles GET /api/posts.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        author     query     int     false  "Author id"
// @Param        tag        query     string  false  "Tag slug"
// @Param        search     query     string  false  "Search title, content and tags"
// @Param        ordering   query     string  false  "e.g. -created_at"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  pageResponse[postResponse]
// @Failure      400        {object}  errorResponse
// @Router       /api/posts [get]
func (h *BlogHandler) ListPosts(c echo.Context) error {
	q := newQueryParser(c)
	f := domain.PostFilter{
		AuthorID: q.uint("author"),
		TagSlug:  q.str("tag"),
		Search:   q.str("search"),
		Ordering: domain.ParseOrdering(q.str("ordering"), postOrderFields, domain.OrderField{Field: "created_at", Desc: true}),
	}
	if err := q.err(); err != nil {
		return err
	}
	page, err := h.paging.request(c)
	if err != nil {
		return err
	}
	f.Page = page

	posts, err := h.service.ListPosts(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(posts, toPostResponse))
}

// GetPost handles GET /api/posts/:id.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post id"
// @Success      200  {object}  postResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/{id} [get]
func (h *BlogHandler) GetPost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.service.GetPost(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// CreatePost handles POST /api/posts; the caller becomes the author.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postRequest  true  "Post"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/posts [post]
func (h *BlogHandler) CreatePost(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req postRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	post, err := h.service.CreatePost(c.Request().Context(), p, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPostResponse(post))
}

// UpdatePost handles PUT and PATCH /api/posts/:id. Owner only.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Post id"
// @Param        body  body      postRequest  true  "Post"
// @Success      200   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/posts/{id} [put]
func (h *BlogHandler) UpdatePost(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req postRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	partial := c.Request().Method == http.MethodPatch
	post, err := h.service.UpdatePost(c.Request().Context(), p, id, req.input(), partial)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// DeletePost handles DELETE /api/posts/:id. Owner only.
//
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id  path  int  true  "Post id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/{id} [delete]
func (h *BlogHandler) DeletePost(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeletePost(c.Request().Context(), p, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (r postRequest) input() ports.PostInput {
	return ports.PostInput{Title: r.Title, Content: r.Content, Tags: r.Tags, SetTags: r.Tags != nil}
}

// ListPostComments handles GET /api/posts/:id/comments, oldest first.
//
// @Summary      List comments on a post
// @Tags         comments
// @Produce      json
// @Param        id         path      int  true   "Post id"
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  pageResponse[commentResponse]
// @Failure      404        {object}  errorResponse
// @Router       /api/posts/{id}/comments [get]
func (h *BlogHandler) ListPostComments(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	return h.listComments(c, id)
}

// ListComments handles GET /api/comments.
//
// @Summary      List all comments
// @Tags         comments
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  pageResponse[commentResponse]
// @Router       /api/comments [get]
func (h *BlogHandler) ListComments(c echo.Context) error {
	return h.listComments(c, 0)
}

func (h *BlogHandler) listComments(c echo.Context, postID uint) error {
	page, err := h.paging.request(c)
	if err != nil {
		return err
	}
	comments, err := h.service.ListComments(c.Request().Context(), postID, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(comments, toCommentResponse))
}

// AddComment handles POST /api/posts/:id/comments.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Post id"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      201   {object}  commentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/posts/{id}/comments [post]
func (h *BlogHandler) AddComment(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	comment, err := h.service.AddComment(c.Request().Context(), p, id, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// GetComment handles GET /api/comments/:id.
//
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Param        id   path      int  true  "Comment id"
// @Success      200  {object}  commentResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/comments/{id} [get]
func (h *BlogHandler) GetComment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	comment, err := h.service.GetComment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

// UpdateComment handles PUT and PATCH /api/comments/:id. Owner only.
//
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Comment id"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      200   {object}  commentResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/comments/{id} [put]
func (h *BlogHandler) UpdateComment(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	comment, err := h.service.UpdateComment(c.Request().Context(), p, id, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

// DeleteComment handles DELETE /api/comments/:id. Owner only.
//
// @Summary      Delete a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        id  path  int  true  "Comment id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/comments/{id} [delete]
func (h *BlogHandler) DeleteComment(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteComment(c.Request().Context(), p, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Tags handles GET /api/tags.
//
// @Summary      List tags with post counts
// @Tags         tags
// @Produce      json
// @Success      200  {array}  tagResponse
// @Router       /api/tags [get]
func (h *BlogHandler) Tags(c echo.Context) error {
	tags, err := h.service.Tags(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		resp := toTagResponse(t)
		count := t.PostCount
		resp.PostCount = &count
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, out)
}

// PostsByTag handles GET /api/tags/:slug/posts.
//
// @Summary      Posts with a tag
// @Tags         tags
// @Produce      json
// @Param        slug       path      string  true   "Tag slug"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  pageResponse[postResponse]
// @Failure      404        {object}  errorResponse
// @Router       /api/tags/{slug}/posts [get]
func (h *BlogHandler) PostsByTag(c echo.Context) error {
	page, err := h.paging.request(c)
	if err != nil {
		return err
	}
	posts, err := h.service.PostsByTag(c.Request().Context(), c.Param("slug"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(posts, toPostResponse))
}

// Search handles GET /api/search?q=.
//
// @Summary      Search posts by title, content or tag
// @Tags         posts
// @Produce      json
// @Param        q          query     string  false  "Query"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  pageResponse[postResponse]
// @Router       /api/search [get]
func (h *BlogHandler) Search(c echo.Context) error {
	page, err := h.paging.request(c)
	if err != nil {
		return err
	}
	posts, err := h.service.Search(c.Request().Context(), strings.TrimSpace(c.QueryParam("q")), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(posts, toPostResponse))
}
