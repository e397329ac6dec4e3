package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/api/internal/core/ports"
)

// SocialHandler serves the feed and likes.
type SocialHandler struct {
	service ports.SocialService
	paging  Paging
}

func NewSocialHandler(service ports.SocialService, paging Paging) *SocialHandler {
	return &SocialHandler{service: service, paging: paging}
}

// Feed handles GET /api/feed.
//
// @Summary      Posts by followed users, newest first
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  pageResponse[postResponse]
// @Failure      401        {object}  errorResponse
// @Router       /api/feed [get]
func (h *SocialHandler) Feed(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	page, err := h.paging.request(c)
	if err != nil {
		return err
	}
	posts, err := h.service.Feed(c.Request().Context(), p, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(posts, toPostResponse))
}

// Like handles POST /api/posts/:id/like.
//
// @Summary      Like a post
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post id"
// @Success      201  {object}  likeResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/{id}/like [post]
func (h *SocialHandler) Like(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.service.Like(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, likeResponse{
		Message:    "Post liked successfully",
		LikeID:     res.LikeID,
		LikesCount: res.LikesCount,
	})
}

// Unlike handles DELETE /api/posts/:id/like.
//
// @Summary      Remove a like
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post id"
// @Success      200  {object}  likeResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/{id}/like [delete]
func (h *SocialHandler) Unlike(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.service.Unlike(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likeResponse{
		Message:    "Post unliked successfully",
		LikesCount: res.LikesCount,
	})
}
