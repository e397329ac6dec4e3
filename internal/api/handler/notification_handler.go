package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/api/internal/core/ports"
)

type NotificationHandler struct {
	service ports.NotificationService
	paging  Paging
}

func NewNotificationHandler(service ports.NotificationService, paging Paging) *NotificationHandler {
	return &NotificationHandler{service: service, paging: paging}
}

// List handles GET /api/notifications: unread first, then newest.
//
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  pageResponse[notificationResponse]
// @Failure      401        {object}  errorResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	page, err := h.paging.request(c)
	if err != nil {
		return err
	}
	notes, err := h.service.List(c.Request().Context(), p.UserID, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(notes, toNotificationResponse))
}

// MarkAsRead handles POST /api/notifications/:id/mark_as_read.
//
// @Summary      Mark one notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification id"
// @Success      200  {object}  statusResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/notifications/{id}/mark_as_read [post]
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.MarkAsRead(c.Request().Context(), p.UserID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "notification marked as read"})
}

// MarkAllAsRead handles POST /api/notifications/mark_all_as_read.
//
// @Summary      Mark all my notifications as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  markAllResponse
// @Router       /api/notifications/mark_all_as_read [post]
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	n, err := h.service.MarkAllAsRead(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, markAllResponse{Status: "all notifications marked as read", Updated: n})
}

// UnreadCount handles GET /api/notifications/unread_count.
//
// @Summary      Count unread notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  unreadCountResponse
// @Router       /api/notifications/unread_count [get]
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	n, err := h.service.UnreadCount(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, unreadCountResponse{UnreadCount: n})
}
