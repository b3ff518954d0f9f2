package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/husainf4l/gixat/internal/repository"
	"github.com/husainf4l/gixat/internal/service"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.NotificationListParams{
		OrganizationID: GetOrgID(c),
		UserID:         GetUserID(c),
		UnreadOnly:     c.Query("unread") == "true",
		Page:           page,
		Size:           pageSize,
	}

	notifications, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, ListResponse{
		Items:      notifications,
		Pagination: NewPagination(page, pageSize, total),
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	err := h.svc.MarkRead(c.Request.Context(), GetOrgID(c), GetUserID(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, nil)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.svc.MarkAllRead(c.Request.Context(), GetOrgID(c), GetUserID(c)); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.svc.CountUnread(c.Request.Context(), GetOrgID(c), GetUserID(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"unread": count})
}
