package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/theline-social/theline/internal/api/middleware"
	"github.com/theline-social/theline/pkg/response"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	page, limit := pageQuery(c)
	items, err := h.Notifications.Page(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "notifications": items})
}

func (h *Handler) UnseenNotificationsCount(c *gin.Context) {
	cnt, err := h.Notifications.UnseenCount(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"count": cnt})
}

func (h *Handler) MarkNotificationsSeen(c *gin.Context) {
	if err := h.Notifications.MarkAllSeen(c.Request.Context(), middleware.UserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "notifications marked seen", nil)
}
