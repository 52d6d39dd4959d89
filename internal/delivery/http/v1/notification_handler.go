package v1

import (
	"net/http"

	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUC domain.NotificationUsecase
}

func NewNotificationHandler(r *gin.RouterGroup, writes gin.HandlerFunc, notificationUC domain.NotificationUsecase) {
	handler := &NotificationHandler{notificationUC: notificationUC}

	notifications := r.Group("/notifications")
	{
		notifications.GET("", handler.List)
		notifications.GET("/count", handler.CountUnread)
		notifications.POST("/read", writes, handler.MarkRead)
		notifications.DELETE("/:id", writes, handler.Delete)
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	notifications, err := h.notificationUC.List(c.Request.Context(), profileID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.List(c, http.StatusOK, "Notifications", notifications)
}

func (h *NotificationHandler) CountUnread(c *gin.Context) {
	count, err := h.notificationUC.CountUnread(c.Request.Context(), profileID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Unread notifications", gin.H{"unread": count})
}

// MarkRead stamps read_at on the listed ids, or on the whole inbox when the
// body is empty.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req domain.MarkReadInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperror.BadRequest("Invalid request body"))
			return
		}
	}

	updated, err := h.notificationUC.MarkRead(c.Request.Context(), profileID(c), req.IDs)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Notifications marked as read", gin.H{"updated": updated})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.notificationUC.Delete(c.Request.Context(), profileID(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Notification deleted", nil)
}
