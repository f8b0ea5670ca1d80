package handler

import (
	"MaintLens/internal/modules/notification/application/dto/request"
	"MaintLens/internal/modules/notification/application/service"
	"MaintLens/internal/modules/notification/domain/entity"
	"MaintLens/pkg/back"
	"MaintLens/pkg/xerr"
	"MaintLens/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// GetNotification GET /api/v1/notifications/:id?language=de
func (h *NotificationHandler) GetNotification(c *gin.Context) {
	var req request.GetNotificationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		zlog.Warn("bind notification query failed", zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	req.NotificationId = c.Param("id")

	data, err := h.svc.GetNotification(c.Request.Context(), req)
	back.Result(c, data, err)
}

// ListNotifications GET /api/v1/notifications?language=de&page=1&page_size=20&paginate=true
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	// page_size 缺省取默认值，显式传入的值仍按 [1,100] 限制
	req := request.ListNotificationsRequest{PageSize: entity.DefaultPageSize}
	if err := c.ShouldBindQuery(&req); err != nil {
		zlog.Warn("bind list query failed", zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.ListNotifications(c.Request.Context(), req)
	back.Result(c, data, err)
}
