package handler

import (
	"MaintLens/internal/middleware/jwt"
	"MaintLens/internal/middleware/tenant"
	"MaintLens/internal/modules/analysis/application/dto/request"
	"MaintLens/internal/modules/analysis/application/service"
	"MaintLens/pkg/back"
	"MaintLens/pkg/xerr"
	"MaintLens/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnalysisHandler struct {
	svc service.AnalysisService
}

func NewAnalysisHandler(svc service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

// AnalyzeText POST /api/v1/analysis/text
//
//	{"text": "Pumpe P-101 undicht ..."}
func (h *AnalysisHandler) AnalyzeText(c *gin.Context) {
	var req request.AnalyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zlog.Warn("bind analyze text failed", zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	req.TenantId = c.GetString(tenant.CtxTenantId)
	req.Subject = c.GetString(jwt.CtxUsername)

	data, err := h.svc.AnalyzeText(c.Request.Context(), req)
	back.Result(c, data, err)
}

// AnalyzeNotification POST /api/v1/notifications/:id/analyze?language=de
func (h *AnalysisHandler) AnalyzeNotification(c *gin.Context) {
	var req request.AnalyzeNotificationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	req.NotificationId = c.Param("id")
	req.TenantId = c.GetString(tenant.CtxTenantId)
	req.Subject = c.GetString(jwt.CtxUsername)

	data, err := h.svc.AnalyzeNotification(c.Request.Context(), req)
	back.Result(c, data, err)
}

// ListLogs GET /api/v1/analysis/logs?notification_id=&limit=
func (h *AnalysisHandler) ListLogs(c *gin.Context) {
	var req request.ListAnalysisLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	req.TenantId = c.GetString(tenant.CtxTenantId)

	data, err := h.svc.ListLogs(c.Request.Context(), req)
	back.Result(c, data, err)
}
