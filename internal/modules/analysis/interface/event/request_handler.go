package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"MaintLens/internal/middleware/tenant"
	"MaintLens/internal/modules/analysis/application/dto/request"
	"MaintLens/internal/modules/analysis/application/service"
	"MaintLens/internal/modules/analysis/domain/analysis"
	"MaintLens/internal/modules/analysis/infrastructure/mq"
	"MaintLens/pkg/xerr"
	"MaintLens/pkg/zlog"

	"go.uber.org/zap"
)

// EntitlementFunc 判断租户是否开通某功能，生产环境为 config.Entitled
type EntitlementFunc func(tenantID, feature string) bool

// AnalysisRequestHandler 消费 requestTopic 上的异步分析请求。
// 格式错误、业务上无法处理的消息直接确认丢弃；基础设施故障返回错误，不确认。
type AnalysisRequestHandler struct {
	svc      service.AnalysisService
	entitled EntitlementFunc
}

func NewAnalysisRequestHandler(svc service.AnalysisService, entitled EntitlementFunc) *AnalysisRequestHandler {
	return &AnalysisRequestHandler{svc: svc, entitled: entitled}
}

func (h *AnalysisRequestHandler) Handle(ctx context.Context, msg mq.Message) error {
	var req analysis.Request
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		zlog.Warn("drop malformed analysis request", zap.String("topic", msg.Topic), zap.Error(err))
		return nil
	}
	req.NotificationId = strings.TrimSpace(req.NotificationId)
	req.Tenant = strings.TrimSpace(req.Tenant)
	if req.NotificationId == "" || req.Tenant == "" {
		zlog.Warn("drop incomplete analysis request",
			zap.String("notification_id", req.NotificationId),
			zap.String("tenant", req.Tenant))
		return nil
	}
	if h.entitled != nil && !h.entitled(req.Tenant, tenant.FeatureAnalysis) {
		zlog.Warn("drop analysis request for unentitled tenant", zap.String("tenant", req.Tenant))
		return nil
	}

	res, err := h.svc.AnalyzeNotification(ctx, request.AnalyzeNotificationRequest{
		NotificationId: req.NotificationId,
		Language:       req.Language,
		TenantId:       req.Tenant,
		Subject:        "kafka:" + msg.Topic,
	})
	if err != nil {
		var ce *xerr.CodeError
		if errors.As(err, &ce) && (ce.Code == xerr.BadRequest || ce.Code == xerr.NotFound) {
			zlog.Warn("drop analysis request",
				zap.String("notification_id", req.NotificationId),
				zap.Int("code", ce.Code),
				zap.String("reason", ce.Message))
			return nil
		}
		return fmt.Errorf("analyze notification %s: %w", req.NotificationId, err)
	}

	zlog.Info("async analysis done",
		zap.String("notification_id", res.NotificationId),
		zap.String("tenant", req.Tenant),
		zap.Int("score", res.Result.Score),
		zap.Bool("fallback", res.Result.Fallback))
	return nil
}
