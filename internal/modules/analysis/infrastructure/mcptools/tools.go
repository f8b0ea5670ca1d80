package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"MaintLens/internal/middleware/tenant"
	analysisRequest "MaintLens/internal/modules/analysis/application/dto/request"
	analysisService "MaintLens/internal/modules/analysis/application/service"
	notifRequest "MaintLens/internal/modules/notification/application/dto/request"
	notifService "MaintLens/internal/modules/notification/application/service"
	"MaintLens/internal/modules/notification/domain/entity"
	"MaintLens/pkg/xerr"
	"MaintLens/pkg/zlog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// ServerConfig MCP Server 配置
type ServerConfig struct {
	Name    string
	Version string
}

// ToolDependencies 工具依赖；Entitled 为 nil 时不做功能校验
type ToolDependencies struct {
	NotificationSvc notifService.NotificationService
	AnalysisSvc     analysisService.AnalysisService
	Entitled        func(tenantID, feature string) bool
}

// NewMCPServer 创建 MCP Server 并注册通知与分析工具
func NewMCPServer(conf ServerConfig, deps ToolDependencies) *server.MCPServer {
	s := server.NewMCPServer(conf.Name, conf.Version, server.WithToolCapabilities(true))
	NewToolHandler(deps).RegisterTools(s)
	return s
}

type ToolHandler struct {
	deps ToolDependencies
}

func NewToolHandler(deps ToolDependencies) *ToolHandler {
	return &ToolHandler{deps: deps}
}

func (h *ToolHandler) RegisterTools(s *server.MCPServer) {
	if h.deps.NotificationSvc != nil {
		s.AddTool(mcp.NewTool("get_notification",
			mcp.WithDescription("Read one maintenance notification with damage items, cause, work order, operations and materials."),
			mcp.WithString("id", mcp.Required(), mcp.Description("notification id, 1-20 alphanumeric characters")),
			mcp.WithString("language", mcp.Description("display language: de or en")),
		), h.handleGetNotification)

		s.AddTool(mcp.NewTool("list_notifications",
			mcp.WithDescription("List maintenance notifications, newest first."),
			mcp.WithString("language", mcp.Description("display language: de or en")),
			mcp.WithNumber("page", mcp.Description("page number, starting at 1")),
			mcp.WithNumber("page_size", mcp.Description("items per page, 1-100, default 20")),
		), h.handleListNotifications)
	}

	if h.deps.AnalysisSvc != nil {
		s.AddTool(mcp.NewTool("analyze_text",
			mcp.WithDescription("Score the quality of a maintenance text and list its issues."),
			mcp.WithString("text", mcp.Required(), mcp.Description("text to analyze")),
		), h.handleAnalyzeText)
	}
}

func (h *ToolHandler) handleGetNotification(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	if res := h.checkTenant(ctx, tenant.FeatureNotifications); res != nil {
		return res, nil
	}

	id, _ := args["id"].(string)
	language, _ := args["language"].(string)
	notif, err := h.deps.NotificationSvc.GetNotification(ctx, notifRequest.GetNotificationRequest{
		NotificationId: id,
		Language:       language,
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(notif)
}

func (h *ToolHandler) handleListNotifications(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}
	if res := h.checkTenant(ctx, tenant.FeatureNotifications); res != nil {
		return res, nil
	}

	language, _ := args["language"].(string)
	data, err := h.deps.NotificationSvc.ListNotifications(ctx, notifRequest.ListNotificationsRequest{
		Language: language,
		Page:     intArg(args, "page"),
		PageSize: pageSizeArg(args),
		Paginate: true,
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(data)
}

func (h *ToolHandler) handleAnalyzeText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	if res := h.checkTenant(ctx, tenant.FeatureAnalysis); res != nil {
		return res, nil
	}

	text, _ := args["text"].(string)
	p, _ := tenant.FromContext(ctx)
	res, err := h.deps.AnalysisSvc.AnalyzeText(ctx, analysisRequest.AnalyzeTextRequest{
		Text:     text,
		TenantId: p.TenantId,
		Subject:  p.Subject,
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(res)
}

// checkTenant 返回 nil 表示放行
func (h *ToolHandler) checkTenant(ctx context.Context, feature string) *mcp.CallToolResult {
	p, ok := tenant.FromContext(ctx)
	if !ok || p.TenantId == "" {
		return mcp.NewToolResultError("tenant context missing")
	}
	if h.deps.Entitled != nil && !h.deps.Entitled(p.TenantId, feature) {
		return mcp.NewToolResultError(fmt.Sprintf("feature %s not enabled for tenant", feature))
	}
	return nil
}

func toolError(err error) *mcp.CallToolResult {
	var ce *xerr.CodeError
	if errors.As(err, &ce) {
		return mcp.NewToolResultError(fmt.Sprintf("%d: %s", ce.Code, ce.Message))
	}
	zlog.Error("mcp tool failed", zap.Error(err))
	return mcp.NewToolResultError(xerr.ErrServerError.Message)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

// pageSizeArg 未传 page_size 时取默认分页大小
func pageSizeArg(args map[string]interface{}) int {
	if _, ok := args["page_size"]; !ok {
		return entity.DefaultPageSize
	}
	return intArg(args, "page_size")
}

// intArg JSON 数字解码为 float64
func intArg(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
