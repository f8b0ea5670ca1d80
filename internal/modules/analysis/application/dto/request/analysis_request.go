package request

// AnalyzeTextRequest POST /api/v1/analysis/text
type AnalyzeTextRequest struct {
	Text string `json:"text" binding:"required"`

	// 以下由中间件填充
	TenantId string `json:"-"`
	Subject  string `json:"-"`
}

// AnalyzeNotificationRequest POST /api/v1/notifications/:id/analyze
type AnalyzeNotificationRequest struct {
	NotificationId string `json:"-"`
	Language       string `form:"language" json:"language"`

	TenantId string `json:"-"`
	Subject  string `json:"-"`
}

// ListAnalysisLogsRequest GET /api/v1/analysis/logs
type ListAnalysisLogsRequest struct {
	NotificationId string `form:"notification_id"`
	Limit          int    `form:"limit"`

	TenantId string `json:"-"`
}
