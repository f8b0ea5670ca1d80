package respond

import "time"

type AnalysisRespond struct {
	Score     int      `json:"score"`
	Issues    []string `json:"issues"`
	Summary   string   `json:"summary"`
	Fallback  bool     `json:"fallback"`
	CacheHit  bool     `json:"cache_hit"`
	Provider  string   `json:"provider"`
	Model     string   `json:"model"`
	LatencyMs int64    `json:"latency_ms"`
}

type NotificationAnalysisRespond struct {
	NotificationId string          `json:"notification_id"`
	Language       string          `json:"language"`
	Source         string          `json:"source"` // long_text / short_text
	Result         AnalysisRespond `json:"result"`
}

type AnalysisLogItem struct {
	Id             string    `json:"id"`
	TenantId       string    `json:"tenant_id"`
	Subject        string    `json:"subject"`
	NotificationId string    `json:"notification_id"`
	Language       string    `json:"language"`
	TextHash       string    `json:"text_hash"`
	Score          int       `json:"score"`
	Issues         []string  `json:"issues"`
	Summary        string    `json:"summary"`
	Fallback       bool      `json:"fallback"`
	Provider       string    `json:"provider"`
	Model          string    `json:"model"`
	LatencyMs      int64     `json:"latency_ms"`
	CreatedAt      time.Time `json:"created_at"`
}
