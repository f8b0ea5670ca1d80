package analysis

import (
	"errors"
	"time"
)

// 兜底结果文案，模型回复无法解析时原样返回给调用方
const (
	FallbackIssueUnprocessed = "model response could not be processed"
	FallbackIssueFormat      = "unexpected format"
	FallbackSummary          = "no summary possible"
)

var (
	// ErrMissingCredential 未配置模型 API Key，必须在发起网络调用之前返回
	ErrMissingCredential = errors.New("model api credential not configured")
	// ErrProvider 模型调用失败（超时、连接失败、配额拒绝）
	ErrProvider = errors.New("model provider call failed")
)

// Result 一次质量分析的结构化结果
type Result struct {
	Score   int      `json:"score"`
	Issues  []string `json:"issues"`
	Summary string   `json:"summary"`
}

// FallbackResult 返回固定的兜底结果；每次返回新切片，调用方可以随意修改
func FallbackResult() Result {
	return Result{
		Score:   0,
		Issues:  []string{FallbackIssueUnprocessed, FallbackIssueFormat},
		Summary: FallbackSummary,
	}
}

// IsFallback 判断结果是否为兜底结果
func (r Result) IsFallback() bool {
	return r.Score == 0 &&
		r.Summary == FallbackSummary &&
		len(r.Issues) == 2 &&
		r.Issues[0] == FallbackIssueUnprocessed &&
		r.Issues[1] == FallbackIssueFormat
}

// Outcome 编排器的完整输出，除结果外附带调用元数据
type Outcome struct {
	Result    Result `json:"result"`
	Fallback  bool   `json:"fallback"`
	CacheHit  bool   `json:"cache_hit"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	LatencyMs int64  `json:"latency_ms"`
	TextHash  string `json:"-"`
}

// AnalysisLog 分析审计日志表
type AnalysisLog struct {
	Id             string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	TenantId       string    `gorm:"column:tenant_id;type:varchar(64);index;not null" json:"tenant_id"`
	Subject        string    `gorm:"column:subject;type:varchar(128)" json:"subject"`
	NotificationId string    `gorm:"column:notification_id;type:varchar(20);index" json:"notification_id"`
	Language       string    `gorm:"column:language;type:varchar(8)" json:"language"`
	TextHash       string    `gorm:"column:text_hash;type:char(64);not null" json:"text_hash"`
	Score          int       `gorm:"column:score;type:int;not null" json:"score"`
	IssuesJson     string    `gorm:"column:issues_json;type:text" json:"-"`
	Summary        string    `gorm:"column:summary;type:text" json:"summary"`
	Fallback       bool      `gorm:"column:fallback;not null;default:false" json:"fallback"`
	Provider       string    `gorm:"column:provider;type:varchar(32)" json:"provider"`
	Model          string    `gorm:"column:model;type:varchar(128)" json:"model"`
	LatencyMs      int64     `gorm:"column:latency_ms;type:bigint" json:"latency_ms"`
	CreatedAt      time.Time `gorm:"column:created_at;type:datetime;not null;index" json:"created_at"`
}

func (AnalysisLog) TableName() string {
	return "analysis_log"
}

// LogQuery 审计日志查询条件
type LogQuery struct {
	TenantId       string
	NotificationId string
	Limit          int
}

const (
	DefaultLogLimit = 20
	MaxLogLimit     = 100
)

// Event 分析完成事件，发布到 kafka
type Event struct {
	EventId        string    `json:"event_id"`
	TenantId       string    `json:"tenant_id"`
	NotificationId string    `json:"notification_id,omitempty"`
	Language       string    `json:"language,omitempty"`
	TextHash       string    `json:"text_hash"`
	Result         Result    `json:"result"`
	Fallback       bool      `json:"fallback"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Request 异步分析请求（kafka requestTopic 消息体）
type Request struct {
	NotificationId string `json:"notification_id"`
	Language       string `json:"language"`
	Tenant         string `json:"tenant"`
}
