package repository

import (
	"context"

	"MaintLens/internal/modules/analysis/domain/analysis"
)

// AnalysisLogRepository 分析审计日志仓储接口，只追加不修改
type AnalysisLogRepository interface {
	Append(ctx context.Context, log *analysis.AnalysisLog) error
	// ListLatest 按创建时间倒序返回最近的日志
	ListLatest(ctx context.Context, q analysis.LogQuery) ([]*analysis.AnalysisLog, error)
}
