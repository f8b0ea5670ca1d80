package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"MaintLens/internal/modules/analysis/domain/analysis"
	"MaintLens/internal/modules/analysis/domain/repository"
	"MaintLens/pkg/util"

	"gorm.io/gorm"
)

type analysisLogRepositoryImpl struct {
	db *gorm.DB
}

func NewAnalysisLogRepository(db *gorm.DB) repository.AnalysisLogRepository {
	return &analysisLogRepositoryImpl{db: db}
}

func (r *analysisLogRepositoryImpl) Append(ctx context.Context, log *analysis.AnalysisLog) error {
	if log == nil {
		return nil
	}
	if log.Id == "" {
		log.Id = util.GenerateUUID()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("append analysis log: %w", err)
	}
	return nil
}

func (r *analysisLogRepositoryImpl) ListLatest(ctx context.Context, q analysis.LogQuery) ([]*analysis.AnalysisLog, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = analysis.DefaultLogLimit
	}
	limit = util.ClampInt(limit, 1, analysis.MaxLogLimit)

	query := r.db.WithContext(ctx).Model(&analysis.AnalysisLog{})
	if tenant := strings.TrimSpace(q.TenantId); tenant != "" {
		query = query.Where("tenant_id = ?", tenant)
	}
	if id := strings.TrimSpace(q.NotificationId); id != "" {
		query = query.Where("notification_id = ?", id)
	}

	logs := make([]*analysis.AnalysisLog, 0)
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("list analysis logs: %w", err)
	}
	return logs, nil
}
