package repository

import (
	"context"

	"MaintLens/internal/modules/notification/domain/entity"
)

// NotificationRepository 通知只读仓储
type NotificationRepository interface {
	// FetchUnified 组装通知聚合视图；found=false 表示通知不存在（不是错误）
	FetchUnified(ctx context.Context, notificationID string, language string) (notif *entity.UnifiedNotification, found bool, err error)

	// List 按创建时间倒序列出通知抬头；q.Paginate=false 时忽略分页参数返回全量
	List(ctx context.Context, q entity.ListQuery) (*entity.NotificationPage, error)

	// Ping 检查数据库连通性
	Ping(ctx context.Context) error
}
